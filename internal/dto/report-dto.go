package dto

import "time"

// ReportItemDTO - строка реестра заявок.
type ReportItemDTO struct {
	ID            uint64     `json:"id"`
	Name          string     `json:"name"`
	Type          string     `json:"type"`
	Chain         string     `json:"chain"`
	Status        string     `json:"status"`
	SiteName      string     `json:"siteName"`
	Creator       string     `json:"creator"`
	Positions     int        `json:"positions"`
	EstimatedCost *float64   `json:"estimatedCost,omitempty"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	SlaStatus     string     `json:"slaStatus"`
	CreatedAt     time.Time  `json:"createdAt"`
}
