package entities

import (
	"time"

	"snab-system/pkg/constants"
)

type User struct {
	ID           uint64
	Fio          string
	Login        string
	PasswordHash string
	Role         constants.Role
	CreatedAt    time.Time
	DeletedAt    *time.Time
}
