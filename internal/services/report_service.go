package services

import (
	"context"
	"time"

	"snab-system/internal/authz"
	"snab-system/internal/dto"
	"snab-system/internal/repositories"
	"snab-system/internal/workflow"
	"snab-system/pkg/constants"
	apperrors "snab-system/pkg/errors"
	"snab-system/pkg/types"
	"snab-system/pkg/utils"

	"go.uber.org/zap"
)

type ReportServiceInterface interface {
	GetReport(ctx context.Context, filter types.Filter) ([]dto.ReportItemDTO, uint64, error)
}

// ReportService формирует реестр заявок для выгрузки.
type ReportService struct {
	requestRepo repositories.RequestRepositoryInterface
	userRepo    repositories.UserRepositoryInterface
	logger      *zap.Logger
}

func NewReportService(
	requestRepo repositories.RequestRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	logger *zap.Logger,
) ReportServiceInterface {
	return &ReportService{requestRepo: requestRepo, userRepo: userRepo, logger: logger}
}

func (s *ReportService) GetReport(ctx context.Context, filter types.Filter) ([]dto.ReportItemDTO, uint64, error) {
	actorID, role, err := utils.ActorFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}
	if !authz.CanDo(authz.RequestsViewAll, authz.Context{ActorID: actorID, Role: role}) {
		return nil, 0, apperrors.ErrForbidden
	}
	showFinancials := authz.CanDo(authz.RequestsViewFinancials, authz.Context{Role: role})

	requests, total, err := s.requestRepo.List(ctx, filter, nil)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now()
	creators := map[uint64]string{}

	items := make([]dto.ReportItemDTO, 0, len(requests))
	for i := range requests {
		req := &requests[i]

		fio, ok := creators[req.CreatorID]
		if !ok {
			if user, err := s.userRepo.FindByID(ctx, req.CreatorID); err == nil {
				fio = user.Fio
			}
			creators[req.CreatorID] = fio
		}

		item := dto.ReportItemDTO{
			ID:        req.ID,
			Name:      req.Name,
			Type:      string(req.Type),
			Chain:     string(req.ChainID),
			Status:    string(req.Status),
			SiteName:  req.SiteName,
			Creator:   fio,
			Positions: len(req.Items),
			CreatedAt: req.CreatedAt,
		}
		if showFinancials {
			item.EstimatedCost = req.EstimatedCost
		}

		switch {
		case constants.IsFinalStatus(req.Status):
			item.SlaStatus = "закрыта"
		case workflow.IsBreached(req, now):
			item.SlaStatus = "просрочена"
		default:
			item.SlaStatus = "в срок"
		}
		if deadline, ok := workflow.DeadlineFor(req); ok {
			item.Deadline = &deadline
		}

		items = append(items, item)
	}
	return items, total, nil
}
