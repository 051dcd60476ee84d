package services

import (
	"context"
	"time"

	"snab-system/internal/authz"
	"snab-system/internal/chains"
	"snab-system/internal/dto"
	"snab-system/internal/entities"
	"snab-system/internal/events"
	"snab-system/internal/repositories"
	"snab-system/internal/workflow"
	"snab-system/pkg/constants"
	apperrors "snab-system/pkg/errors"
	"snab-system/pkg/eventbus"
	"snab-system/pkg/types"
	"snab-system/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RequestServiceInterface interface {
	CreateRequest(ctx context.Context, data dto.CreateRequestDTO) (*dto.RequestDTO, error)
	FindRequest(ctx context.Context, id uint64) (*dto.RequestDTO, error)
	GetRequests(ctx context.Context, filter types.Filter) ([]dto.RequestDTO, uint64, error)
	ApplyTransition(ctx context.Context, id uint64, data dto.TransitionDTO) (*dto.RequestDTO, error)
	GetHistory(ctx context.Context, id uint64, limit, offset uint64) ([]dto.HistoryEntryDTO, error)
	GetDeadline(ctx context.Context, id uint64) (*dto.DeadlineDTO, error)
	UpdateSpecification(ctx context.Context, id uint64, data dto.UpdateSpecificationDTO) error
	UpdateFinancials(ctx context.Context, id uint64, data dto.UpdateFinancialsDTO) error
	DeleteRequest(ctx context.Context, id uint64, force bool) error
}

type RequestService struct {
	txManager   repositories.TxManagerInterface
	requestRepo repositories.RequestRepositoryInterface
	historyRepo repositories.HistoryRepositoryInterface
	bus         *eventbus.Bus
	logger      *zap.Logger
}

func NewRequestService(
	txManager repositories.TxManagerInterface,
	requestRepo repositories.RequestRepositoryInterface,
	historyRepo repositories.HistoryRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) RequestServiceInterface {
	return &RequestService{
		txManager:   txManager,
		requestRepo: requestRepo,
		historyRepo: historyRepo,
		bus:         bus,
		logger:      logger,
	}
}

func (s *RequestService) CreateRequest(ctx context.Context, data dto.CreateRequestDTO) (*dto.RequestDTO, error) {
	actorID, role, err := utils.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.CanDo(authz.RequestsCreate, authz.Context{ActorID: actorID, Role: role}) {
		return nil, apperrors.ErrForbidden
	}

	if !constants.IsValidRequestType(data.Type) {
		return nil, apperrors.NewValidationError("неизвестный тип заявки: %s", data.Type)
	}
	reqType := constants.RequestType(data.Type)

	// Маршрут выбирается по типу заявки; ручное переопределение допускается
	// только при создании.
	chainID := chains.DefaultChain(reqType)
	if data.Chain != "" {
		if !constants.IsValidChainID(data.Chain) {
			return nil, apperrors.NewValidationError("неизвестный маршрут согласования: %s", data.Chain)
		}
		chainID = constants.ChainID(data.Chain)
	}

	now := time.Now()
	req := &entities.Request{
		Name:           data.Name,
		Type:           reqType,
		ChainID:        chainID,
		Status:         constants.StatusNovaya,
		SiteName:       data.SiteName,
		CreatorID:      actorID,
		StageEnteredAt: now,
		CreatedAt:      now,
	}
	for _, item := range data.Items {
		req.Items = append(req.Items, entities.LineItem{
			Name:     item.Name,
			Unit:     item.Unit,
			Quantity: item.Quantity,
		})
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.requestRepo.CreateInTx(ctx, tx, req); err != nil {
			return err
		}
		entry := &entities.HistoryEntry{
			RequestID: req.ID,
			OpID:      uuid.New(),
			ToStatus:  constants.StatusNovaya,
			ActorID:   actorID,
			ActorRole: role,
			Comment:   data.Comment,
			CreatedAt: now,
		}
		return s.historyRepo.InsertInTx(ctx, tx, entry)
	})
	if err != nil {
		s.logger.Error("Не удалось создать заявку", zap.Error(err))
		return nil, err
	}

	s.publishStatusChanged(ctx, req, nil, actorID, role)
	s.logger.Info("Создана заявка",
		zap.Uint64("id", req.ID),
		zap.String("type", string(reqType)),
		zap.String("chain", string(chainID)),
	)

	return s.toDTO(req, role), nil
}

// ApplyTransition — единая точка входа для смены статуса.
// Сохранение условно по версии, прочитанной вместе с заявкой: параллельное
// изменение даёт ErrVersionConflict, и действие целиком не применяется.
func (s *RequestService) ApplyTransition(ctx context.Context, id uint64, data dto.TransitionDTO) (*dto.RequestDTO, error) {
	actorID, role, err := utils.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if !constants.IsValidStatus(data.ToStatus) {
		return nil, apperrors.NewValidationError("неизвестный статус: %s", data.ToStatus)
	}
	toStatus := constants.Status(data.ToStatus)

	payload := workflow.Payload{Comment: data.Comment}
	for _, f := range data.Items {
		payload.Fulfillment = append(payload.Fulfillment, workflow.Fulfillment{
			ItemID:   f.ItemID,
			Quantity: f.Quantity,
		})
	}

	var req *entities.Request
	var outcome *workflow.Outcome

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err = s.requestRepo.FindByIDInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		expectedVersion := req.Version

		now := time.Now()
		outcome, err = workflow.Transition(req, workflow.Actor{ID: actorID, Role: role}, toStatus, payload, now)
		if err != nil {
			return err
		}

		if err := s.requestRepo.UpdateStateInTx(ctx, tx, req, expectedVersion); err != nil {
			return err
		}
		if err := s.historyRepo.InsertInTx(ctx, tx, &outcome.Entry); err != nil {
			return err
		}

		if outcome.Remainder != nil {
			if err := s.requestRepo.UpdateItemsInTx(ctx, tx, req); err != nil {
				return err
			}
			if _, err := s.requestRepo.CreateInTx(ctx, tx, outcome.Remainder); err != nil {
				return err
			}
			// Производная заявка наследует OpID исходного действия:
			// в аудите видно, что обе записи порождены одной операцией.
			childEntry := &entities.HistoryEntry{
				RequestID: outcome.Remainder.ID,
				OpID:      outcome.Entry.OpID,
				ToStatus:  outcome.Remainder.Status,
				ActorID:   actorID,
				ActorRole: role,
				CreatedAt: now,
			}
			if err := s.historyRepo.InsertInTx(ctx, tx, childEntry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishOutcome(ctx, req, outcome, actorID, role)
	return s.toDTO(req, role), nil
}

func (s *RequestService) publishOutcome(ctx context.Context, req *entities.Request, outcome *workflow.Outcome, actorID uint64, role constants.Role) {
	s.publishStatusChanged(ctx, req, outcome.Entry.FromStatus, actorID, role)

	if len(outcome.StockDecrement) > 0 {
		lines := make([]events.StockLine, 0, len(outcome.StockDecrement))
		for _, l := range outcome.StockDecrement {
			lines = append(lines, events.StockLine{Name: l.Name, Unit: l.Unit, Quantity: l.Quantity})
		}
		s.bus.Publish(ctx, events.StockDecrementRequestedEvent{RequestID: req.ID, Lines: lines})
	}

	if outcome.PurchaseEligible {
		s.bus.Publish(ctx, events.PurchaseOrderEligibleEvent{RequestID: req.ID})
	}

	if outcome.Remainder != nil {
		s.publishStatusChanged(ctx, outcome.Remainder, nil, actorID, role)
	}
}

func (s *RequestService) publishStatusChanged(ctx context.Context, req *entities.Request, from *constants.Status, actorID uint64, role constants.Role) {
	event := events.RequestStatusChangedEvent{
		RequestID:  req.ID,
		FromStatus: from,
		ToStatus:   req.Status,
		ActorID:    actorID,
		ActorRole:  role,
	}
	if deadline, ok := workflow.DeadlineFor(req); ok {
		event.Deadline = &deadline
	}
	s.bus.Publish(ctx, event)
}

func (s *RequestService) FindRequest(ctx context.Context, id uint64) (*dto.RequestDTO, error) {
	actorID, role, err := utils.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	req, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !authz.CanView(authz.Context{ActorID: actorID, Role: role, Target: req}) {
		return nil, apperrors.ErrForbidden
	}
	return s.toDTO(req, role), nil
}

func (s *RequestService) GetRequests(ctx context.Context, filter types.Filter) ([]dto.RequestDTO, uint64, error) {
	actorID, role, err := utils.ActorFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}

	authzCtx := authz.Context{ActorID: actorID, Role: role}
	var creatorID *uint64
	if !authz.CanDo(authz.RequestsViewAll, authzCtx) {
		if !authz.CanDo(authz.RequestsViewOwn, authzCtx) {
			return nil, 0, apperrors.ErrForbidden
		}
		creatorID = &actorID
	}

	requests, total, err := s.requestRepo.List(ctx, filter, creatorID)
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.RequestDTO, 0, len(requests))
	for i := range requests {
		result = append(result, *s.toDTO(&requests[i], role))
	}
	return result, total, nil
}

func (s *RequestService) GetHistory(ctx context.Context, id uint64, limit, offset uint64) ([]dto.HistoryEntryDTO, error) {
	actorID, role, err := utils.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	req, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanView(authz.Context{ActorID: actorID, Role: role, Target: req}) {
		return nil, apperrors.ErrForbidden
	}

	if limit == 0 || limit > 200 {
		limit = 200
	}
	entries, err := s.historyRepo.ListByRequestID(ctx, id, limit, offset)
	if err != nil {
		return nil, err
	}

	result := make([]dto.HistoryEntryDTO, 0, len(entries))
	for _, e := range entries {
		item := dto.HistoryEntryDTO{
			ID:        e.ID,
			OpID:      e.OpID.String(),
			ToStatus:  string(e.ToStatus),
			ActorID:   e.ActorID,
			ActorRole: string(e.ActorRole),
			Comment:   e.Comment,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		}
		if e.FromStatus != nil {
			from := string(*e.FromStatus)
			item.FromStatus = &from
		}
		result = append(result, item)
	}
	return result, nil
}

func (s *RequestService) GetDeadline(ctx context.Context, id uint64) (*dto.DeadlineDTO, error) {
	actorID, role, err := utils.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	req, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanView(authz.Context{ActorID: actorID, Role: role, Target: req}) {
		return nil, apperrors.ErrForbidden
	}

	result := &dto.DeadlineDTO{RequestID: req.ID, Status: string(req.Status)}
	if deadline, ok := workflow.DeadlineFor(req); ok {
		formatted := deadline.Format(time.RFC3339)
		result.Deadline = &formatted
		result.Breached = workflow.IsBreached(req, time.Now())
	}
	return result, nil
}

// UpdateSpecification — правка позиций начальником участка.
func (s *RequestService) UpdateSpecification(ctx context.Context, id uint64, data dto.UpdateSpecificationDTO) error {
	actorID, role, err := utils.ActorFromContext(ctx)
	if err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requestRepo.FindByIDInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if constants.IsFinalStatus(req.Status) {
			return apperrors.ErrRequestClosed
		}
		if !authz.CanDo(authz.RequestsSpecUpdate, authz.Context{ActorID: actorID, Role: role, Target: req}) {
			return apperrors.ErrForbidden
		}

		byID := make(map[uint64]*entities.LineItem, len(req.Items))
		for i := range req.Items {
			byID[req.Items[i].ID] = &req.Items[i]
		}
		for _, change := range data.Items {
			item, ok := byID[change.ItemID]
			if !ok {
				return apperrors.NewValidationError("позиция %d не найдена в заявке", change.ItemID)
			}
			if change.Name.Valid {
				item.Name = change.Name.String
			}
			if change.Unit.Valid {
				item.Unit = change.Unit.String
			}
			if change.Quantity.Valid {
				if change.Quantity.Float64 <= 0 || change.Quantity.Float64 < item.FulfilledQuantity {
					return apperrors.NewValidationError("недопустимое количество по позиции %d", change.ItemID)
				}
				item.Quantity = change.Quantity.Float64
			}
		}
		return s.requestRepo.UpdateItemsInTx(ctx, tx, req)
	})
}

func (s *RequestService) UpdateFinancials(ctx context.Context, id uint64, data dto.UpdateFinancialsDTO) error {
	actorID, role, err := utils.ActorFromContext(ctx)
	if err != nil {
		return err
	}

	req, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanDo(authz.RequestsFinanceUpdate, authz.Context{ActorID: actorID, Role: role, Target: req}) {
		return apperrors.ErrForbidden
	}

	var cost *float64
	if data.EstimatedCost.Valid {
		if data.EstimatedCost.Float64 < 0 {
			return apperrors.NewValidationError("оценочная стоимость не может быть отрицательной")
		}
		cost = &data.EstimatedCost.Float64
	}
	return s.requestRepo.UpdateFinancials(ctx, id, cost)
}

// DeleteRequest — мягкое удаление закрытой заявки; админ с force=true
// удаляет физически в любом статусе.
func (s *RequestService) DeleteRequest(ctx context.Context, id uint64, force bool) error {
	actorID, role, err := utils.ActorFromContext(ctx)
	if err != nil {
		return err
	}

	req, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	authzCtx := authz.Context{ActorID: actorID, Role: role, Target: req}
	if force {
		if !authz.CanDo(authz.RequestsForceDelete, authzCtx) {
			return apperrors.ErrForbidden
		}
		return s.requestRepo.ForceDelete(ctx, id)
	}

	if role != constants.RoleAdmin && req.CreatorID != actorID {
		return apperrors.ErrForbidden
	}
	if !constants.IsFinalStatus(req.Status) {
		return apperrors.ErrRequestNotTerminal
	}
	return s.requestRepo.SoftDelete(ctx, id)
}

// toDTO маппит сущность в ответ; финансовые поля видны только ролям
// с правом requests:view:financials.
func (s *RequestService) toDTO(req *entities.Request, viewerRole constants.Role) *dto.RequestDTO {
	result := &dto.RequestDTO{
		ID:             req.ID,
		Name:           req.Name,
		Type:           string(req.Type),
		Chain:          string(req.ChainID),
		Status:         string(req.Status),
		SiteName:       req.SiteName,
		CreatorID:      req.CreatorID,
		ParentID:       req.ParentID,
		StageEnteredAt: req.StageEnteredAt.Format(time.RFC3339),
		Version:        req.Version,
		CreatedAt:      req.CreatedAt.Format(time.RFC3339),
		Items:          make([]dto.LineItemDTO, 0, len(req.Items)),
	}

	if authz.CanDo(authz.RequestsViewFinancials, authz.Context{Role: viewerRole}) {
		result.EstimatedCost = req.EstimatedCost
	}

	if deadline, ok := workflow.DeadlineFor(req); ok {
		formatted := deadline.Format(time.RFC3339)
		result.Deadline = &formatted
		result.SlaBreached = workflow.IsBreached(req, time.Now())
	}

	for _, item := range req.Items {
		result.Items = append(result.Items, dto.LineItemDTO{
			ID:                item.ID,
			Name:              item.Name,
			Unit:              item.Unit,
			Quantity:          item.Quantity,
			FulfilledQuantity: item.FulfilledQuantity,
		})
	}
	return result
}
