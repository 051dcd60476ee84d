package services

import (
	"context"
	"fmt"
	"time"

	"snab-system/internal/chains"
	"snab-system/internal/events"
	"snab-system/internal/repositories"
	"snab-system/internal/workflow"
	"snab-system/pkg/eventbus"

	"go.uber.org/zap"
)

// SlaService периодически обходит открытые заявки и публикует событие
// по каждой заявке, пересидевшей срок на текущем этапе.
type SlaService struct {
	requestRepo repositories.RequestRepositoryInterface
	cache       repositories.CacheRepositoryInterface
	bus         *eventbus.Bus
	logger      *zap.Logger
	interval    time.Duration
	notifiedTTL time.Duration
}

func NewSlaService(
	requestRepo repositories.RequestRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
	interval time.Duration,
	notifiedTTL time.Duration,
) *SlaService {
	return &SlaService{
		requestRepo: requestRepo,
		cache:       cache,
		bus:         bus,
		logger:      logger,
		interval:    interval,
		notifiedTTL: notifiedTTL,
	}
}

// Run блокируется до отмены контекста. Запускать отдельной горутиной.
func (s *SlaService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("SLA-монитор запущен", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("SLA-монитор остановлен")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep — один проход. Повторное уведомление по тому же этапу той же
// заявки гасится отметкой в Redis: ключ включает момент входа в этап,
// поэтому после возврата заявки на этап уведомление придёт снова.
func (s *SlaService) Sweep(ctx context.Context) {
	now := time.Now()

	requests, err := s.requestRepo.ListOpen(ctx)
	if err != nil {
		s.logger.Error("SLA-обход: не удалось получить открытые заявки", zap.Error(err))
		return
	}

	breached := 0
	for i := range requests {
		req := &requests[i]
		if !workflow.IsBreached(req, now) {
			continue
		}
		deadline, _ := workflow.DeadlineFor(req)

		key := fmt.Sprintf("sla:notified:%d:%d", req.ID, req.StageEnteredAt.Unix())
		first, err := s.cache.MarkOnce(ctx, key, s.notifiedTTL)
		if err != nil {
			s.logger.Error("SLA-обход: ошибка отметки уведомления",
				zap.Uint64("request_id", req.ID), zap.Error(err))
			continue
		}
		if !first {
			continue
		}

		event := events.SlaBreachedEvent{
			RequestID: req.ID,
			Status:    req.Status,
			Deadline:  deadline,
			Overdue:   now.Sub(deadline),
		}
		if stage, ok := chains.Get(req.ChainID).StageFor(req.Status); ok {
			event.Role = stage.Role
		}

		breached++
		s.bus.Publish(ctx, event)
	}

	if breached > 0 {
		s.logger.Warn("SLA-обход: найдены просроченные заявки",
			zap.Int("count", breached), zap.Int("open", len(requests)))
	}
}
