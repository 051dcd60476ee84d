package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"snab-system/internal/entities"
	"snab-system/internal/events"
	"snab-system/pkg/constants"
	"snab-system/pkg/eventbus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeCache повторяет семантику MarkOnce: первая отметка по ключу — true.
type fakeCache struct {
	mu     sync.Mutex
	marked map[string]struct{}
}

func newFakeCache() *fakeCache {
	return &fakeCache{marked: make(map[string]struct{})}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) { return "", nil }
func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}
func (c *fakeCache) Del(ctx context.Context, keys ...string) error { return nil }

func (c *fakeCache) MarkOnce(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.marked[key]; ok {
		return false, nil
	}
	c.marked[key] = struct{}{}
	return true, nil
}

func TestSlaSweep(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	cache := newFakeCache()
	logger := zap.NewNop()
	bus := eventbus.New(logger)

	received := make(chan events.SlaBreachedEvent, 10)
	bus.Subscribe(events.SlaBreachedEvent{}.Name(), func(ctx context.Context, event eventbus.Event) error {
		received <- event.(events.SlaBreachedEvent)
		return nil
	})

	// Заявка пересидела 24-часовой норматив NACHALNIK_REVIEW.
	breached := &entities.Request{
		Name:           "Цемент М500",
		Type:           constants.RequestTypeMaterials,
		ChainID:        constants.ChainFull,
		Status:         constants.StatusNachalnikReview,
		CreatorID:      1,
		StageEnteredAt: time.Now().Add(-30 * time.Hour),
	}
	_, err := requestRepo.CreateInTx(context.Background(), nil, breached)
	require.NoError(t, err)

	// Этап без норматива — в выборку не попадает.
	noSla := &entities.Request{
		Name:           "Опалубка",
		Type:           constants.RequestTypeTools,
		ChainID:        constants.ChainWarehouseOnly,
		Status:         constants.StatusNovaya,
		CreatorID:      1,
		StageEnteredAt: time.Now().Add(-100 * time.Hour),
	}
	_, err = requestRepo.CreateInTx(context.Background(), nil, noSla)
	require.NoError(t, err)

	svc := NewSlaService(requestRepo, cache, bus, logger, time.Minute, time.Hour)
	svc.Sweep(context.Background())

	select {
	case event := <-received:
		assert.Equal(t, breached.ID, event.RequestID)
		assert.Equal(t, constants.StatusNachalnikReview, event.Status)
		assert.Equal(t, constants.RoleNachalnik, event.Role)
		assert.Greater(t, event.Overdue, time.Duration(0))
	case <-time.After(2 * time.Second):
		t.Fatal("событие о просрочке не опубликовано")
	}

	// Повторный проход по тому же этапу уведомление не дублирует.
	svc.Sweep(context.Background())
	select {
	case event := <-received:
		t.Fatalf("неожиданное повторное событие по заявке %d", event.RequestID)
	case <-time.After(200 * time.Millisecond):
	}
}
