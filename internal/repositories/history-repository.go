package repositories

import (
	"context"
	"fmt"

	"snab-system/internal/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HistoryRepositoryInterface interface {
	InsertInTx(ctx context.Context, tx pgx.Tx, entry *entities.HistoryEntry) error
	ListByRequestID(ctx context.Context, requestID uint64, limit, offset uint64) ([]entities.HistoryEntry, error)
}

type HistoryRepository struct {
	storage *pgxpool.Pool
}

func NewHistoryRepository(storage *pgxpool.Pool) HistoryRepositoryInterface {
	return &HistoryRepository{storage: storage}
}

// InsertInTx дописывает запись аудита. История append-only: UPDATE/DELETE
// по request_history в коде отсутствуют намеренно.
func (r *HistoryRepository) InsertInTx(ctx context.Context, tx pgx.Tx, entry *entities.HistoryEntry) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO request_history (request_id, op_id, from_status, to_status, actor_id, actor_role, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		entry.RequestID, entry.OpID, entry.FromStatus, entry.ToStatus,
		entry.ActorID, entry.ActorRole, entry.Comment, entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("ошибка записи истории: %w", err)
	}
	return nil
}

func (r *HistoryRepository) ListByRequestID(ctx context.Context, requestID uint64, limit, offset uint64) ([]entities.HistoryEntry, error) {
	rows, err := r.storage.Query(ctx, `
		SELECT id, request_id, op_id, from_status, to_status, actor_id, actor_role, comment, created_at
		FROM request_history
		WHERE request_id = $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3`,
		requestID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения истории: %w", err)
	}
	defer rows.Close()

	entries := make([]entities.HistoryEntry, 0)
	for rows.Next() {
		var e entities.HistoryEntry
		if err := rows.Scan(&e.ID, &e.RequestID, &e.OpID, &e.FromStatus, &e.ToStatus, &e.ActorID, &e.ActorRole, &e.Comment, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи истории: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
