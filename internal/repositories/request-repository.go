package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"snab-system/internal/entities"
	"snab-system/pkg/constants"
	apperrors "snab-system/pkg/errors"
	"snab-system/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RequestRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.Request, error)
	FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Request, error)
	List(ctx context.Context, filter types.Filter, creatorID *uint64) ([]entities.Request, uint64, error)
	ListOpen(ctx context.Context) ([]entities.Request, error)
	CreateInTx(ctx context.Context, tx pgx.Tx, req *entities.Request) (uint64, error)
	// UpdateStateInTx сохраняет статус/этап при условии совпадения версии.
	// Несовпадение версии — apperrors.ErrVersionConflict.
	UpdateStateInTx(ctx context.Context, tx pgx.Tx, req *entities.Request, expectedVersion uint64) error
	UpdateItemsInTx(ctx context.Context, tx pgx.Tx, req *entities.Request) error
	UpdateFinancials(ctx context.Context, id uint64, estimatedCost *float64) error
	SoftDelete(ctx context.Context, id uint64) error
	ForceDelete(ctx context.Context, id uint64) error
}

type RequestRepository struct {
	storage *pgxpool.Pool
}

func NewRequestRepository(storage *pgxpool.Pool) RequestRepositoryInterface {
	return &RequestRepository{storage: storage}
}

const requestColumns = `id, name, request_type, chain_id, status, site_name, creator_id, parent_id,
	estimated_cost, stock_decremented, stage_entered_at, version, created_at`

func scanRequest(row pgx.Row) (*entities.Request, error) {
	var r entities.Request
	err := row.Scan(
		&r.ID, &r.Name, &r.Type, &r.ChainID, &r.Status, &r.SiteName, &r.CreatorID, &r.ParentID,
		&r.EstimatedCost, &r.StockDecremented, &r.StageEnteredAt, &r.Version, &r.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования заявки: %w", err)
	}
	return &r, nil
}

func (r *RequestRepository) findByID(ctx context.Context, q querier, id uint64) (*entities.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1 AND deleted_at IS NULL`
	req, err := scanRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, q, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *RequestRepository) loadItems(ctx context.Context, q querier, req *entities.Request) error {
	rows, err := q.Query(ctx,
		`SELECT id, request_id, name, unit, quantity, fulfilled_quantity FROM request_items WHERE request_id = $1 ORDER BY id`,
		req.ID)
	if err != nil {
		return fmt.Errorf("ошибка загрузки спецификации: %w", err)
	}
	defer rows.Close()

	req.Items = req.Items[:0]
	for rows.Next() {
		var item entities.LineItem
		if err := rows.Scan(&item.ID, &item.RequestID, &item.Name, &item.Unit, &item.Quantity, &item.FulfilledQuantity); err != nil {
			return fmt.Errorf("ошибка сканирования позиции: %w", err)
		}
		req.Items = append(req.Items, item)
	}
	return rows.Err()
}

func (r *RequestRepository) FindByID(ctx context.Context, id uint64) (*entities.Request, error) {
	return r.findByID(ctx, r.storage, id)
}

func (r *RequestRepository) FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Request, error) {
	return r.findByID(ctx, tx, id)
}

// allowedRequestFilters — соответствие полей фильтра колонкам БД.
var allowedRequestFilters = map[string]string{
	"status":     "status",
	"type":       "request_type",
	"chain":      "chain_id",
	"creator_id": "creator_id",
	"site_name":  "site_name",
	"created_at": "created_at",
}

func (r *RequestRepository) List(ctx context.Context, filter types.Filter, creatorID *uint64) ([]entities.Request, uint64, error) {
	base := sq.Select(requestColumns).From("requests").
		Where("deleted_at IS NULL").
		PlaceholderFormat(sq.Dollar)

	countBase := sq.Select("COUNT(*)").From("requests").
		Where("deleted_at IS NULL").
		PlaceholderFormat(sq.Dollar)

	if creatorID != nil {
		base = base.Where(sq.Eq{"creator_id": *creatorID})
		countBase = countBase.Where(sq.Eq{"creator_id": *creatorID})
	}

	for jsonField, val := range filter.Filter {
		dbCol, ok := allowedRequestFilters[jsonField]
		if !ok {
			continue
		}
		base = base.Where(sq.Eq{dbCol: val})
		countBase = countBase.Where(sq.Eq{dbCol: val})
	}

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		base = base.Where(sq.ILike{"name": like})
		countBase = countBase.Where(sq.ILike{"name": like})
	}

	ordered := false
	for jsonField, dir := range filter.Sort {
		dbCol, ok := allowedRequestFilters[jsonField]
		if !ok {
			continue
		}
		sqlDir := "ASC"
		if dir == "desc" {
			sqlDir = "DESC"
		}
		base = base.OrderBy(fmt.Sprintf("%s %s", dbCol, sqlDir))
		ordered = true
	}
	if !ordered {
		base = base.OrderBy("created_at DESC")
	}

	if filter.Limit > 0 {
		base = base.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		base = base.Offset(uint64(filter.Offset))
	}

	countSQL, countArgs, err := countBase.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка построения запроса подсчета: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета заявок: %w", err)
	}

	listSQL, listArgs, err := base.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка построения запроса списка: %w", err)
	}

	rows, err := r.storage.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка заявок: %w", err)
	}
	defer rows.Close()

	requests := make([]entities.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range requests {
		if err := r.loadItems(ctx, r.storage, &requests[i]); err != nil {
			return nil, 0, err
		}
	}
	return requests, total, nil
}

// ListOpen возвращает заявки в нефинальных статусах для SLA-обхода.
func (r *RequestRepository) ListOpen(ctx context.Context) ([]entities.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests
		WHERE deleted_at IS NULL AND status NOT IN ($1, $2)`
	rows, err := r.storage.Query(ctx, query, constants.StatusPolucheno, constants.StatusOtkloneno)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки открытых заявок: %w", err)
	}
	defer rows.Close()

	requests := make([]entities.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

func (r *RequestRepository) CreateInTx(ctx context.Context, tx pgx.Tx, req *entities.Request) (uint64, error) {
	var id uint64
	err := tx.QueryRow(ctx, `
		INSERT INTO requests (name, request_type, chain_id, status, site_name, creator_id, parent_id,
			estimated_cost, stock_decremented, stage_entered_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 1)
		RETURNING id`,
		req.Name, req.Type, req.ChainID, req.Status, req.SiteName, req.CreatorID, req.ParentID,
		req.EstimatedCost, req.StockDecremented, req.StageEnteredAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания заявки: %w", err)
	}
	req.ID = id
	req.Version = 1

	for i := range req.Items {
		item := &req.Items[i]
		err := tx.QueryRow(ctx, `
			INSERT INTO request_items (request_id, name, unit, quantity, fulfilled_quantity)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			id, item.Name, item.Unit, item.Quantity, item.FulfilledQuantity,
		).Scan(&item.ID)
		if err != nil {
			return 0, fmt.Errorf("ошибка создания позиции спецификации: %w", err)
		}
		item.RequestID = id
	}

	return id, nil
}

func (r *RequestRepository) UpdateStateInTx(ctx context.Context, tx pgx.Tx, req *entities.Request, expectedVersion uint64) error {
	tag, err := tx.Exec(ctx, `
		UPDATE requests
		SET status = $1, stage_entered_at = $2, stock_decremented = $3, version = version + 1
		WHERE id = $4 AND version = $5 AND deleted_at IS NULL`,
		req.Status, req.StageEnteredAt, req.StockDecremented, req.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("ошибка сохранения состояния заявки: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrVersionConflict
	}
	req.Version = expectedVersion + 1
	return nil
}

func (r *RequestRepository) UpdateItemsInTx(ctx context.Context, tx pgx.Tx, req *entities.Request) error {
	for _, item := range req.Items {
		_, err := tx.Exec(ctx, `
			UPDATE request_items SET name = $1, unit = $2, quantity = $3, fulfilled_quantity = $4
			WHERE id = $5 AND request_id = $6`,
			item.Name, item.Unit, item.Quantity, item.FulfilledQuantity, item.ID, req.ID,
		)
		if err != nil {
			return fmt.Errorf("ошибка обновления позиции %d: %w", item.ID, err)
		}
	}
	return nil
}

func (r *RequestRepository) UpdateFinancials(ctx context.Context, id uint64, estimatedCost *float64) error {
	tag, err := r.storage.Exec(ctx,
		`UPDATE requests SET estimated_cost = $1 WHERE id = $2 AND deleted_at IS NULL`,
		estimatedCost, id)
	if err != nil {
		return fmt.Errorf("ошибка обновления финансовых полей: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *RequestRepository) SoftDelete(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx,
		`UPDATE requests SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`,
		time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка удаления заявки: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ForceDelete физически удаляет заявку вместе со спецификацией и историей.
func (r *RequestRepository) ForceDelete(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx, `DELETE FROM requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка физического удаления заявки: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
