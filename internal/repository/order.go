package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/uptrace/bun"

	"github.com/joseph-ayodele/order-wizard/internal/common"
	"github.com/joseph-ayodele/order-wizard/internal/entity"
)

// OrderRepository is the persistence contract for orders. Lookup methods
// return (nil, nil) when no row matches; Update and Delete report a
// missing row as false, not an error.
type OrderRepository interface {
	Insert(ctx context.Context, order *entity.Order) (int64, error)
	Update(ctx context.Context, id int64, order *entity.Order) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*entity.Order, error)
	ListOrders(ctx context.Context) ([]*entity.Order, error)
}

type orderRepository struct {
	db     *bun.DB
	logger *slog.Logger
}

// NewOrderRepository builds the repository and initializes the schema.
// The repository is constructed once per process and injected into its
// callers; the DDL is create-if-absent, so schema initialization stays
// single-shot even if a second construction ever happens. The structure
// verification pass runs in the background so construction returns
// without waiting on it.
func NewOrderRepository(ctx context.Context, db *bun.DB, logger *slog.Logger) (OrderRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &orderRepository{db: db, logger: logger}

	if err := EnsureSchema(ctx, db, logger); err != nil {
		return nil, err
	}
	go func() {
		if err := VerifyStructure(context.WithoutCancel(ctx), db, logger); err != nil {
			logger.Error("database structure verification failed", "error", err)
		}
	}()
	return r, nil
}

func (r *orderRepository) Insert(ctx context.Context, order *entity.Order) (int64, error) {
	if err := order.Validate(); err != nil {
		r.logger.Error("order failed validation", "order_number", order.OrderNumber, "error", err)
		return 0, err
	}

	if _, err := r.db.NewInsert().
		Model(order).
		Column(entity.WriteColumns...).
		Exec(ctx); err != nil {
		r.logger.Error("failed to insert order", "order_number", order.OrderNumber, "error", err)
		return 0, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	// Pick up the store-assigned creation time so the entity mirrors the
	// row it now represents.
	if err := r.db.NewSelect().
		Model(order).
		Column("created_at").
		WherePK().
		Scan(ctx); err != nil {
		r.logger.Error("failed to load created_at after insert", "id", order.ID, "error", err)
		return 0, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	r.logger.Info("order inserted", "id", order.ID, "order_number", order.OrderNumber)
	return order.ID, nil
}

func (r *orderRepository) Update(ctx context.Context, id int64, order *entity.Order) (bool, error) {
	if err := order.Validate(); err != nil {
		r.logger.Error("order failed validation", "id", id, "error", err)
		return false, err
	}

	res, err := r.db.NewUpdate().
		Model(order).
		Column(entity.WriteColumns...).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		r.logger.Error("failed to update order", "id", id, "error", err)
		return false, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return rows > 0, nil
}

func (r *orderRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.NewDelete().
		Model((*entity.Order)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		r.logger.Error("failed to delete order", "id", id, "error", err)
		return false, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return rows > 0, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	order := new(entity.Order)
	err := r.db.NewSelect().
		Model(order).
		Where("id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("failed to get order", "id", id, "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return order, nil
}

func (r *orderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*entity.Order, error) {
	order := new(entity.Order)
	err := r.db.NewSelect().
		Model(order).
		Where("order_number = ?", orderNumber).
		OrderExpr("created_at ASC, id ASC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("failed to get order by number", "order_number", orderNumber, "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return order, nil
}

// ListOrders returns every order in creation order, oldest first. The id
// tiebreaker keeps the ordering stable when concurrent inserts land on
// the same timestamp.
func (r *orderRepository) ListOrders(ctx context.Context) ([]*entity.Order, error) {
	var orders []*entity.Order
	err := r.db.NewSelect().
		Model(&orders).
		OrderExpr("created_at ASC, id ASC").
		Scan(ctx)
	if err != nil {
		r.logger.Error("failed to list orders", "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return orders, nil
}
