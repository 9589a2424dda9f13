package orderrepo

import (
	"context"
	"errors"

	"orderboard/internal/core/domain/model/kernel"
	"orderboard/internal/core/domain/model/order"
	"orderboard/internal/core/ports"
	"orderboard/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// finalizedAtExpr computes the new finalized_at for a status change. SET expressions
// see the row before the update, so an order that already was finalized keeps its stamp.
const finalizedAtExpr = `CASE
	WHEN CAST(? AS text) <> 'finalized' THEN NULL
	WHEN status = 'finalized' THEN finalized_at
	ELSE now()
END`

// GormOrderRepository implements ports.OrderRepository using GORM.
//
// It runs on whatever *gorm.DB it is given. UpdateItemsAndStatus issues several
// statements, so callers needing atomicity pass a transaction (see the unit of work).
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a repository on db.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add inserts an order and its items. It is used by seeding and tests; the board
// never creates orders.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if err := aggregate.Status().Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ListByStatus returns the orders in status, newest first, with their items.
func (r *GormOrderRepository) ListByStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.withItems(ctx).
		Where("status = ?", status.String()).
		Order("created_at DESC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, mapErr := toDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.withItems(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// UpdateStatus sets the status and maintains finalized_at.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id kernel.UUID, status order.Status) error {
	if err := errors.Join(id.Validate(), status.Validate()); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", id.Bytes()).
		Updates(map[string]any{
			"status":       status.String(),
			"finalized_at": gorm.Expr(finalizedAtExpr, status.String()),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", id.String())
	}
	return nil
}

// UpdateItemsAndStatus writes the weighed lines, then the order row. Every line must
// belong to the order.
func (r *GormOrderRepository) UpdateItemsAndStatus(
	ctx context.Context,
	id kernel.UUID,
	items []ports.ItemUpdate,
	total decimal.Decimal,
	status order.Status,
) error {
	if err := errors.Join(id.Validate(), status.Validate()); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)

	// Lock the order first so concurrent writers serialize on the parent row.
	var locked OrderDTO
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&locked, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewObjectNotFoundError("order", id.String())
		}
		return err
	}

	for _, item := range items {
		result := db.Model(&OrderItemDTO{}).
			Where("id = ? AND order_id = ?", item.ItemID.Bytes(), id.Bytes()).
			Updates(map[string]any{
				"actual_weight": item.ActualWeight,
				"line_total":    item.LineTotal,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errs.NewObjectNotFoundError("order item", item.ItemID.String())
		}
	}

	result := db.Model(&OrderDTO{}).
		Where("id = ?", id.Bytes()).
		Updates(map[string]any{
			"status":       status.String(),
			"total":        total,
			"finalized_at": gorm.Expr(finalizedAtExpr, status.String()),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", id.String())
	}
	return nil
}

func (r *GormOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}
