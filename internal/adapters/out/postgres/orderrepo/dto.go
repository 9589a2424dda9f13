// Package orderrepo maps order aggregates to the orders and order_items tables.
// Statuses are stored as their wire codes so the NOTIFY payloads emitted by the table
// triggers can be read without a lookup table.
package orderrepo

import (
	"time"

	"orderboard/internal/core/domain/model/kernel"
	"orderboard/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents one row of the orders table.
type OrderDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Status        string          `gorm:"type:text;not null;index"`
	CreatedAt     time.Time       `gorm:"type:timestamptz;not null;index"`
	FinalizedAt   *time.Time      `gorm:"type:timestamptz"`
	Total         decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	PaymentMethod *string         `gorm:"type:text"`
	CustomerID    string          `gorm:"type:text"`
	CustomerName  string          `gorm:"type:text"`
	CustomerPhone string          `gorm:"type:text"`
	CustomerEmail *string         `gorm:"type:text"`
	Note          *string         `gorm:"type:text"`
	Items         []OrderItemDTO  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default naming convention.
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO represents one row of the order_items table.
type OrderItemDTO struct {
	ID              uuid.UUID           `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID           `gorm:"type:uuid;not null;index"`
	Position        int                 `gorm:"not null;default:0"`
	ProductID       uuid.UUID           `gorm:"type:uuid"`
	ProductName     string              `gorm:"type:text"`
	ProductUnit     string              `gorm:"type:text"`
	Quantity        decimal.Decimal     `gorm:"type:numeric(12,3);not null;default:0"`
	RequestedWeight decimal.NullDecimal `gorm:"type:numeric(12,3)"`
	ActualWeight    decimal.NullDecimal `gorm:"type:numeric(12,3)"`
	UnitPrice       decimal.Decimal     `gorm:"type:numeric(12,2);not null;default:0"`
	LineTotal       decimal.Decimal     `gorm:"type:numeric(12,2);not null;default:0"`
	Note            *string             `gorm:"type:text"`
}

// TableName overrides GORM's default naming convention.
func (OrderItemDTO) TableName() string {
	return "order_items"
}

// fromDomain converts an order aggregate to its rows. Item positions follow the order
// of o.Items().
func fromDomain(o *order.Order) OrderDTO {
	customer := o.Customer()
	dto := OrderDTO{
		ID:            o.ID().Bytes(),
		Status:        o.Status().String(),
		CreatedAt:     o.CreatedAt(),
		FinalizedAt:   o.FinalizedAt(),
		Total:         o.Total(),
		PaymentMethod: o.PaymentMethod(),
		CustomerID:    customer.ID,
		CustomerName:  customer.Name,
		CustomerPhone: customer.Phone,
		CustomerEmail: customer.Email,
		Note:          o.Note(),
	}

	items := o.Items()
	dto.Items = make([]OrderItemDTO, 0, len(items))
	for i, item := range items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ID:              item.ID().Bytes(),
			OrderID:         dto.ID,
			Position:        i,
			ProductID:       item.Product().ID.Bytes(),
			ProductName:     item.Product().Name,
			ProductUnit:     item.Product().Unit,
			Quantity:        item.Quantity(),
			RequestedWeight: toNull(item.RequestedWeight()),
			ActualWeight:    toNull(item.ActualWeight()),
			UnitPrice:       item.UnitPrice(),
			LineTotal:       item.LineTotal(),
			Note:            item.Note(),
		})
	}
	return dto
}

// toDomain rebuilds the aggregate. Unrecognized status codes map to order.Unknown.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	status, _ := order.ParseStatus(dto.Status)
	return order.RestoreOrder(order.RestoreOrderParams{
		ID:            id,
		Status:        status,
		CreatedAt:     dto.CreatedAt,
		FinalizedAt:   dto.FinalizedAt,
		Total:         dto.Total,
		PaymentMethod: dto.PaymentMethod,
		Customer: order.Customer{
			ID:    dto.CustomerID,
			Name:  dto.CustomerName,
			Phone: dto.CustomerPhone,
			Email: dto.CustomerEmail,
		},
		Note:  dto.Note,
		Items: items,
	})
}

func itemToDomain(dto OrderItemDTO) (order.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return order.Item{}, err
	}

	// Products may be deleted from the catalog; lines keep their denormalized name.
	var productID kernel.UUID
	if dto.ProductID != uuid.Nil {
		if productID, err = kernel.UUIDFromBytes(dto.ProductID[:]); err != nil {
			return order.Item{}, err
		}
	}

	return order.RestoreItem(order.ItemParams{
		ID:              id,
		Product:         order.Product{ID: productID, Name: dto.ProductName, Unit: dto.ProductUnit},
		Quantity:        dto.Quantity,
		RequestedWeight: fromNull(dto.RequestedWeight),
		ActualWeight:    fromNull(dto.ActualWeight),
		UnitPrice:       dto.UnitPrice,
		LineTotal:       dto.LineTotal,
		Note:            dto.Note,
	})
}

func toNull(v *decimal.Decimal) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*v)
}

func fromNull(v decimal.NullDecimal) *decimal.Decimal {
	if !v.Valid {
		return nil
	}
	d := v.Decimal
	return &d
}
