package postgres

import (
	"context"
	"fmt"

	"orderboard/internal/adapters/out/postgres/orderrepo"

	"gorm.io/gorm"
)

// OrdersChannel is the NOTIFY channel carrying order changes.
const OrdersChannel = "orders_changes"

// notifyFunctions publish row changes as {"type","new","old"} JSON. Item changes are
// published as an update of the parent order with identical old and new rows, so they
// never look like a status change.
var notifyFunctions = []string{
	`CREATE OR REPLACE FUNCTION notify_orders_changes() RETURNS trigger AS $$
BEGIN
	PERFORM pg_notify('` + OrdersChannel + `', json_build_object(
		'type', TG_OP,
		'new', CASE WHEN TG_OP = 'DELETE' THEN NULL ELSE row_to_json(NEW) END,
		'old', CASE WHEN TG_OP = 'INSERT' THEN NULL ELSE row_to_json(OLD) END
	)::text);
	RETURN NULL;
END;
$$ LANGUAGE plpgsql`,

	`CREATE OR REPLACE FUNCTION notify_order_items_changes() RETURNS trigger AS $$
DECLARE
	parent json;
BEGIN
	SELECT row_to_json(o) INTO parent
	FROM orders o
	WHERE o.id = CASE WHEN TG_OP = 'DELETE' THEN OLD.order_id ELSE NEW.order_id END;

	IF parent IS NOT NULL THEN
		PERFORM pg_notify('` + OrdersChannel + `', json_build_object(
			'type', 'UPDATE',
			'new', parent,
			'old', parent
		)::text);
	END IF;
	RETURN NULL;
END;
$$ LANGUAGE plpgsql`,

	`DROP TRIGGER IF EXISTS orders_notify ON orders`,
	`CREATE TRIGGER orders_notify
	AFTER INSERT OR UPDATE OR DELETE ON orders
	FOR EACH ROW EXECUTE FUNCTION notify_orders_changes()`,

	`DROP TRIGGER IF EXISTS order_items_notify ON order_items`,
	`CREATE TRIGGER order_items_notify
	AFTER INSERT OR UPDATE OR DELETE ON order_items
	FOR EACH ROW EXECUTE FUNCTION notify_order_items_changes()`,
}

// Migrate creates the orders schema and installs the change notification triggers.
// It is idempotent.
func Migrate(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)

	if err := db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, stmt := range notifyFunctions {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("install change triggers: %w", err)
			}
		}
		return nil
	})
}
