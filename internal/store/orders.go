package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"legalcrm/internal/errs"
	"legalcrm/internal/ledger"
	"legalcrm/internal/models"
	"legalcrm/internal/util"
)

// friendlyIDRetries bounds how often a colliding friendly id is
// regenerated before the creation is aborted.
const friendlyIDRetries = 5

const insertOrderQuery = `
	INSERT INTO orders (friendly_id, client_id, created_by, status, global_status,
		payment_status, currency, total_amount, total_cost, total_margin, total_paid, notes)
	VALUES ($1, $2, $3, $4, $5, $6, $7, 0, 0, 0, 0, $8)
	RETURNING id, created_at, updated_at`

const insertItemQuery = `
	INSERT INTO service_items (order_id, service_type, document_type, legalization_type,
		titular_name, status, delivery_destination, assigned_tramitador, responsible,
		logistics_status, current_location, cost, price, margin, priority, deadline,
		phase_dates, notes)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	RETURNING id, created_at, updated_at`

// CreateOrderWithItems atomically creates an order and its initial
// items, then writes the recomputed totals, all in one transaction. A
// friendly-id collision aborts the transaction, so the id is
// regenerated via regenID and the whole creation retried; exhausting
// the retries is an invariant violation.
func (s *Store) CreateOrderWithItems(ctx context.Context, order *models.Order, items []*models.ServiceItem, regenID func() string) error {
	var err error
	for attempt := 0; attempt <= friendlyIDRetries; attempt++ {
		if attempt > 0 {
			order.FriendlyID = regenID()
		}
		err = s.withTx(ctx, func(tx *sqlx.Tx) error {
			if err := tx.GetContext(ctx, order, insertOrderQuery,
				order.FriendlyID, order.ClientID, order.CreatedBy, order.Status,
				order.GlobalStatus, order.PaymentStatus, order.Currency, order.Notes); err != nil {
				return err
			}

			for _, item := range items {
				item.OrderID = order.ID
				if err := insertItemTx(ctx, tx, item); err != nil {
					return err
				}
			}

			return recomputeTotalsTx(ctx, tx, order)
		})
		if !isUniqueViolation(err) {
			break
		}
	}
	if isUniqueViolation(err) {
		return errs.NewInvariantViolation(
			fmt.Sprintf("friendly id collision persists after %d retries", friendlyIDRetries), err)
	}
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewNotFoundError("order", id)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders retrieves all orders, optionally filtered by client email
func (s *Store) ListOrders(ctx context.Context, clientEmail string) ([]models.Order, error) {
	var orders []models.Order
	if clientEmail != "" {
		err := s.db.SelectContext(ctx, &orders, `
			SELECT o.* FROM orders o
			JOIN clients c ON c.id = o.client_id
			WHERE c.email = $1
			ORDER BY o.created_at DESC`, clientEmail)
		return orders, err
	}
	err := s.db.SelectContext(ctx, &orders, "SELECT * FROM orders ORDER BY created_at DESC")
	return orders, err
}

// OrderFilter narrows the Kanban board projection.
type OrderFilter struct {
	AssignedTo *int64
	WithDebt   bool
	Urgent     bool
	Location   models.Location
}

// ListOrdersByGlobalStatus retrieves orders in one Kanban column,
// newest first, applying the optional filters.
func (s *Store) ListOrdersByGlobalStatus(ctx context.Context, status models.GlobalStatus, filter OrderFilter) ([]models.Order, error) {
	conditions := []string{"o.global_status = $1"}
	args := []any{status}

	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		conditions = append(conditions, fmt.Sprintf("o.assigned_to = $%d", len(args)))
	}
	if filter.WithDebt {
		conditions = append(conditions, "o.total_paid < o.total_amount")
	}
	if filter.Urgent {
		conditions = append(conditions,
			"EXISTS (SELECT 1 FROM service_items i WHERE i.order_id = o.id AND i.priority = 'EXPRESS')")
	}
	if filter.Location != "" {
		args = append(args, filter.Location)
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM service_items i WHERE i.order_id = o.id AND i.current_location = $%d)", len(args)))
	}

	query := fmt.Sprintf(
		"SELECT o.* FROM orders o WHERE %s ORDER BY o.created_at DESC",
		strings.Join(conditions, " AND "))

	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders, query, args...)
	return orders, err
}

// UpdateOrderFields persists order-level field changes (global status,
// assignee, notes) without touching the derived totals.
func (s *Store) UpdateOrderFields(ctx context.Context, order *models.Order) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders
		SET global_status = $1, assigned_to = $2, notes = $3, updated_at = NOW()
		WHERE id = $4`,
		order.GlobalStatus, order.AssignedTo, order.Notes, order.ID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errs.NewNotFoundError("order", order.ID)
	}
	return nil
}

// AddServiceItem inserts an item under an existing order and recomputes
// the order totals in the same transaction. The order row is locked
// first, which both serializes concurrent writers and confirms the
// order exists.
func (s *Store) AddServiceItem(ctx context.Context, item *models.ServiceItem) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		order, err := lockOrderTx(ctx, tx, item.OrderID)
		if err != nil {
			return err
		}
		if err := insertItemTx(ctx, tx, item); err != nil {
			return err
		}
		return recomputeTotalsTx(ctx, tx, order)
	})
}

// GetServiceItem retrieves a service item by ID
func (s *Store) GetServiceItem(ctx context.Context, id int64) (*models.ServiceItem, error) {
	var item models.ServiceItem
	err := s.db.GetContext(ctx, &item, "SELECT * FROM service_items WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewNotFoundError("service item", id)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateServiceItem saves an item and recomputes its order's totals in
// the same transaction.
func (s *Store) UpdateServiceItem(ctx context.Context, item *models.ServiceItem) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		order, err := lockOrderTx(ctx, tx, item.OrderID)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE service_items
			SET status = $1, current_location = $2, assigned_tramitador = $3,
				phase_dates = $4, responsible = $5, logistics_status = $6,
				cost = $7, price = $8, margin = $9, notes = $10, updated_at = NOW()
			WHERE id = $11`,
			item.Status, item.CurrentLocation, item.AssignedTramitador,
			item.PhaseDates, item.Responsible, item.LogisticsStatus,
			item.Cost, item.Price, item.Margin, item.Notes, item.ID)
		if err != nil {
			return fmt.Errorf("failed to update service item: %w", err)
		}

		return recomputeTotalsTx(ctx, tx, order)
	})
}

// ListItemsByOrder retrieves all items for an order
func (s *Store) ListItemsByOrder(ctx context.Context, orderID int64) ([]models.ServiceItem, error) {
	var items []models.ServiceItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM service_items WHERE order_id = $1 ORDER BY id", orderID)
	return items, err
}

// ListOpenItems retrieves all items outside the terminal statuses,
// ordered by id for a stable queue input.
func (s *Store) ListOpenItems(ctx context.Context) ([]models.ServiceItem, error) {
	var items []models.ServiceItem
	err := s.db.SelectContext(ctx, &items, `
		SELECT * FROM service_items
		WHERE status NOT IN ('READY', 'DELIVERED')
		ORDER BY id`)
	return items, err
}

// CreatePayment inserts a payment and recomputes the owning order's
// total_paid and payment_status in the same transaction.
func (s *Store) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		order, err := lockOrderTx(ctx, tx, payment.OrderID)
		if err != nil {
			return err
		}

		err = tx.GetContext(ctx, payment, `
			INSERT INTO payments (order_id, amount, currency, method, destination_account, receipt_sent, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, payment_date`,
			payment.OrderID, payment.Amount, payment.Currency, payment.Method,
			payment.DestinationAccount, payment.ReceiptSent, payment.Notes)
		if err != nil {
			return fmt.Errorf("failed to insert payment: %w", err)
		}

		var payments []models.Payment
		if err := tx.SelectContext(ctx, &payments,
			"SELECT * FROM payments WHERE order_id = $1", order.ID); err != nil {
			return fmt.Errorf("failed to load payments: %w", err)
		}

		totalPaid := ledger.SumPayments(payments)
		status := ledger.DerivePaymentStatus(totalPaid, order.TotalAmount)

		_, err = tx.ExecContext(ctx, `
			UPDATE orders SET total_paid = $1, payment_status = $2, updated_at = NOW()
			WHERE id = $3`,
			totalPaid, status, order.ID)
		if err != nil {
			return fmt.Errorf("failed to update payment totals: %w", err)
		}
		return nil
	})
}

// ListPaymentsByOrder retrieves all payments for an order
func (s *Store) ListPaymentsByOrder(ctx context.Context, orderID int64) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.SelectContext(ctx, &payments,
		"SELECT * FROM payments WHERE order_id = $1 ORDER BY payment_date", orderID)
	return payments, err
}

// MarkReceiptSent flags a payment's receipt as delivered to the client
func (s *Store) MarkReceiptSent(ctx context.Context, paymentID int64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE payments SET receipt_sent = TRUE WHERE id = $1", paymentID)
	return err
}

// lockOrderTx loads the order row under FOR UPDATE, serializing all
// mutations of one order aggregate for the duration of the transaction.
func lockOrderTx(ctx context.Context, tx *sqlx.Tx, orderID int64) (*models.Order, error) {
	var order models.Order
	err := tx.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1 FOR UPDATE", orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewNotFoundError("order", orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}
	return &order, nil
}

func insertItemTx(ctx context.Context, tx *sqlx.Tx, item *models.ServiceItem) error {
	err := tx.GetContext(ctx, item, insertItemQuery,
		item.OrderID, item.ServiceType, item.DocumentType, item.LegalizationType,
		item.TitularName, item.Status, item.DeliveryDestination, item.AssignedTramitador,
		item.Responsible, item.LogisticsStatus, item.CurrentLocation, item.Cost,
		item.Price, item.Margin, item.Priority, item.Deadline, item.PhaseDates, item.Notes)
	if err != nil {
		return fmt.Errorf("failed to insert service item: %w", err)
	}
	return nil
}

// recomputeTotalsTx recomputes the item-derived totals from scratch and
// writes them back, updating the passed order in place. Runs inside the
// caller's transaction; it never triggers further saves, so the save
// path cannot recurse.
func recomputeTotalsTx(ctx context.Context, tx *sqlx.Tx, order *models.Order) error {
	defer func(start time.Time) {
		util.LedgerRecomputeLatency.Observe(time.Since(start).Seconds())
	}(time.Now())

	var items []models.ServiceItem
	if err := tx.SelectContext(ctx, &items,
		"SELECT * FROM service_items WHERE order_id = $1", order.ID); err != nil {
		return fmt.Errorf("failed to load items: %w", err)
	}

	totals := ledger.ComputeTotals(items)
	order.TotalAmount = totals.Amount
	order.TotalCost = totals.Cost
	order.TotalMargin = totals.Margin

	_, err := tx.ExecContext(ctx, `
		UPDATE orders SET total_amount = $1, total_cost = $2, total_margin = $3, updated_at = NOW()
		WHERE id = $4`,
		totals.Amount, totals.Cost, totals.Margin, order.ID)
	if err != nil {
		return fmt.Errorf("failed to update order totals: %w", err)
	}
	return nil
}
