package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dukerupert/stitchwork/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OrderStore implements domain.OrderStore using PostgreSQL.
type OrderStore struct {
	db DBTX
}

// Compile-time check that OrderStore implements domain.OrderStore.
var _ domain.OrderStore = (*OrderStore)(nil)

// NewOrderStore creates a new PostgreSQL-backed order store.
func NewOrderStore(db DBTX) *OrderStore {
	return &OrderStore{db: db}
}

const orderColumns = `o.id::text, o.user_id, o.status, o.total_amount_cents, o.amount_captured,
	COALESCE(o.payment_id, ''), COALESCE(o.checkout_session_id, ''), o.shipping_details,
	o.created_at, o.updated_at`

// =============================================================================
// WRITES
// =============================================================================

// Create inserts a pending order and its items in one transaction.
func (s *OrderStore) Create(ctx context.Context, params domain.NewOrderParams) (*domain.Order, error) {
	const op = "order.create"

	if len(params.Items) == 0 {
		return nil, domain.Invalid(op, "order must have at least one item")
	}

	order := &domain.Order{
		ID:               uuid.New().String(),
		UserID:           params.UserID,
		Items:            params.Items,
		ShippingDetails:  params.ShippingDetails,
		Status:           domain.StatusPending,
		TotalAmountCents: params.TotalAmountCents,
	}

	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO orders (id, user_id, status, total_amount_cents, shipping_details)
			VALUES ($1::uuid, $2, $3, $4, $5)
			RETURNING created_at, updated_at`,
			order.ID, order.UserID, string(order.Status), order.TotalAmountCents, order.ShippingDetails,
		).Scan(&order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for i, item := range params.Items {
			batch.Queue(`
				INSERT INTO order_items (order_id, position, design_id, quantity, size, price_cents, customizations)
				VALUES ($1::uuid, $2, $3, $4, $5, $6, $7)`,
				order.ID, i, item.DesignID, item.Quantity, string(item.Size), item.PriceCents, item.Customizations,
			)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to save order")
	}

	return order, nil
}

// AttachCheckoutSession records the gateway session id once. A non-empty
// paymentIntentID fills payment_id only while it is still NULL, so a later
// payment_intent.payment_failed event can find the pending order.
func (s *OrderStore) AttachCheckoutSession(ctx context.Context, orderID, sessionID, paymentIntentID string) error {
	const op = "order.attach_session"

	if !validID(orderID) {
		return domain.ErrOrderNotFound
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE orders SET
			checkout_session_id = $2,
			payment_id = COALESCE(payment_id, NULLIF($3, '')),
			updated_at = now()
		WHERE id = $1::uuid AND checkout_session_id IS NULL`,
		orderID, sessionID, paymentIntentID,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return domain.Conflict(op, "checkout session or payment id already attached to another order")
		}
		return domain.Internal(err, op, "failed to attach checkout session")
	}
	if tag.RowsAffected() == 0 {
		return domain.Conflict(op, "order already has a checkout session")
	}
	return nil
}

// Confirm is a compare-and-swap write keyed on the current status.
// payment_id is only written while still NULL.
func (s *OrderStore) Confirm(ctx context.Context, orderID string, from []domain.OrderStatus, params domain.ConfirmParams) (*domain.Order, error) {
	const op = "order.confirm"

	if !validID(orderID) {
		return nil, domain.ErrOrderNotFound
	}

	row := s.db.QueryRow(ctx, `
		UPDATE orders o SET
			status = 'confirmed',
			payment_id = COALESCE(o.payment_id, NULLIF($2, '')),
			total_amount_cents = COALESCE($3::bigint, o.total_amount_cents),
			amount_captured = o.amount_captured OR $3::bigint IS NOT NULL,
			updated_at = now()
		WHERE o.id = $1::uuid AND o.status = ANY($4::text[])
		RETURNING `+orderColumns,
		orderID, params.PaymentID, params.CapturedCents, statusStrings(from),
	)

	order, err := scanOrder(row)
	if err != nil {
		if isUniqueViolation(err, "") {
			return nil, domain.Conflict(op, "payment id already recorded on another order")
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.staleOrMissing(ctx, op, orderID)
		}
		return nil, domain.Internal(err, op, "failed to confirm order")
	}

	if err := s.loadItems(ctx, []*domain.Order{order}); err != nil {
		return nil, domain.Internal(err, op, "failed to load order items")
	}
	return order, nil
}

// TransitionStatus is a compare-and-swap status write.
func (s *OrderStore) TransitionStatus(ctx context.Context, orderID string, from []domain.OrderStatus, to domain.OrderStatus) (*domain.Order, error) {
	const op = "order.transition"

	if !validID(orderID) {
		return nil, domain.ErrOrderNotFound
	}

	row := s.db.QueryRow(ctx, `
		UPDATE orders o SET status = $2, updated_at = now()
		WHERE o.id = $1::uuid AND o.status = ANY($3::text[])
		RETURNING `+orderColumns,
		orderID, string(to), statusStrings(from),
	)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.staleOrMissing(ctx, op, orderID)
		}
		return nil, domain.Internal(err, op, "failed to update order status")
	}

	if err := s.loadItems(ctx, []*domain.Order{order}); err != nil {
		return nil, domain.Internal(err, op, "failed to load order items")
	}
	return order, nil
}

// ForceStatus overwrites status with no guard on the current value.
func (s *OrderStore) ForceStatus(ctx context.Context, orderID string, to domain.OrderStatus) (*domain.Order, error) {
	const op = "order.force_status"

	if !validID(orderID) {
		return nil, domain.ErrOrderNotFound
	}

	row := s.db.QueryRow(ctx, `
		UPDATE orders o SET status = $2, updated_at = now()
		WHERE o.id = $1::uuid
		RETURNING `+orderColumns,
		orderID, string(to),
	)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, domain.Internal(err, op, "failed to update order status")
	}

	if err := s.loadItems(ctx, []*domain.Order{order}); err != nil {
		return nil, domain.Internal(err, op, "failed to load order items")
	}
	return order, nil
}

// staleOrMissing distinguishes a lost compare-and-swap from an absent order.
func (s *OrderStore) staleOrMissing(ctx context.Context, op, orderID string) error {
	var current string
	err := s.db.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1::uuid`, orderID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrOrderNotFound
	}
	if err != nil {
		return domain.Internal(err, op, "failed to read order status")
	}
	return &domain.StaleStatusError{OrderID: orderID, Current: domain.OrderStatus(current)}
}

// RecordWebhookEvent appends to the webhook audit log. Redelivered events keep their first decision.
func (s *OrderStore) RecordWebhookEvent(ctx context.Context, record domain.WebhookRecord) error {
	orderID := record.OrderID
	if !validID(orderID) {
		orderID = ""
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO webhook_events (event_id, event_type, order_id, decision, detail)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5)
		ON CONFLICT (event_id) DO NOTHING`,
		record.EventID, record.EventType, orderID, string(record.Decision), record.Detail,
	)
	if err != nil {
		return domain.Internal(err, "webhook.record", "failed to record webhook event")
	}
	return nil
}

// =============================================================================
// READS
// =============================================================================

// Get loads an order by id alone.
func (s *OrderStore) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	if !validID(orderID) {
		return nil, domain.ErrOrderNotFound
	}
	return s.getOne(ctx, "order.get", `WHERE o.id = $1::uuid`, orderID)
}

// GetForUser loads an order scoped to its owner. Orders owned by others are not found.
func (s *OrderStore) GetForUser(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	if !validID(orderID) {
		return nil, domain.ErrOrderNotFound
	}
	return s.getOne(ctx, "order.get_for_user", `WHERE o.id = $1::uuid AND o.user_id = $2`, orderID, userID)
}

// GetByPaymentID loads the order carrying the given payment id.
func (s *OrderStore) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Order, error) {
	if paymentID == "" {
		return nil, domain.ErrOrderNotFound
	}
	return s.getOne(ctx, "order.get_by_payment", `WHERE o.payment_id = $1`, paymentID)
}

func (s *OrderStore) getOne(ctx context.Context, op, where string, args ...any) (*domain.Order, error) {
	row := s.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders o `+where, args...)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, domain.Internal(err, op, "failed to load order")
	}
	if err := s.loadItems(ctx, []*domain.Order{order}); err != nil {
		return nil, domain.Internal(err, op, "failed to load order items")
	}
	return order, nil
}

// ListForUser returns one page of the user's orders, newest first, and the total count.
func (s *OrderStore) ListForUser(ctx context.Context, userID string, params domain.ListParams) ([]domain.Order, int, error) {
	return s.list(ctx, "order.list_for_user", `o.user_id = $1`, userID, params)
}

// List returns one page of all orders, newest first, optionally filtered by status.
func (s *OrderStore) List(ctx context.Context, params domain.ListParams) ([]domain.Order, int, error) {
	return s.list(ctx, "order.list", `($1::text = '' OR o.status = $1::text)`, string(params.Status), params)
}

func (s *OrderStore) list(ctx context.Context, op, where string, arg string, params domain.ListParams) ([]domain.Order, int, error) {
	var total int
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM orders o WHERE `+where, arg).Scan(&total); err != nil {
		return nil, 0, domain.Internal(err, op, "failed to count orders")
	}
	if total == 0 {
		return []domain.Order{}, 0, nil
	}

	rows, err := s.db.Query(ctx, `
		SELECT `+orderColumns+` FROM orders o
		WHERE `+where+`
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT $2 OFFSET $3`,
		arg, params.Limit, params.Offset,
	)
	if err != nil {
		return nil, 0, domain.Internal(err, op, "failed to list orders")
	}

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, domain.Internal(err, op, "failed to scan orders")
	}
	if err := s.loadItemsInto(ctx, orders); err != nil {
		return nil, 0, domain.Internal(err, op, "failed to load order items")
	}
	return orders, total, nil
}

// ListStalePending returns ids of orders still pending since before cutoff, oldest first.
func (s *OrderStore) ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id::text FROM orders
		WHERE status = 'pending' AND created_at < $1
		ORDER BY created_at
		LIMIT $2`,
		cutoff, limit,
	)
	if err != nil {
		return nil, domain.Internal(err, "order.list_stale", "failed to list stale orders")
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, domain.Internal(err, "order.list_stale", "failed to scan stale orders")
	}
	return ids, nil
}

// FindForReport fetches every order matching query, oldest first, with items.
func (s *OrderStore) FindForReport(ctx context.Context, query domain.OrderQuery) ([]domain.Order, error) {
	const op = "report.fetch"

	if query.DesignIDs != nil && len(query.DesignIDs) == 0 {
		return []domain.Order{}, nil
	}

	where, args := reportPredicate(query)
	rows, err := s.db.Query(ctx, `SELECT `+orderColumns+` FROM orders o`+where+` ORDER BY o.created_at, o.id`, args...)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to query orders")
	}

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to scan orders")
	}
	if err := s.loadItemsInto(ctx, orders); err != nil {
		return nil, domain.Internal(err, op, "failed to load order items")
	}
	return orders, nil
}

// reportPredicate builds the WHERE clause for a report query.
func reportPredicate(query domain.OrderQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if query.CreatedFrom != nil {
		add("o.created_at >= $%d", *query.CreatedFrom)
	}
	if query.CreatedTo != nil {
		add("o.created_at <= $%d", *query.CreatedTo)
	}
	if len(query.Statuses) > 0 {
		add("o.status = ANY($%d::text[])", statusStrings(query.Statuses))
	}
	if len(query.DesignIDs) > 0 {
		add("EXISTS (SELECT 1 FROM order_items i WHERE i.order_id = o.id AND i.design_id = ANY($%d::text[]))", query.DesignIDs)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// =============================================================================
// SCANNING
// =============================================================================

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o      domain.Order
		status string
	)
	err := row.Scan(
		&o.ID, &o.UserID, &status, &o.TotalAmountCents, &o.AmountCaptured,
		&o.PaymentID, &o.CheckoutSessionID, &o.ShippingDetails,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

func (s *OrderStore) loadItemsInto(ctx context.Context, orders []domain.Order) error {
	ptrs := make([]*domain.Order, len(orders))
	for i := range orders {
		ptrs[i] = &orders[i]
	}
	return s.loadItems(ctx, ptrs)
}

// loadItems fetches items for all orders in one query, preserving insertion order.
func (s *OrderStore) loadItems(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		o.Items = nil
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	rows, err := s.db.Query(ctx, `
		SELECT order_id::text, design_id, quantity, size, price_cents, customizations
		FROM order_items
		WHERE order_id = ANY($1::uuid[])
		ORDER BY order_id, position`,
		ids,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID string
			item    domain.OrderItem
			size    string
		)
		if err := rows.Scan(&orderID, &item.DesignID, &item.Quantity, &size, &item.PriceCents, &item.Customizations); err != nil {
			return err
		}
		item.Size = domain.Size(size)
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}

func statusStrings(statuses []domain.OrderStatus) []string {
	out := make([]string, len(statuses))
	for i, st := range statuses {
		out[i] = string(st)
	}
	return out
}
