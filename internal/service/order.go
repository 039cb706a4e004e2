package service

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/dukerupert/stitchwork/internal/domain"
)

// Pagination bounds for order listings.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100

	// MaxPage keeps (page-1)*limit within an int32 offset.
	MaxPage = math.MaxInt32 / MaxPageLimit
)

// orderService implements domain.OrderService.
type orderService struct {
	store    domain.OrderStore
	catalog  domain.Catalog
	notifier *Notifier
	logger   *slog.Logger
}

// NewOrderService creates the owner and admin lifecycle API.
func NewOrderService(store domain.OrderStore, catalog domain.Catalog, notifier *Notifier, logger *slog.Logger) domain.OrderService {
	return &orderService{store: store, catalog: catalog, notifier: notifier, logger: logger}
}

// Cancel moves the caller's own pending order to cancelled.
// Orders owned by someone else are reported as not found.
func (s *orderService) Cancel(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	order, err := s.store.GetForUser(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}

	current := order.Status
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		if _, err := domain.Transition(current, domain.StatusCancelled, domain.ActorOwner); err != nil {
			return nil, err
		}

		updated, err := s.store.TransitionStatus(ctx, order.ID, domain.AllowedFrom(domain.ActorOwner, domain.StatusCancelled), domain.StatusCancelled)
		var stale *domain.StaleStatusError
		if errors.As(err, &stale) {
			// Lost a race, typically to a webhook confirmation. Re-evaluate so the
			// rejection names the status that won.
			current = stale.Current
			continue
		}
		if err != nil {
			return nil, err
		}

		s.notifier.Transitioned(ctx, updated, current, domain.ActorOwner)
		return updated, nil
	}

	return nil, domain.Internal(nil, "order.cancel", "order status kept changing during cancellation")
}

// ForceStatus is the admin override. Any known status is accepted from any current
// status, including backwards moves out of the shipping pipeline.
func (s *orderService) ForceStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	order, err := s.store.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	next, err := domain.ForceTransition(order.Status, status)
	if err != nil {
		return nil, err
	}
	if next != order.Status && domain.AlreadyReached(order.Status, next) {
		s.logger.Warn("Admin moved order backwards", "order_id", order.ID, "from", order.Status, "to", next)
	}

	updated, err := s.store.ForceStatus(ctx, order.ID, next)
	if err != nil {
		return nil, err
	}

	s.notifier.Transitioned(ctx, updated, order.Status, domain.ActorAdmin)
	return updated, nil
}

// GetForUser returns one of the caller's orders with designs resolved for display.
func (s *orderService) GetForUser(ctx context.Context, orderID, userID string) (*domain.OrderView, error) {
	order, err := s.store.GetForUser(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	views := s.views(ctx, []domain.Order{*order})
	return &views[0], nil
}

// Get returns any order with designs resolved for display.
func (s *orderService) Get(ctx context.Context, orderID string) (*domain.OrderView, error) {
	order, err := s.store.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	views := s.views(ctx, []domain.Order{*order})
	return &views[0], nil
}

// ListForUser returns one page of the caller's orders, newest first.
func (s *orderService) ListForUser(ctx context.Context, userID string, page, limit int) (*domain.OrderPage, error) {
	page, limit = normalizePage(page, limit)
	orders, total, err := s.store.ListForUser(ctx, userID, domain.ListParams{
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, err
	}
	return &domain.OrderPage{Orders: s.views(ctx, orders), Total: total, Page: page, Limit: limit}, nil
}

// List returns one page of all orders, newest first. An empty status lists every status.
func (s *orderService) List(ctx context.Context, status domain.OrderStatus, page, limit int) (*domain.OrderPage, error) {
	if status != "" && !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	page, limit = normalizePage(page, limit)
	orders, total, err := s.store.List(ctx, domain.ListParams{
		Limit:  limit,
		Offset: (page - 1) * limit,
		Status: status,
	})
	if err != nil {
		return nil, err
	}
	return &domain.OrderPage{Orders: s.views(ctx, orders), Total: total, Page: page, Limit: limit}, nil
}

// views joins orders with their designs in one catalog batch. A catalog failure
// or a missing design degrades to placeholders; it never fails the read.
func (s *orderService) views(ctx context.Context, orders []domain.Order) []domain.OrderView {
	var ids []string
	seen := make(map[string]struct{})
	for _, o := range orders {
		for _, item := range o.Items {
			if _, ok := seen[item.DesignID]; !ok {
				seen[item.DesignID] = struct{}{}
				ids = append(ids, item.DesignID)
			}
		}
	}

	var index map[string]domain.Design
	if len(ids) > 0 {
		designs, err := s.catalog.ResolveDesigns(ctx, ids)
		if err != nil {
			s.logger.Warn("Catalog lookup failed; showing placeholder designs", "designs", len(ids), "error", err)
		}
		index = domain.DesignIndex(designs)
	}

	views := make([]domain.OrderView, len(orders))
	for i, o := range orders {
		items := make([]domain.OrderItemView, len(o.Items))
		for j, item := range o.Items {
			d, ok := index[item.DesignID]
			if !ok {
				d = domain.PlaceholderDesign(item.DesignID)
			}
			items[j] = domain.OrderItemView{OrderItem: item, Design: d}
		}
		views[i] = domain.OrderView{Order: o, Items: items}
	}
	return views
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}
