package service

import (
	"io"
	"log/slog"
	"time"

	"github.com/dukerupert/stitchwork/internal/cache"
	"github.com/dukerupert/stitchwork/internal/domain"
	"github.com/dukerupert/stitchwork/internal/events"
	"github.com/dukerupert/stitchwork/internal/telemetry"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestNotifier returns a notifier backed by an in-memory publisher.
func newTestNotifier() (*Notifier, *events.RecordingPublisher) {
	pub := &events.RecordingPublisher{}
	return NewNotifier(pub, cache.NopReportCache{}, telemetry.NewNopBusinessMetrics(), discardLogger()), pub
}

func testShipping() domain.ShippingDetails {
	return domain.ShippingDetails{
		Name:       "Sam Rivera",
		Email:      "sam@example.com",
		Line1:      "1 Main St",
		City:       "Helena",
		PostalCode: "59601",
		Country:    "US",
	}
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func orderWithStatus(id string, status domain.OrderStatus) *domain.Order {
	return &domain.Order{
		ID:     id,
		UserID: "user-1",
		Status: status,
		Items: []domain.OrderItem{
			{DesignID: "D1", Quantity: 2, Size: domain.SizeM, PriceCents: 2000},
		},
		TotalAmountCents: 4000,
		UpdatedAt:        day("2024-01-02"),
	}
}
