package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dukerupert/stitchwork/internal/cache"
	"github.com/dukerupert/stitchwork/internal/domain"
	"github.com/dukerupert/stitchwork/internal/events"
	"github.com/dukerupert/stitchwork/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_Transitioned(t *testing.T) {
	ctx := context.Background()
	reports := cache.NewMemoryReportCache(0)
	pub := &events.RecordingPublisher{}
	metrics := telemetry.NewNopBusinessMetrics()
	n := NewNotifier(pub, reports, metrics, discardLogger())

	before, err := reports.Key(ctx, "sales")
	require.NoError(t, err)

	n.Transitioned(ctx, orderWithStatus(testOrderID, domain.StatusConfirmed), domain.StatusPending, domain.ActorGateway)

	after, err := reports.Key(ctx, "sales")
	require.NoError(t, err)
	assert.NotEqual(t, before, after, "report cache should be invalidated")

	require.Len(t, pub.Events(), 1)
	assert.Equal(t, events.SubjectOrderConfirmed, pub.Events()[0].Subject)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.OrderTransitions.WithLabelValues("gateway", "confirmed")))
}

func TestNotifier_PublishFailureIsNotFatal(t *testing.T) {
	pub := &events.RecordingPublisher{Err: errors.New("nats down")}
	n := NewNotifier(pub, nil, nil, discardLogger())

	assert.NotPanics(t, func() {
		n.Transitioned(context.Background(), orderWithStatus(testOrderID, domain.StatusCancelled), domain.StatusPending, domain.ActorOwner)
	})
}
