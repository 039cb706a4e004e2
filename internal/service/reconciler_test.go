package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dukerupert/stitchwork/internal/domain"
	"github.com/dukerupert/stitchwork/internal/events"
	"github.com/dukerupert/stitchwork/internal/mocks"
	"github.com/dukerupert/stitchwork/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testOrderID = "22222222-2222-2222-2222-222222222222"

func newReconcilerFixture(t *testing.T) (*mocks.MockOrderStore, *events.RecordingPublisher, domain.WebhookReconciler) {
	t.Helper()
	store := mocks.NewMockOrderStore(gomock.NewController(t))
	notifier, pub := newTestNotifier()
	return store, pub, NewWebhookReconciler(store, notifier, telemetry.NewNopBusinessMetrics(), discardLogger())
}

func completedEvent(amount *int64) domain.GatewayEvent {
	return domain.GatewayEvent{
		ID:               "evt_completed_1",
		Type:             domain.EventCheckoutSessionCompleted,
		OrderID:          testOrderID,
		SessionID:        "cs_test_1",
		PaymentIntentID:  "pi_1",
		AmountTotalCents: amount,
	}
}

func expectRecord(store *mocks.MockOrderStore, decision domain.WebhookDecision) *gomock.Call {
	return store.EXPECT().
		RecordWebhookEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec domain.WebhookRecord) error {
			if rec.Decision != decision {
				return errors.New("unexpected decision " + string(rec.Decision))
			}
			return nil
		})
}

func TestReconcile_CheckoutCompletedConfirmsWithCapturedAmount(t *testing.T) {
	store, pub, r := newReconcilerFixture(t)
	ctx := context.Background()

	captured := int64(4399)
	store.EXPECT().Get(gomock.Any(), testOrderID).Return(orderWithStatus(testOrderID, domain.StatusPending), nil)
	store.EXPECT().
		Confirm(gomock.Any(), testOrderID, []domain.OrderStatus{domain.StatusPending}, domain.ConfirmParams{
			PaymentID:     "pi_1",
			CapturedCents: &captured,
		}).
		DoAndReturn(func(_ context.Context, id string, _ []domain.OrderStatus, p domain.ConfirmParams) (*domain.Order, error) {
			o := orderWithStatus(id, domain.StatusConfirmed)
			o.PaymentID = p.PaymentID
			o.TotalAmountCents = *p.CapturedCents
			o.AmountCaptured = true
			return o, nil
		})
	expectRecord(store, domain.DecisionConfirmed)

	outcome, err := r.Reconcile(ctx, completedEvent(&captured))
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionConfirmed, outcome.Decision)
	assert.Equal(t, testOrderID, outcome.OrderID)

	published := pub.Events()
	require.Len(t, published, 1)
	assert.Equal(t, events.SubjectOrderConfirmed, published[0].Subject)
	assert.Equal(t, int64(4399), published[0].Event.TotalAmountCents)
	assert.Equal(t, "pi_1", published[0].Event.PaymentID)
}

func TestReconcile_RedeliveryIsNoOp(t *testing.T) {
	for _, status := range []domain.OrderStatus{
		domain.StatusConfirmed, domain.StatusProcessing, domain.StatusShipped, domain.StatusDelivered,
	} {
		t.Run(string(status), func(t *testing.T) {
			store, pub, r := newReconcilerFixture(t)

			store.EXPECT().Get(gomock.Any(), testOrderID).Return(orderWithStatus(testOrderID, status), nil)
			// No Confirm expectation: a second write would fail the test.
			expectRecord(store, domain.DecisionAlreadyApplied)

			outcome, err := r.Reconcile(context.Background(), completedEvent(nil))
			require.NoError(t, err)
			assert.Equal(t, domain.DecisionAlreadyApplied, outcome.Decision)
			assert.Empty(t, pub.Events())
		})
	}
}

func TestReconcile_ConcurrentDeliveryLosesCASAndBecomesNoOp(t *testing.T) {
	store, pub, r := newReconcilerFixture(t)

	store.EXPECT().Get(gomock.Any(), testOrderID).Return(orderWithStatus(testOrderID, domain.StatusPending), nil)
	store.EXPECT().
		Confirm(gomock.Any(), testOrderID, gomock.Any(), gomock.Any()).
		Return(nil, &domain.StaleStatusError{OrderID: testOrderID, Current: domain.StatusConfirmed}).
		Times(1)
	expectRecord(store, domain.DecisionAlreadyApplied)

	outcome, err := r.Reconcile(context.Background(), completedEvent(nil))
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionAlreadyApplied, outcome.Decision)
	assert.Empty(t, pub.Events())
}

func TestReconcile_PaymentFailedOrderIsNotResurrected(t *testing.T) {
	store, pub, r := newReconcilerFixture(t)

	store.EXPECT().Get(gomock.Any(), testOrderID).Return(orderWithStatus(testOrderID, domain.StatusPaymentFailed), nil)
	// No Confirm expectation: payment_failed is terminal for the reconciler.
	expectRecord(store, domain.DecisionRejected)

	outcome, err := r.Reconcile(context.Background(), completedEvent(nil))
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionRejected, outcome.Decision)
	assert.Empty(t, pub.Events())
}

func TestReconcile_CancelledOrderIsConflictButAcknowledged(t *testing.T) {
	store, pub, r := newReconcilerFixture(t)

	store.EXPECT().Get(gomock.Any(), testOrderID).Return(orderWithStatus(testOrderID, domain.StatusCancelled), nil)
	expectRecord(store, domain.DecisionRejected)

	outcome, err := r.Reconcile(context.Background(), completedEvent(nil))
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionRejected, outcome.Decision)
	assert.Empty(t, pub.Events())
}

func TestReconcile_MissingOrderMetadataIsRejected(t *testing.T) {
	store, _, r := newReconcilerFixture(t)
	expectRecord(store, domain.DecisionRejected)

	ev := completedEvent(nil)
	ev.OrderID = ""
	outcome, err := r.Reconcile(context.Background(), ev)
	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	assert.Equal(t, domain.DecisionRejected, outcome.Decision)
}

func TestReconcile_UnknownOrderFromMetadata(t *testing.T) {
	store, _, r := newReconcilerFixture(t)
	store.EXPECT().Get(gomock.Any(), testOrderID).Return(nil, domain.ErrOrderNotFound)
	expectRecord(store, domain.DecisionNoMatchingOrder)

	outcome, err := r.Reconcile(context.Background(), completedEvent(nil))
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionNoMatchingOrder, outcome.Decision)
}

func TestReconcile_StoreFailureIsReturnedUnrecorded(t *testing.T) {
	store, _, r := newReconcilerFixture(t)
	store.EXPECT().Get(gomock.Any(), testOrderID).Return(nil, domain.Internal(errors.New("conn refused"), "order.get", "failed"))
	// No RecordWebhookEvent: the redelivery must be evaluated again.

	_, err := r.Reconcile(context.Background(), completedEvent(nil))
	require.Error(t, err)
	assert.Equal(t, domain.EINTERNAL, domain.ErrorCode(err))
}

func TestReconcile_DuplicatePaymentIDIsRejected(t *testing.T) {
	store, _, r := newReconcilerFixture(t)
	store.EXPECT().Get(gomock.Any(), testOrderID).Return(orderWithStatus(testOrderID, domain.StatusPending), nil)
	store.EXPECT().
		Confirm(gomock.Any(), testOrderID, gomock.Any(), gomock.Any()).
		Return(nil, domain.Conflict("order.confirm", "payment id already recorded on another order"))
	expectRecord(store, domain.DecisionRejected)

	outcome, err := r.Reconcile(context.Background(), completedEvent(nil))
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionRejected, outcome.Decision)
}

func TestReconcile_PaymentIDFallsBackToSession(t *testing.T) {
	store, _, r := newReconcilerFixture(t)
	store.EXPECT().Get(gomock.Any(), testOrderID).Return(orderWithStatus(testOrderID, domain.StatusPending), nil)
	store.EXPECT().
		Confirm(gomock.Any(), testOrderID, gomock.Any(), domain.ConfirmParams{PaymentID: "cs_test_1"}).
		Return(orderWithStatus(testOrderID, domain.StatusConfirmed), nil)
	expectRecord(store, domain.DecisionConfirmed)

	ev := completedEvent(nil)
	ev.PaymentIntentID = ""
	_, err := r.Reconcile(context.Background(), ev)
	require.NoError(t, err)
}

func TestReconcile_PaymentFailed(t *testing.T) {
	failedEvent := domain.GatewayEvent{ID: "evt_failed_1", Type: domain.EventPaymentIntentFailed, PaymentIntentID: "pi_1"}

	t.Run("pending order moves to payment_failed", func(t *testing.T) {
		store, pub, r := newReconcilerFixture(t)
		store.EXPECT().GetByPaymentID(gomock.Any(), "pi_1").Return(orderWithStatus(testOrderID, domain.StatusPending), nil)
		store.EXPECT().
			TransitionStatus(gomock.Any(), testOrderID, []domain.OrderStatus{domain.StatusPending}, domain.StatusPaymentFailed).
			Return(orderWithStatus(testOrderID, domain.StatusPaymentFailed), nil)
		expectRecord(store, domain.DecisionPaymentFailed)

		outcome, err := r.Reconcile(context.Background(), failedEvent)
		require.NoError(t, err)
		assert.Equal(t, domain.DecisionPaymentFailed, outcome.Decision)
		require.Len(t, pub.Events(), 1)
		assert.Equal(t, events.SubjectOrderPaymentFailed, pub.Events()[0].Subject)
	})

	t.Run("no matching order is a no-op", func(t *testing.T) {
		store, pub, r := newReconcilerFixture(t)
		store.EXPECT().GetByPaymentID(gomock.Any(), "pi_1").Return(nil, domain.ErrOrderNotFound)
		expectRecord(store, domain.DecisionNoMatchingOrder)

		outcome, err := r.Reconcile(context.Background(), failedEvent)
		require.NoError(t, err)
		assert.Equal(t, domain.DecisionNoMatchingOrder, outcome.Decision)
		assert.Empty(t, pub.Events())
	})

	t.Run("confirmed order is left alone", func(t *testing.T) {
		store, _, r := newReconcilerFixture(t)
		store.EXPECT().GetByPaymentID(gomock.Any(), "pi_1").Return(orderWithStatus(testOrderID, domain.StatusConfirmed), nil)
		expectRecord(store, domain.DecisionRejected)

		outcome, err := r.Reconcile(context.Background(), failedEvent)
		require.NoError(t, err)
		assert.Equal(t, domain.DecisionRejected, outcome.Decision)
	})

	t.Run("redelivery is already applied", func(t *testing.T) {
		store, _, r := newReconcilerFixture(t)
		store.EXPECT().GetByPaymentID(gomock.Any(), "pi_1").Return(orderWithStatus(testOrderID, domain.StatusPaymentFailed), nil)
		expectRecord(store, domain.DecisionAlreadyApplied)

		outcome, err := r.Reconcile(context.Background(), failedEvent)
		require.NoError(t, err)
		assert.Equal(t, domain.DecisionAlreadyApplied, outcome.Decision)
	})
}

func TestReconcile_OtherEventsIgnored(t *testing.T) {
	store, _, r := newReconcilerFixture(t)
	expectRecord(store, domain.DecisionIgnored)

	outcome, err := r.Reconcile(context.Background(), domain.GatewayEvent{ID: "evt_x", Type: "customer.created"})
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionIgnored, outcome.Decision)
}

func TestReconcile_RecordFailureDoesNotFailEvent(t *testing.T) {
	store, _, r := newReconcilerFixture(t)
	store.EXPECT().RecordWebhookEvent(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	_, err := r.Reconcile(context.Background(), domain.GatewayEvent{ID: "evt_y", Type: "charge.refunded"})
	assert.NoError(t, err)
}
