package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition_OwnerCancel(t *testing.T) {
	for _, current := range AllStatuses {
		t.Run(string(current), func(t *testing.T) {
			got, err := Transition(current, StatusCancelled, ActorOwner)
			if current == StatusPending {
				require.NoError(t, err)
				assert.Equal(t, StatusCancelled, got)
				return
			}
			require.Error(t, err)
			assert.Equal(t, ETRANSITION, ErrorCode(err))
			assert.Equal(t, "cannot cancel order with status "+string(current), ErrorMessage(err))
		})
	}
}

func TestTransition_Gateway(t *testing.T) {
	tests := []struct {
		name      string
		current   OrderStatus
		requested OrderStatus
		want      OrderStatus
		wantErr   error
		wantCode  string
	}{
		{"confirm pending", StatusPending, StatusConfirmed, StatusConfirmed, nil, ""},
		{"failed order is not resurrected", StatusPaymentFailed, StatusConfirmed, "", nil, ETRANSITION},
		{"confirm redelivered", StatusConfirmed, StatusConfirmed, StatusConfirmed, ErrAlreadyApplied, ECONFLICT},
		{"confirm after shipping", StatusShipped, StatusConfirmed, StatusShipped, ErrAlreadyApplied, ECONFLICT},
		{"confirm cancelled", StatusCancelled, StatusConfirmed, "", nil, ETRANSITION},
		{"fail pending", StatusPending, StatusPaymentFailed, StatusPaymentFailed, nil, ""},
		{"fail redelivered", StatusPaymentFailed, StatusPaymentFailed, StatusPaymentFailed, ErrAlreadyApplied, ECONFLICT},
		{"fail confirmed", StatusConfirmed, StatusPaymentFailed, "", nil, ETRANSITION},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.current, tt.requested, ActorGateway)
			assert.Equal(t, tt.want, got)
			switch {
			case tt.wantErr != nil:
				assert.True(t, errors.Is(err, tt.wantErr))
			case tt.wantCode != "":
				assert.Equal(t, tt.wantCode, ErrorCode(err))
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestTransition_UnknownStatus(t *testing.T) {
	_, err := Transition(StatusPending, OrderStatus("refunded"), ActorOwner)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestForceTransition(t *testing.T) {
	got, err := ForceTransition(StatusDelivered, StatusPending)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got, "admin path allows backwards moves")

	_, err = ForceTransition(StatusPending, OrderStatus("lost"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestAlreadyReached(t *testing.T) {
	assert.True(t, AlreadyReached(StatusDelivered, StatusConfirmed))
	assert.True(t, AlreadyReached(StatusConfirmed, StatusConfirmed))
	assert.False(t, AlreadyReached(StatusPending, StatusConfirmed))
	assert.False(t, AlreadyReached(StatusCancelled, StatusConfirmed))
}

func TestReportFilters_Validate(t *testing.T) {
	start := mustDate(t, "2024-02-01")
	end := mustDate(t, "2024-01-31")

	err := ReportFilters{StartDate: &start, EndDate: &end}.Validate()
	assert.Equal(t, EINVALID, ErrorCode(err))

	assert.NoError(t, ReportFilters{StartDate: &end, EndDate: &start}.Validate())
	assert.NoError(t, ReportFilters{StartDate: &start}.Validate())
	assert.Equal(t, RevenueStatuses, ReportFilters{}.EffectiveStatuses())
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []OrderStatus{StatusDelivered, StatusCancelled, StatusPaymentFailed} {
		assert.True(t, IsTerminal(s), s)
	}
	for _, s := range []OrderStatus{StatusPending, StatusConfirmed, StatusProcessing, StatusShipped} {
		assert.False(t, IsTerminal(s), s)
	}
}
