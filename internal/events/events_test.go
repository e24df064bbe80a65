package events

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restaurantchain/order-backend/internal/domain"
)

func TestStatusEventType(t *testing.T) {
	testCases := map[string]struct {
		status   domain.Status
		expected string
	}{
		"in progress": {domain.StatusInProgress, "order.in_progress"},
		"served":      {domain.StatusServed, "order.served"},
		"cancelled":   {domain.StatusCancelled, "order.cancelled"},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, StatusEventType(tc.status))
		})
	}
}

func TestNewOrderEvent(t *testing.T) {
	before := time.Now().UTC()
	event := NewOrderEvent(TypeOrderCreated, 1000, domain.StatusCreated)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, TypeOrderCreated, event.Type)
	assert.Equal(t, int64(1000), event.OrderID)
	assert.Equal(t, domain.StatusCreated, event.Status)
	assert.WithinDuration(t, before, event.OccurredAt, time.Second)
}

func TestLogPublisher_Publish(t *testing.T) {
	buf := &bytes.Buffer{}
	publisher := NewLogPublisher(slog.New(slog.NewTextHandler(buf, nil)))

	err := publisher.Publish(context.Background(), NewOrderEvent("order.served", 7, domain.StatusServed))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `msg="Order event"`)
	assert.Contains(t, out, "type=order.served")
	assert.Contains(t, out, "order_id=7")
	assert.NoError(t, publisher.Close())
}
