package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/eazyque/eazyque-api/internal/domain/enum"
	"github.com/eazyque/eazyque-api/pkg/money"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannel(t *testing.T) {
	id := uuid.MustParse("8a4f0f6e-6f69-4a53-9a3e-5f0e2c1d7b11")
	assert.Equal(t, "eazyque:shop:8a4f0f6e-6f69-4a53-9a3e-5f0e2c1d7b11:orders", Channel(id))
}

func TestEventJSON(t *testing.T) {
	orderID := uuid.New()
	e := Event{
		Type:        OrderCreated,
		ShopID:      uuid.New(),
		OrderID:     &orderID,
		OrderNumber: "ORD-20240309-140507-ABC123",
		Status:      enum.OrderStatusPending,
		TotalAmount: money.FromRupees(236),
		OccurredAt:  time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC),
	}
	raw, err := json.Marshal(e)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "order.created", decoded["type"])
	assert.Equal(t, "PENDING", decoded["status"])
	assert.EqualValues(t, 236, decoded["total_amount"])
	assert.NotContains(t, decoded, "product_id")
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), Event{Type: OrderCreated}))
	assert.NoError(t, p.Close())
}
