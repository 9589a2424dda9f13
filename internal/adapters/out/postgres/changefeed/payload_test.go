package changefeed_test

import (
	"testing"
	"time"

	"orderboard/internal/adapters/out/postgres/changefeed"
	"orderboard/internal/core/domain/model/order"
	"orderboard/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orderID = "5f0d8c1e-6a4b-4b8e-9a54-3b1f2c7d9e10"

func TestDecode_Update(t *testing.T) {
	payload := `{
		"type": "UPDATE",
		"new": {"id": "` + orderID + `", "status": "placed", "created_at": "2024-03-01T09:30:00.123456+00:00",
			"finalized_at": null, "total": 54.88, "payment_method": "pix", "customer_id": "c-9",
			"customer_name": "Ana", "customer_phone": "555-0100", "customer_email": null, "note": null},
		"old": {"id": "` + orderID + `", "status": "in_separation", "created_at": "2024-03-01T09:30:00.123456+00:00",
			"finalized_at": null, "total": 54.88, "customer_name": "Ana"}
	}`

	event, err := changefeed.Decode(payload)
	require.NoError(t, err)

	assert.Equal(t, ports.ChangeUpdate, event.Type)
	assert.Equal(t, orderID, event.OrderID.String())
	require.NotNil(t, event.New)
	require.NotNil(t, event.Old)
	assert.Equal(t, order.Placed, event.New.Status)
	assert.Equal(t, order.InSeparation, event.Old.Status)

	o := event.New.Order
	require.NotNil(t, o)
	assert.Equal(t, order.Placed, o.Status())
	assert.True(t, o.Total().Equal(decimal.RequireFromString("54.88")))
	assert.Equal(t, "Ana", o.Customer().Name)
	assert.Equal(t, "c-9", o.Customer().ID)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 30, 0, 123456000, time.UTC), o.CreatedAt().UTC())
	assert.Empty(t, o.Items())
}

func TestDecode_InsertAndDelete(t *testing.T) {
	insert, err := changefeed.Decode(`{"type":"INSERT","new":{"id":"` + orderID +
		`","status":"placed","created_at":"2024-03-01T09:30:00","total":0},"old":null}`)
	require.NoError(t, err)
	assert.Equal(t, ports.ChangeInsert, insert.Type)
	assert.Nil(t, insert.Old)
	require.NotNil(t, insert.New.Order)

	del, err := changefeed.Decode(`{"type":"DELETE","new":null,"old":{"id":"` + orderID +
		`","status":"finalized","created_at":"2024-03-01 09:30:00+00","total":"12.50"}}`)
	require.NoError(t, err)
	assert.Equal(t, ports.ChangeDelete, del.Type)
	assert.Equal(t, orderID, del.OrderID.String())
	assert.Nil(t, del.New)
	assert.Equal(t, order.Finalized, del.Old.Status)
}

func TestDecode_UnmappableRowKeepsStatus(t *testing.T) {
	event, err := changefeed.Decode(`{"type":"UPDATE","new":{"id":"` + orderID +
		`","status":"in_separation","created_at":"yesterday","total":1}}`)

	require.NoError(t, err)
	require.NotNil(t, event.New)
	assert.Equal(t, order.InSeparation, event.New.Status)
	assert.Nil(t, event.New.Order)
}

func TestDecode_UnknownStatusCode(t *testing.T) {
	event, err := changefeed.Decode(`{"type":"UPDATE","new":{"id":"` + orderID +
		`","status":"cancelled","created_at":"2024-03-01T09:30:00Z","total":1}}`)

	require.NoError(t, err)
	assert.Equal(t, order.Unknown, event.New.Status)
	require.NotNil(t, event.New.Order)
	assert.Equal(t, order.Unknown, event.New.Order.Status())
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "not json", payload: "orders changed"},
		{name: "unknown type", payload: `{"type":"TRUNCATE","new":{"id":"` + orderID + `"}}`},
		{name: "no row", payload: `{"type":"UPDATE","new":null,"old":null}`},
		{name: "bad id", payload: `{"type":"UPDATE","new":{"id":"42"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := changefeed.Decode(tt.payload)
			require.Error(t, err)
		})
	}

	_, err := changefeed.Decode(`{"type":"TRUNCATE","new":{"id":"` + orderID + `"}}`)
	require.ErrorIs(t, err, changefeed.ErrUnknownChangeType)
}
