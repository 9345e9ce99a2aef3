package entity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitstock/internal/core/apperror"
	"kitstock/internal/core/id"
)

func testOrder() *Order {
	o := NewOrder(id.New())
	o.Lines = OrderLineList{
		{VariantType: "Short Sleeve", Color: "White", Size: "M", Quantity: 12},
	}
	return o
}

func TestOrderTransitions(t *testing.T) {
	o := testOrder()
	assert.Equal(t, OrderStatusPending, o.Status)

	require.NoError(t, o.TransitionTo(OrderStatusFulfilled))
	assert.Equal(t, OrderStatusFulfilled, o.Status)

	// Terminal states are sticky.
	err := o.TransitionTo(OrderStatusCancelled)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)

	o = testOrder()
	require.NoError(t, o.TransitionTo(OrderStatusCancelled))
	assert.Error(t, o.TransitionTo(OrderStatusFulfilled))
}

func TestOrderTransition_UnknownStatus(t *testing.T) {
	o := testOrder()
	err := o.TransitionTo(OrderStatus("shipped"))
	require.Error(t, err)
	assert.Equal(t, OrderStatusPending, o.Status)
}

func TestOrderValidate(t *testing.T) {
	ctx := context.Background()

	require.NoError(t, testOrder().Validate(ctx))

	o := testOrder()
	o.SchoolID = id.Nil()
	assert.Error(t, o.Validate(ctx))

	o = testOrder()
	o.Lines = OrderLineList{}
	assert.Error(t, o.Validate(ctx))

	o = testOrder()
	o.Lines[0].Quantity = 0
	assert.Error(t, o.Validate(ctx))
}
