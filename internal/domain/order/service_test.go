package order

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitstock/internal/core/apperror"
	"kitstock/internal/core/entity"
	"kitstock/internal/core/id"
)

type passthroughTxManager struct{}

func (passthroughTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockOrderRepo struct {
	orders  map[id.ID]*entity.Order
	nextSeq int64
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[id.ID]*entity.Order)}
}

func (m *mockOrderRepo) Create(ctx context.Context, o *entity.Order) error {
	m.orders[o.ID] = o
	return nil
}

func (m *mockOrderRepo) GetByID(ctx context.Context, orderID id.ID) (*entity.Order, error) {
	o, ok := m.orders[orderID]
	if !ok {
		return nil, apperror.NewNotFound("order", orderID.String())
	}
	return o, nil
}

func (m *mockOrderRepo) Update(ctx context.Context, o *entity.Order) error {
	m.orders[o.ID] = o
	return nil
}

func (m *mockOrderRepo) List(ctx context.Context, filter ListFilter) ([]*entity.Order, error) {
	out := make([]*entity.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, nil
}

func (m *mockOrderRepo) NextNumber(ctx context.Context, year int) (int64, error) {
	m.nextSeq++
	return m.nextSeq, nil
}

func pendingOrder() *entity.Order {
	o := entity.NewOrder(id.New())
	o.Lines = entity.OrderLineList{
		{VariantType: "Short Sleeve", Color: "White", Size: "S", Quantity: 6},
	}
	return o
}

func TestCreate_AssignsNumber(t *testing.T) {
	repo := newMockOrderRepo()
	svc := NewService(repo, passthroughTxManager{})
	ctx := context.Background()

	first := pendingOrder()
	require.NoError(t, svc.Create(ctx, first))

	year := time.Now().UTC().Year()
	assert.Equal(t, fmt.Sprintf("ORD-%d-00001", year), first.Number)

	second := pendingOrder()
	require.NoError(t, svc.Create(ctx, second))
	assert.Equal(t, fmt.Sprintf("ORD-%d-00002", year), second.Number)
}

func TestCreate_KeepsProvidedNumber(t *testing.T) {
	repo := newMockOrderRepo()
	svc := NewService(repo, passthroughTxManager{})

	o := pendingOrder()
	o.Number = "ORD-2025-00931"
	require.NoError(t, svc.Create(context.Background(), o))

	assert.Equal(t, "ORD-2025-00931", o.Number)
	assert.Equal(t, int64(0), repo.nextSeq)
}

func TestCreate_RejectsInvalidOrder(t *testing.T) {
	repo := newMockOrderRepo()
	svc := NewService(repo, passthroughTxManager{})

	o := entity.NewOrder(id.New())
	err := svc.Create(context.Background(), o)
	require.Error(t, err)
	assert.Empty(t, repo.orders)
}

func TestFulfillAndCancel(t *testing.T) {
	repo := newMockOrderRepo()
	svc := NewService(repo, passthroughTxManager{})
	ctx := context.Background()

	o := pendingOrder()
	require.NoError(t, svc.Create(ctx, o))

	require.NoError(t, svc.Fulfill(ctx, o.ID))
	assert.Equal(t, entity.OrderStatusFulfilled, repo.orders[o.ID].Status)

	// Closed orders stay closed.
	err := svc.Cancel(ctx, o.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
}

func TestTransition_NotFound(t *testing.T) {
	svc := NewService(newMockOrderRepo(), passthroughTxManager{})

	err := svc.Fulfill(context.Background(), id.New())
	assert.True(t, apperror.IsNotFound(err))
}
