package batch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitstock/internal/core/entity"
	"kitstock/internal/core/id"
	"kitstock/internal/core/types"
)

// passthroughTxManager runs the function directly, without a database.
type passthroughTxManager struct{}

func (passthroughTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// mockRepo keeps a single batch in memory and records call behavior.
type mockRepo struct {
	batch *entity.Batch

	updateErr     error
	updateCalls   int
	forUpdateErrs int
}

func (m *mockRepo) Create(ctx context.Context, b *entity.Batch) error {
	m.batch = b
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, batchID id.ID) (*entity.Batch, error) {
	return m.GetForUpdate(ctx, batchID)
}

func (m *mockRepo) GetForUpdate(ctx context.Context, batchID id.ID) (*entity.Batch, error) {
	if m.batch == nil || m.batch.ID != batchID {
		m.forUpdateErrs++
		return nil, errors.New("batch not found")
	}
	return m.batch, nil
}

func (m *mockRepo) Update(ctx context.Context, b *entity.Batch) error {
	m.updateCalls++
	if m.updateErr != nil {
		return m.updateErr
	}
	m.batch = b
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, batchID id.ID) error { return nil }

func (m *mockRepo) List(ctx context.Context, filter ListFilter) ([]*entity.Batch, error) {
	if m.batch == nil {
		return nil, nil
	}
	return []*entity.Batch{m.batch}, nil
}

type mockArchiver struct {
	events []entity.BatchAllocation
	err    error
}

func (m *mockArchiver) ArchiveAllocation(ctx context.Context, batchID id.ID, event entity.BatchAllocation) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

func serviceBatch() *entity.Batch {
	b := entity.NewBatch("Winter Delivery")
	b.Items = entity.ItemList{
		{
			VariantType: "Jersey",
			Color:       "Navy",
			Price:       types.MustMoney("15.00"),
			Sizes:       []entity.SizeRecord{{Size: "M", Quantity: 20}},
		},
	}
	return b
}

func serviceRequest() entity.AllocationRequest {
	return entity.AllocationRequest{
		ProductID:   id.New(),
		ProductName: "School Jersey",
		SchoolID:    id.New(),
		SchoolName:  "Hillside High",
		VariantType: "Jersey",
		Color:       "Navy",
		Size:        "M",
		Quantity:    5,
	}
}

func TestRecordAllocation_Success(t *testing.T) {
	repo := &mockRepo{batch: serviceBatch()}
	archive := &mockArchiver{}
	svc := NewService(repo, passthroughTxManager{}, archive, Config{})

	recorded := svc.RecordAllocation(context.Background(), repo.batch.ID, serviceRequest())

	assert.True(t, recorded)
	assert.Equal(t, 1, repo.updateCalls)

	size := repo.batch.Items[0].FindSize("M")
	assert.Equal(t, 5, size.Allocated)
	assert.Equal(t, size.Allocated, size.LoggedTotal())

	require.Len(t, archive.events, 1)
	assert.Equal(t, 5, archive.events[0].Quantity)
}

func TestRecordAllocation_BatchNotFound(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, passthroughTxManager{}, nil, Config{})

	recorded := svc.RecordAllocation(context.Background(), id.New(), serviceRequest())

	assert.False(t, recorded)
	assert.Equal(t, 0, repo.updateCalls)
}

func TestRecordAllocation_UnknownSizeReturnsFalse(t *testing.T) {
	repo := &mockRepo{batch: serviceBatch()}
	svc := NewService(repo, passthroughTxManager{}, nil, Config{})

	req := serviceRequest()
	req.Size = "XS"

	assert.False(t, svc.RecordAllocation(context.Background(), repo.batch.ID, req))
	assert.Equal(t, 0, repo.batch.Items[0].FindSize("M").Allocated)
}

func TestRecordAllocation_PersistFailureReturnsFalse(t *testing.T) {
	repo := &mockRepo{batch: serviceBatch(), updateErr: errors.New("connection reset")}
	svc := NewService(repo, passthroughTxManager{}, nil, Config{})

	assert.False(t, svc.RecordAllocation(context.Background(), repo.batch.ID, serviceRequest()))
}

func TestRecordAllocation_ArchiveFailureDoesNotFlipResult(t *testing.T) {
	repo := &mockRepo{batch: serviceBatch()}
	archive := &mockArchiver{err: errors.New("archive down")}
	svc := NewService(repo, passthroughTxManager{}, archive, Config{})

	assert.True(t, svc.RecordAllocation(context.Background(), repo.batch.ID, serviceRequest()))
}

func TestRecordAllocation_StrictOnceSkipsDuplicateKey(t *testing.T) {
	repo := &mockRepo{batch: serviceBatch()}
	svc := NewService(repo, passthroughTxManager{}, nil, Config{StrictOnce: true})

	req := serviceRequest()
	req.EventKey = "evt-42"

	assert.True(t, svc.RecordAllocation(context.Background(), repo.batch.ID, req))
	assert.True(t, svc.RecordAllocation(context.Background(), repo.batch.ID, req))

	size := repo.batch.Items[0].FindSize("M")
	assert.Len(t, size.AllocationLog, 1)
	assert.Equal(t, 5, size.Allocated)
}

func TestRecordAllocation_DefaultModeRecordsDuplicateKey(t *testing.T) {
	repo := &mockRepo{batch: serviceBatch()}
	svc := NewService(repo, passthroughTxManager{}, nil, Config{})

	req := serviceRequest()
	req.EventKey = "evt-42"

	assert.True(t, svc.RecordAllocation(context.Background(), repo.batch.ID, req))
	assert.True(t, svc.RecordAllocation(context.Background(), repo.batch.ID, req))

	assert.Len(t, repo.batch.Items[0].FindSize("M").AllocationLog, 2)
}

type mockStocker struct {
	productID id.ID
	added     int
	err       error
}

func (m *mockStocker) AddStock(ctx context.Context, productID id.ID, variantType, color, size string, qty int) error {
	if m.err != nil {
		return m.err
	}
	m.productID = productID
	m.added += qty
	return nil
}

func TestAllocateFromBatch(t *testing.T) {
	repo := &mockRepo{batch: serviceBatch()}
	svc := NewService(repo, passthroughTxManager{}, nil, Config{})
	stocker := &mockStocker{}

	req := serviceRequest()
	require.NoError(t, svc.AllocateFromBatch(context.Background(), repo.batch.ID, req, stocker))

	size := repo.batch.Items[0].FindSize("M")
	assert.Equal(t, 15, size.Quantity)
	assert.Equal(t, 5, size.Allocated)
	require.NotNil(t, size.OriginalQuantity)
	assert.Equal(t, 20, *size.OriginalQuantity)

	assert.Equal(t, req.ProductID, stocker.productID)
	assert.Equal(t, 5, stocker.added)
}

func TestAllocateFromBatch_InsufficientStock(t *testing.T) {
	repo := &mockRepo{batch: serviceBatch()}
	svc := NewService(repo, passthroughTxManager{}, nil, Config{})

	req := serviceRequest()
	req.Quantity = 50

	err := svc.AllocateFromBatch(context.Background(), repo.batch.ID, req, nil)
	require.Error(t, err)
	assert.Equal(t, 20, repo.batch.Items[0].FindSize("M").Quantity)
}

func TestReceiveAndConsumeStock(t *testing.T) {
	repo := &mockRepo{batch: serviceBatch()}
	svc := NewService(repo, passthroughTxManager{}, nil, Config{})
	ctx := context.Background()

	require.NoError(t, svc.ReceiveStock(ctx, repo.batch.ID, "Jersey", "Navy", types.ZeroMoney(), "M", 10))
	assert.Equal(t, 30, repo.batch.Items[0].FindSize("M").Quantity)

	require.NoError(t, svc.ConsumeStock(ctx, repo.batch.ID, "Jersey", "Navy", "M", 8))
	assert.Equal(t, 22, repo.batch.Items[0].FindSize("M").Quantity)
}
