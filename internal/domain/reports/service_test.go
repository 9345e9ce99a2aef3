package reports

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"kitstock/internal/core/apperror"
	"kitstock/internal/core/entity"
	"kitstock/internal/core/id"
	"kitstock/internal/core/types"
	"kitstock/internal/domain/batch"
	"kitstock/internal/domain/product"
	"kitstock/internal/domain/student"
)

type mockBatchRepo struct {
	batches []*entity.Batch
}

func (m *mockBatchRepo) Create(ctx context.Context, b *entity.Batch) error { return nil }

func (m *mockBatchRepo) GetByID(ctx context.Context, batchID id.ID) (*entity.Batch, error) {
	for _, b := range m.batches {
		if b.ID == batchID {
			return b, nil
		}
	}
	return nil, apperror.NewNotFound("batch", batchID.String())
}

func (m *mockBatchRepo) GetForUpdate(ctx context.Context, batchID id.ID) (*entity.Batch, error) {
	return m.GetByID(ctx, batchID)
}

func (m *mockBatchRepo) Update(ctx context.Context, b *entity.Batch) error { return nil }
func (m *mockBatchRepo) Delete(ctx context.Context, batchID id.ID) error { return nil }

func (m *mockBatchRepo) List(ctx context.Context, filter batch.ListFilter) ([]*entity.Batch, error) {
	return m.batches, nil
}

type mockProductRepo struct {
	products []*entity.Product
}

func (m *mockProductRepo) Create(ctx context.Context, p *entity.Product) error { return nil }

func (m *mockProductRepo) GetByID(ctx context.Context, productID id.ID) (*entity.Product, error) {
	return nil, apperror.NewNotFound("product", productID.String())
}

func (m *mockProductRepo) GetForUpdate(ctx context.Context, productID id.ID) (*entity.Product, error) {
	return m.GetByID(ctx, productID)
}

func (m *mockProductRepo) Update(ctx context.Context, p *entity.Product) error { return nil }
func (m *mockProductRepo) Delete(ctx context.Context, productID id.ID) error { return nil }

func (m *mockProductRepo) List(ctx context.Context, filter product.ListFilter) ([]*entity.Product, error) {
	return m.products, nil
}

type mockStudentRepo struct {
	students []*entity.Student
}

func (m *mockStudentRepo) Create(ctx context.Context, s *entity.Student) error { return nil }

func (m *mockStudentRepo) GetByID(ctx context.Context, studentID id.ID) (*entity.Student, error) {
	return nil, apperror.NewNotFound("student", studentID.String())
}

func (m *mockStudentRepo) Update(ctx context.Context, s *entity.Student) error { return nil }
func (m *mockStudentRepo) Delete(ctx context.Context, studentID id.ID) error { return nil }

func (m *mockStudentRepo) List(ctx context.Context, filter student.ListFilter) ([]*entity.Student, error) {
	return m.students, nil
}

func intPtr(v int) *int { return &v }

func reportBatch(name string) *entity.Batch {
	b := entity.NewBatch(name)
	b.Items = entity.ItemList{
		{
			VariantType: "Short Sleeve",
			Color:       "White",
			Price:       types.MustMoney("5.00"),
			Sizes: []entity.SizeRecord{
				{
					Size:             "M",
					Quantity:         6,
					Allocated:        4,
					OriginalQuantity: intPtr(10),
					AllocationLog: []entity.BatchAllocation{
						{ProductID: id.New(), ProductName: "School Polo Shirt", Quantity: 4},
					},
				},
			},
		},
	}
	return b
}

func newTestService(batches ...*entity.Batch) *Service {
	return NewService(
		&mockBatchRepo{batches: batches},
		&mockProductRepo{},
		&mockStudentRepo{},
	)
}

func TestBatchSummary(t *testing.T) {
	b := reportBatch("August Delivery")
	svc := newTestService(b)

	summary, err := svc.BatchSummary(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, summary.TotalOriginal)
	assert.Equal(t, 4, summary.TotalAllocated)
	assert.Equal(t, 40.0, summary.AllocationRate)
}

func TestBatchSummary_NotFound(t *testing.T) {
	svc := newTestService()

	_, err := svc.BatchSummary(context.Background(), id.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestProductFlow_EmptyBatchIsNotFound(t *testing.T) {
	empty := entity.NewBatch("Empty")
	svc := newTestService(empty)

	_, err := svc.ProductFlow(context.Background(), empty.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestProductFlow(t *testing.T) {
	b := reportBatch("August Delivery")
	svc := newTestService(b)

	flow, err := svc.ProductFlow(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, flow.Batch.ID)
	require.Len(t, flow.Products, 1)
	assert.Equal(t, 4, flow.Products[0].AllocatedFromBatch)
}

func TestOverviewAndUnallocatedStock(t *testing.T) {
	svc := newTestService(reportBatch("August Delivery"), reportBatch("September Delivery"))
	ctx := context.Background()

	agg, err := svc.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, agg.BatchCount)
	assert.Equal(t, 20, agg.TotalOriginal)
	assert.Equal(t, 8, agg.TotalAllocated)

	items, err := svc.UnallocatedStock(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestExportUnallocatedStock(t *testing.T) {
	svc := newTestService(reportBatch("August Delivery"))

	var buf bytes.Buffer
	require.NoError(t, svc.ExportUnallocatedStock(context.Background(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Unallocated Stock")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Batch", rows[0][0])
	assert.Equal(t, "August Delivery", rows[1][0])
}

func TestExportOverview(t *testing.T) {
	svc := newTestService(reportBatch("August Delivery"))

	var buf bytes.Buffer
	require.NoError(t, svc.ExportOverview(context.Background(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Allocation Overview")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Total", rows[2][0])
}
