package reports

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"kitstock/internal/domain/allocation"
	"kitstock/internal/domain/batch"
)

// ExportUnallocatedStock writes an xlsx workbook listing every unallocated
// size line across all live batches.
func (s *Service) ExportUnallocatedStock(ctx context.Context, w io.Writer) error {
	items, err := s.UnallocatedStock(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Unallocated Stock"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	f.SetCellValue(sheet, "A1", "Batch")
	f.SetCellValue(sheet, "B1", "Variant")
	f.SetCellValue(sheet, "C1", "Color")
	f.SetCellValue(sheet, "D1", "Size")
	f.SetCellValue(sheet, "E1", "Quantity")
	f.SetCellValue(sheet, "F1", "Unit Price")
	f.SetCellValue(sheet, "G1", "Value")

	for i, item := range items {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), item.BatchName)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), item.VariantType)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), item.Color)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), item.Size)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), item.Quantity)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), item.Price.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), item.Value.InexactFloat64())
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ExportOverview writes an xlsx workbook with one summary row per batch
// followed by the combined totals.
func (s *Service) ExportOverview(ctx context.Context, w io.Writer) error {
	batches, err := s.batches.List(ctx, batch.ListFilter{})
	if err != nil {
		return err
	}

	summaries := make([]allocation.Summary, 0, len(batches))
	for _, b := range batches {
		summaries = append(summaries, allocation.SummarizeBatch(b))
	}
	agg := allocation.AggregateAllocations(batches)

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Allocation Overview"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	f.SetCellValue(sheet, "A1", "Batch")
	f.SetCellValue(sheet, "B1", "Original")
	f.SetCellValue(sheet, "C1", "Allocated")
	f.SetCellValue(sheet, "D1", "Unallocated")
	f.SetCellValue(sheet, "E1", "Allocated Value")
	f.SetCellValue(sheet, "F1", "Unallocated Value")
	f.SetCellValue(sheet, "G1", "Rate %")

	row := 2
	for _, sum := range summaries {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), sum.BatchName)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), sum.TotalOriginal)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), sum.TotalAllocated)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), sum.TotalUnallocated)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), sum.AllocatedValue.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), sum.UnallocatedValue.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), sum.AllocationRate)
		row++
	}

	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), agg.TotalOriginal)
	f.SetCellValue(sheet, fmt.Sprintf("C%d", row), agg.TotalAllocated)
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), agg.TotalUnallocated)
	f.SetCellValue(sheet, fmt.Sprintf("E%d", row), agg.AllocatedValue.InexactFloat64())
	f.SetCellValue(sheet, fmt.Sprintf("F%d", row), agg.UnallocatedValue.InexactFloat64())
	f.SetCellValue(sheet, fmt.Sprintf("G%d", row), agg.AllocationRate)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
