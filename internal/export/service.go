package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/order-wizard/internal/query"
	"github.com/joseph-ayodele/order-wizard/internal/repository"
)

// Service is a tiny façade over the order repository that produces XLSX
// bytes for reimbursement reports.
type Service struct {
	orders repository.OrderRepository
	logger *slog.Logger
}

func NewService(orders repository.OrderRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{orders: orders, logger: logger}
}

// ExportOrdersXLSX returns an XLSX workbook (as bytes) listing every
// order in creation order, with totals in a footer row.
func (s *Service) ExportOrdersXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Orders"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Order Number",
		"Amount",
		"Comment With Picture",
		"Commented",
		"Revealed",
		"Reimbursed",
		"Reimbursed Amount",
		"Note",
		"Created At",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, o := range orders {
		note := ""
		if o.Note != nil {
			note = *o.Note
		}
		values := []any{
			o.OrderNumber,
			o.Amount,
			o.CommentWithPicture,
			o.Commented,
			o.Revealed,
			o.Reimbursed,
			o.ReimbursedAmount,
			note,
			o.CreatedAt.Format(time.RFC3339),
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	// Totals footer
	totalCell, _ := excelize.CoordinatesToCellName(1, row)
	_ = f.SetCellValue(sheet, totalCell, "Total")
	amountCell, _ := excelize.CoordinatesToCellName(2, row)
	_ = f.SetCellValue(sheet, amountCell, query.TotalAmount(orders))
	reimbCell, _ := excelize.CoordinatesToCellName(7, row)
	_ = f.SetCellValue(sheet, reimbCell, query.TotalReimbursed(orders))

	// Drop the default sheet if it still exists under its stock name.
	if sheet != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("orders exported",
		"count", len(orders),
		"bytes", buf.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
