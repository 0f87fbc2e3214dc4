package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/repository"
	"github.com/sangkips/pos-terminal/pkg/apperror"
	"github.com/sangkips/pos-terminal/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ReportService reads the local sale journal
type ReportService struct {
	journalRepo repository.SaleJournalRepository
}

// NewReportService creates a new report service
func NewReportService(journalRepo repository.SaleJournalRepository) *ReportService {
	return &ReportService{journalRepo: journalRepo}
}

// ListSessionSales returns journaled sales of a session, newest first
func (s *ReportService) ListSessionSales(ctx context.Context, sessionID string, params *pagination.PaginationParams) ([]entity.SaleJournalEntry, *pagination.Pagination, error) {
	params.Validate()
	entries, total, err := s.journalRepo.ListBySession(ctx, sessionID, params)
	if err != nil {
		return nil, nil, err
	}
	return entries, pagination.NewPagination(params.Page, params.PerPage, total), nil
}

var salesHeader = []string{
	"Receipt", "Sale ID", "Sold At", "Register", "Terminal", "Operator",
	"Customer", "Payment", "Items", "Subtotal", "Tax", "Total", "Paid", "Due",
}

// ExportSession builds an XLSX workbook of a session's journaled sales: a
// "Sales" sheet with one row per sale and a totals row, and an "Items"
// sheet with one row per sold line.
func (s *ReportService) ExportSession(ctx context.Context, sessionID string) ([]byte, error) {
	entries, err := s.journalRepo.AllBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, apperror.NewNotFoundError("Sales for session")
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, err
	}

	const sales = "Sales"
	if err := f.SetSheetName("Sheet1", sales); err != nil {
		return nil, err
	}
	if err := writeRow(f, sales, 1, toCells(salesHeader)); err != nil {
		return nil, err
	}

	totals := make([]decimal.Decimal, 5)
	row := 2
	for _, e := range entries {
		values := []decimal.Decimal{e.Subtotal, e.TaxAmount, e.Total, e.AmountPaid, e.AmountDue}
		cells := []interface{}{
			e.ReceiptNumber, e.SaleID, e.SoldAt.Format("2006-01-02 15:04:05"), e.RegisterID,
			e.TerminalID, e.OperatorID, e.CustomerName, e.PaymentMethod, e.ItemCount,
		}
		for i, v := range values {
			totals[i] = totals[i].Add(v)
			cells = append(cells, v.InexactFloat64())
		}
		if err := writeRow(f, sales, row, cells); err != nil {
			return nil, err
		}
		row++
	}

	totalCells := []interface{}{"TOTAL", "", "", "", "", "", "", "", ""}
	for _, t := range totals {
		totalCells = append(totalCells, t.InexactFloat64())
	}
	if err := writeRow(f, sales, row, totalCells); err != nil {
		return nil, err
	}
	if err := styleRange(f, sales, 1, 1, len(salesHeader), bold); err != nil {
		return nil, err
	}
	if err := styleColumns(f, sales, 10, len(salesHeader), row, money); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sales, "A", "H", 18); err != nil {
		return nil, err
	}

	if err := s.writeItems(f, entries, bold, money); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return bytes.Clone(buf.Bytes()), nil
}

func (s *ReportService) writeItems(f *excelize.File, entries []entity.SaleJournalEntry, bold, money int) error {
	const items = "Items"
	if _, err := f.NewSheet(items); err != nil {
		return err
	}
	header := []string{"Receipt", "Product", "SKU", "Quantity", "Unit Price", "Discount", "Total"}
	if err := writeRow(f, items, 1, toCells(header)); err != nil {
		return err
	}

	row := 2
	for _, e := range entries {
		r, err := e.DecodeReceipt()
		if err != nil {
			return fmt.Errorf("receipt %s: %w", e.ReceiptNumber, err)
		}
		for _, it := range r.Items {
			cells := []interface{}{
				e.ReceiptNumber, it.Name, it.SKU, it.Quantity,
				it.UnitPrice.InexactFloat64(), it.Discount.InexactFloat64(), it.Total.InexactFloat64(),
			}
			if err := writeRow(f, items, row, cells); err != nil {
				return err
			}
			row++
		}
	}

	if err := styleRange(f, items, 1, 1, len(header), bold); err != nil {
		return err
	}
	return styleColumns(f, items, 5, len(header), row-1, money)
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

func styleRange(f *excelize.File, sheet string, row, fromCol, toCol, style int) error {
	from, err := excelize.CoordinatesToCellName(fromCol, row)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(toCol, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, from, to, style)
}

func styleColumns(f *excelize.File, sheet string, fromCol, toCol, lastRow, style int) error {
	if lastRow < 2 {
		return nil
	}
	from, err := excelize.CoordinatesToCellName(fromCol, 2)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(toCol, lastRow)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, from, to, style)
}
