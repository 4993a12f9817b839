// Package export renders document lists as xlsx workbooks.
package export

import (
	"fmt"

	"procure-to-pay/internal/core"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	orderSheet = "Purchase Orders"
	lineSheet  = "Lines"

	// ContentType is the MIME type of the workbooks produced here.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	orderHeaders = []string{
		"PO Number", "Supplier", "Supplier Site", "PO Date", "Currency", "Exchange Rate",
		"Status", "Approval", "Total", "Total (base)", "Remaining",
	}
	orderWidths = []float64{14, 10, 12, 12, 9, 12, 12, 12, 14, 14, 14}

	lineHeaders = []string{
		"PO Number", "Line", "Item Code", "Item", "Quantity", "Received", "Remaining",
		"Unit Price", "Line Amount", "Tax Rate %", "Tax Amount",
	}
	lineWidths = []float64{14, 6, 12, 28, 10, 10, 10, 12, 14, 10, 12}
)

// PurchaseOrders builds a two-sheet workbook: one row per order header and one
// row per order line. The caller closes the returned file.
func PurchaseOrders(orders []core.PurchaseOrder) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", orderSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(lineSheet); err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	if err := writeHeader(f, orderSheet, orderHeaders, orderWidths, bold); err != nil {
		return nil, err
	}
	if err := writeHeader(f, lineSheet, lineHeaders, lineWidths, bold); err != nil {
		return nil, err
	}

	lineRow := 2
	for i, po := range orders {
		site := ""
		if po.SupplierSiteID != nil {
			site = fmt.Sprint(*po.SupplierSiteID)
		}
		if err := writeRow(f, orderSheet, i+2, []any{
			po.PONumber, po.SupplierID, site, po.PODate, po.CurrencyCode, num(po.ExchangeRate),
			string(po.Status), string(po.ApprovalStatus),
			num(po.TotalAmount), num(po.TotalBase), num(po.AmountRemaining),
		}); err != nil {
			return nil, err
		}

		for _, l := range po.Lines {
			code := ""
			if l.ItemCode != nil {
				code = *l.ItemCode
			}
			if err := writeRow(f, lineSheet, lineRow, []any{
				po.PONumber, l.LineNumber, code, l.ItemName,
				num(l.Quantity), num(l.QuantityReceived), num(l.QuantityRemaining),
				num(l.UnitPrice), num(l.LineAmount), num(l.TaxRate), num(l.TaxAmount),
			}); err != nil {
				return nil, err
			}
			lineRow++
		}
	}
	return f, nil
}

// Filename is the suggested download name for an export taken on date.
func Filename(date string) string {
	return fmt.Sprintf("purchase_orders_%s.xlsx", date)
}

func writeHeader(f *excelize.File, sheet string, headers []string, widths []float64, style int) error {
	for i, h := range headers {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		cell := col + "1"
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("%s header: %w", sheet, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return fmt.Errorf("%s header style: %w", sheet, err)
		}
		if err := f.SetColWidth(sheet, col, col, widths[i]); err != nil {
			return fmt.Errorf("%s column width: %w", sheet, err)
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("%s row %d: %w", sheet, row, err)
	}
	return nil
}

// num converts an already-rounded amount to a numeric cell value.
func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
