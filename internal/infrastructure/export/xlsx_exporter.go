// Package export writes revenue reports as Excel workbooks.
package export

import (
	"errors"
	"fmt"
	"time"

	reportapp "github.com/phonestore/backend/internal/application/report"
	"github.com/xuri/excelize/v2"
)

// Sheet names, in workbook order
const (
	SheetSummary   = "Summary"
	SheetOrders    = "Orders"
	SheetProducts  = "Products"
	SheetCustomers = "Customers"
	SheetMonthly   = "Monthly"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
	colWidth       = 20
)

// Ensure XLSXExporter implements Exporter
var _ reportapp.Exporter = (*XLSXExporter)(nil)

// XLSXExporter renders export data with excelize
type XLSXExporter struct{}

// NewXLSXExporter creates a new XLSXExporter
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// sheetWriter appends rows to one sheet and remembers the first error
type sheetWriter struct {
	f      *excelize.File
	sheet  string
	row    int
	header int
	err    error
}

func (w *sheetWriter) append(values ...any) {
	if w.err != nil {
		return
	}
	w.row++
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(w.sheet, cell, &values)
}

func (w *sheetWriter) heading(values ...any) {
	w.append(values...)
	if w.err != nil {
		return
	}
	last, err := excelize.CoordinatesToCellName(len(values), w.row)
	if err != nil {
		w.err = err
		return
	}
	first, _ := excelize.CoordinatesToCellName(1, w.row)
	w.err = w.f.SetCellStyle(w.sheet, first, last, w.header)
}

func (w *sheetWriter) blank() {
	w.row++
}

// Write builds the workbook and returns its bytes
func (e *XLSXExporter) Write(data *reportapp.ExportData) ([]byte, error) {
	if data == nil {
		return nil, errors.New("export data is required")
	}

	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SheetOrders, SheetProducts, SheetCustomers, SheetMonthly} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	writers := []func(*sheetWriter, *reportapp.ExportData){
		writeSummary, writeOrders, writeProducts, writeCustomers, writeMonthly,
	}
	sheets := []string{SheetSummary, SheetOrders, SheetProducts, SheetCustomers, SheetMonthly}
	for i, write := range writers {
		w := &sheetWriter{f: f, sheet: sheets[i], header: header}
		write(w, data)
		if w.err != nil {
			return nil, fmt.Errorf("failed to write sheet %s: %w", sheets[i], w.err)
		}
		if err := f.SetColWidth(sheets[i], "A", "H", colWidth); err != nil {
			return nil, fmt.Errorf("failed to size sheet %s: %w", sheets[i], err)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(w *sheetWriter, data *reportapp.ExportData) {
	w.heading("Revenue report")
	w.append("From", data.From.Format(dateLayout))
	w.append("To", data.To.Format(dateLayout))
	w.append("Total revenue", data.Totals.Revenue.InexactFloat64())
	w.append("Orders", data.Totals.OrderCount)
	w.append("Average order value", data.Totals.Average().InexactFloat64())
	w.blank()
	w.heading("Status", "Orders", "Revenue")
	for _, s := range data.ByStatus {
		w.append(s.Status, s.OrderCount, s.Revenue.InexactFloat64())
	}
}

func writeOrders(w *sheetWriter, data *reportapp.ExportData) {
	w.heading("Order ID", "Date", "Customer", "Status", "Payment method", "Items", "Total")
	for _, o := range data.Orders {
		w.append(o.OrderID.String(), o.OrderDate.Format(dateTimeLayout), o.CustomerName,
			o.Status, o.PaymentMethod, o.ItemCount, o.TotalAmount.InexactFloat64())
	}
}

func writeProducts(w *sheetWriter, data *reportapp.ExportData) {
	w.heading("Product ID", "Product", "Quantity", "Orders", "Revenue")
	for _, p := range data.Products {
		w.append(p.ProductID.String(), p.ProductName, p.Quantity, p.OrderCount, p.Revenue.InexactFloat64())
	}
}

func writeCustomers(w *sheetWriter, data *reportapp.ExportData) {
	w.heading("Customer ID", "Customer", "Orders", "Total spent", "Average order", "First order", "Last order")
	for _, c := range data.Customers {
		w.append(c.CustomerID.String(), c.CustomerName, c.OrderCount, c.TotalSpent.InexactFloat64(),
			c.Average.InexactFloat64(), formatOptional(c.FirstOrder), formatOptional(c.LastOrder))
	}
}

func writeMonthly(w *sheetWriter, data *reportapp.ExportData) {
	w.heading("Month", "Orders", "Revenue", "Average order")
	for _, m := range data.Monthly {
		w.append(m.Label, m.OrderCount, m.Revenue.InexactFloat64(), m.Average.InexactFloat64())
	}
}

func formatOptional(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
