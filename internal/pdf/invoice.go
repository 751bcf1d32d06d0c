// Package pdf renders invoices as downloadable PDF documents.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/brennanwesley/jobticketinvoice-sub000/internal/models"
)

// RenderInvoice lays out an invoice on a single A4 page: a header with the
// invoice number and dates, a line-item table, and the totals block.
func RenderInvoice(invoice models.Invoice) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Arial", "B", 18)
	doc.Cell(120, 10, invoice.CompanyName)
	doc.SetFont("Arial", "B", 14)
	doc.CellFormat(0, 10, "INVOICE", "", 1, "R", false, 0, "")

	doc.SetFont("Arial", "", 10)
	doc.Cell(100, 6, "Invoice #: "+invoice.InvoiceNumber)
	doc.CellFormat(0, 6, "Date: "+invoice.InvoiceDate.Format("2006-01-02"), "", 1, "R", false, 0, "")
	doc.Cell(100, 6, "Bill To: "+invoice.CustomerName)
	doc.CellFormat(0, 6, "Status: "+invoice.Status, "", 1, "R", false, 0, "")
	doc.Ln(6)

	doc.SetFont("Arial", "B", 10)
	doc.SetFillColor(230, 230, 230)
	doc.CellFormat(95, 8, "Description", "1", 0, "L", true, 0, "")
	doc.CellFormat(30, 8, "Rate", "1", 0, "R", true, 0, "")
	doc.CellFormat(25, 8, "Qty", "1", 0, "R", true, 0, "")
	doc.CellFormat(30, 8, "Amount", "1", 1, "R", true, 0, "")

	doc.SetFont("Arial", "", 10)
	for _, item := range invoice.LineItems {
		amount := item.Rate * item.Quantity
		doc.CellFormat(95, 8, item.Description, "1", 0, "L", false, 0, "")
		doc.CellFormat(30, 8, fmt.Sprintf("%.2f", item.Rate), "1", 0, "R", false, 0, "")
		doc.CellFormat(25, 8, fmt.Sprintf("%.2f", item.Quantity), "1", 0, "R", false, 0, "")
		doc.CellFormat(30, 8, fmt.Sprintf("%.2f", amount), "1", 1, "R", false, 0, "")
	}
	doc.Ln(4)

	writeTotal := func(label string, value float64, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		doc.SetFont("Arial", style, 10)
		doc.CellFormat(150, 7, label, "", 0, "R", false, 0, "")
		doc.CellFormat(30, 7, fmt.Sprintf("%.2f", value), "", 1, "R", false, 0, "")
	}
	writeTotal("Subtotal", invoice.Subtotal, false)
	writeTotal("Service Fee", invoice.ServiceFee, false)
	writeTotal("Tax", invoice.Tax, false)
	writeTotal("Total", invoice.Total, true)

	if invoice.Notes != "" {
		doc.Ln(6)
		doc.SetFont("Arial", "I", 9)
		doc.MultiCell(0, 5, "Notes: "+invoice.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
