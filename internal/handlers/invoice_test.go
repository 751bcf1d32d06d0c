package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brennanwesley/jobticketinvoice-sub000/internal/billing"
	"github.com/brennanwesley/jobticketinvoice-sub000/internal/models"
)

func bindInvoiceRequest(t *testing.T, body string) invoiceRequest {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		t.Fatalf("bind: %v", err)
	}
	return req
}

func TestApplyInvoiceRequestIgnoresClientTotals(t *testing.T) {
	// The payload claims totals far from what its line items produce.
	body := `{
		"invoice_date": "2026-08-15",
		"customer_name": "Permian Basin Operating",
		"line_items": [
			{"id": "1", "description": "Pump repair labor", "rate": 125, "quantity": 2, "job_ticket_id": "jt-1"},
			{"id": "2", "description": "Mileage", "rate": 0.5, "quantity": 40}
		],
		"subtotal": 1,
		"service_fee": 0,
		"tax": 50,
		"total": 1
	}`
	req := bindInvoiceRequest(t, body)

	invoice := newInvoice(uuid.New(), uuid.New(), "26123456")
	if err := applyInvoiceRequest(&invoice, req); err != nil {
		t.Fatalf("applyInvoiceRequest: %v", err)
	}

	want := billing.Totals(req.LineItems)
	if invoice.Subtotal != want.Subtotal || invoice.ServiceFee != want.ServiceFee ||
		invoice.Tax != want.Tax || invoice.Total != want.Total {
		t.Errorf("totals = (%v, %v, %v, %v), want (%v, %v, %v, %v)",
			invoice.Subtotal, invoice.ServiceFee, invoice.Tax, invoice.Total,
			want.Subtotal, want.ServiceFee, want.Tax, want.Total)
	}
	if invoice.Subtotal != 270 {
		t.Errorf("Subtotal = %v, want 270", invoice.Subtotal)
	}
	if invoice.ServiceFee != 1.48 {
		t.Errorf("ServiceFee = %v, want 1.48", invoice.ServiceFee)
	}
	if invoice.Total != 271.48 {
		t.Errorf("Total = %v, want 271.48", invoice.Total)
	}
	if got := invoice.InvoiceDate.Format("2006-01-02"); got != "2026-08-15" {
		t.Errorf("InvoiceDate = %s, want 2026-08-15", got)
	}
}

func TestApplyInvoiceRequestRejectsBadDate(t *testing.T) {
	invoice := newInvoice(uuid.New(), uuid.New(), "26000001")
	if err := applyInvoiceRequest(&invoice, invoiceRequest{InvoiceDate: "15-08-2026"}); err != errInvalidInvoiceDate {
		t.Errorf("err = %v, want %v", err, errInvalidInvoiceDate)
	}
}

func TestApplyInvoiceRequestKeepsStatusWhenOmitted(t *testing.T) {
	invoice := newInvoice(uuid.New(), uuid.New(), "26000002")
	invoice.Status = models.InvoiceStatusSent

	if err := applyInvoiceRequest(&invoice, invoiceRequest{}); err != nil {
		t.Fatalf("applyInvoiceRequest: %v", err)
	}
	if invoice.Status != models.InvoiceStatusSent {
		t.Errorf("Status = %q, want %q", invoice.Status, models.InvoiceStatusSent)
	}
}

func TestNewInvoiceSeedsCreatorAndStatus(t *testing.T) {
	userID := uuid.New()
	invoice := newInvoice(userID, uuid.New(), "26000003")

	if invoice.Status != models.InvoiceStatusDraft {
		t.Errorf("Status = %q, want draft", invoice.Status)
	}
	if invoice.CreatedBy != userID.String() {
		t.Errorf("CreatedBy = %q, want %q", invoice.CreatedBy, userID.String())
	}
	if invoice.InvoiceNumber != "26000003" {
		t.Errorf("InvoiceNumber = %q", invoice.InvoiceNumber)
	}
}
