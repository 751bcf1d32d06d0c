package billing

// Service fee schedule: a flat charge per invoice plus a per-line charge
// for lines derived from a job ticket. Manually added lines are free.
const (
	FlatInvoiceFee = 0.99
	PerTicketFee   = 0.49
)

// LineItem is one billable row on an invoice. JobTicketID is set when the
// row was built from a submitted job ticket.
type LineItem struct {
	ID          string  `json:"id,omitempty"`
	Description string  `json:"description"`
	Rate        float64 `json:"rate"`
	Quantity    float64 `json:"quantity"`
	JobTicketID string  `json:"job_ticket_id,omitempty"`
}

// InvoiceTotals is derived from the line items on every computation and is
// never stored independently of them.
type InvoiceTotals struct {
	Subtotal   float64 `json:"subtotal"`
	ServiceFee float64 `json:"service_fee"`
	Tax        float64 `json:"tax"`
	Total      float64 `json:"total"`
}

// Totals computes the invoice summary from its line items. Negative rates
// or quantities are clamped to zero rather than rejected. The flat fee
// applies even to an empty invoice; that matches the shipped fee schedule
// and stays until product says otherwise.
func Totals(items []LineItem) InvoiceTotals {
	var subtotal float64
	ticketLines := 0

	for _, item := range items {
		rate := item.Rate
		if rate < 0 {
			rate = 0
		}
		quantity := item.Quantity
		if quantity < 0 {
			quantity = 0
		}
		subtotal += rate * quantity

		if item.JobTicketID != "" {
			ticketLines++
		}
	}

	serviceFee := FlatInvoiceFee + PerTicketFee*float64(ticketLines)
	tax := 0.0 // no tax engine yet

	subtotal = round2(subtotal)
	serviceFee = round2(serviceFee)
	return InvoiceTotals{
		Subtotal:   subtotal,
		ServiceFee: serviceFee,
		Tax:        tax,
		Total:      round2(subtotal + serviceFee + tax),
	}
}
