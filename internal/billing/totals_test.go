package billing

import "testing"

func TestTotalsMixedLines(t *testing.T) {
	items := []LineItem{
		{Description: "Pump service", Rate: 100, Quantity: 2, JobTicketID: "a"},
		{Description: "Parts", Rate: 50, Quantity: 1},
	}

	got := Totals(items)

	if got.Subtotal != 250.00 {
		t.Errorf("Subtotal = %.2f, want 250.00", got.Subtotal)
	}
	// One ticket-derived line: 0.49 + 0.99 flat.
	if got.ServiceFee != 1.48 {
		t.Errorf("ServiceFee = %.2f, want 1.48", got.ServiceFee)
	}
	if got.Tax != 0 {
		t.Errorf("Tax = %.2f, want 0.00", got.Tax)
	}
	if got.Total != 251.48 {
		t.Errorf("Total = %.2f, want 251.48", got.Total)
	}
}

func TestTotalsEmptyList(t *testing.T) {
	// The flat fee applies even with zero items. Known quirk of the fee
	// schedule, kept on purpose.
	got := Totals(nil)

	if got.Subtotal != 0 {
		t.Errorf("Subtotal = %.2f, want 0.00", got.Subtotal)
	}
	if got.ServiceFee != 0.99 {
		t.Errorf("ServiceFee = %.2f, want 0.99", got.ServiceFee)
	}
	if got.Total != 0.99 {
		t.Errorf("Total = %.2f, want 0.99", got.Total)
	}
}

func TestTotalsClampsNegatives(t *testing.T) {
	items := []LineItem{
		{Description: "bad rate", Rate: -10, Quantity: 3},
		{Description: "bad quantity", Rate: 25, Quantity: -1},
		{Description: "good", Rate: 10, Quantity: 1.5},
	}

	got := Totals(items)
	if got.Subtotal != 15.00 {
		t.Errorf("Subtotal = %.2f, want 15.00", got.Subtotal)
	}
}

func TestTotalsPure(t *testing.T) {
	items := []LineItem{
		{Description: "repeat", Rate: 33.33, Quantity: 3, JobTicketID: "t1"},
		{Description: "repeat2", Rate: 0.1, Quantity: 0.2},
	}

	first := Totals(items)
	second := Totals(items)
	if first != second {
		t.Errorf("Totals not idempotent: %+v vs %+v", first, second)
	}
}

func TestTotalsRounding(t *testing.T) {
	items := []LineItem{
		{Description: "fractional", Rate: 0.1, Quantity: 0.2},
	}

	got := Totals(items)
	if got.Subtotal != 0.02 {
		t.Errorf("Subtotal = %v, want 0.02", got.Subtotal)
	}
	if got.Total != 1.01 {
		t.Errorf("Total = %v, want 1.01", got.Total)
	}
}
