package models

import "testing"

func TestNormalizeCompanyName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Acme Services", "acmeservices"},
		{"strips dashes", "Acme Pump-Service", "acmepumpservice"},
		{"strips underscores", "acme_pump_service", "acmepumpservice"},
		{"trims whitespace", "  Acme  ", "acme"},
		{"collides across styles", "ACME-Pump Service", "acmepumpservice"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeCompanyName(tc.in); got != tc.want {
				t.Errorf("NormalizeCompanyName(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizedNamesCollide(t *testing.T) {
	a := NormalizeCompanyName("Acme Pump-Service")
	b := NormalizeCompanyName("acme pumpservice")
	if a != b {
		t.Errorf("expected %q and %q to normalize identically, got %q vs %q",
			"Acme Pump-Service", "acme pumpservice", a, b)
	}
}
