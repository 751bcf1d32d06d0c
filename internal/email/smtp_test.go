package email

import (
	"strings"
	"testing"
)

func TestBuildMessage(t *testing.T) {
	message := buildMessage("Acme <noreply@acme.test>", "tech@example.com", "Hello", "line one\nline two")

	wantHeaders := []string{
		"From: Acme <noreply@acme.test>",
		"To: tech@example.com",
		"Subject: Hello",
		"Content-Type: text/plain; charset=utf-8",
	}
	for _, header := range wantHeaders {
		if !strings.Contains(message, header+"\r\n") {
			t.Errorf("message missing header %q:\n%s", header, message)
		}
	}

	// Body follows a blank line after the headers.
	if !strings.Contains(message, "\r\n\r\nline one\nline two") {
		t.Errorf("message missing body separator:\n%s", message)
	}
}

func TestParseAddress(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"noreply@acme.test", "noreply@acme.test"},
		{"Acme <noreply@acme.test>", "noreply@acme.test"},
		{"<noreply@acme.test>", "noreply@acme.test"},
		{"  noreply@acme.test  ", "noreply@acme.test"},
		{"Acme < noreply@acme.test >", "noreply@acme.test"},
	}

	for _, tc := range cases {
		if got := parseAddress(tc.in); got != tc.want {
			t.Errorf("parseAddress(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
