package domain

import (
	"testing"
)

func TestNormalizeSeverity(t *testing.T) {
	cases := []struct {
		raw  string
		want Severity
	}{
		{"critical", SeverityCritical},
		{"BLOCKER", SeverityCritical},
		{"Urgent", SeverityHigh},
		{"high", SeverityHigh},
		{"  medium  ", SeverityMedium},
		{"low", SeverityLow},
		{"", SeverityMedium},
		{"sev1", SeverityMedium},
		{"{\"oops\": true}", SeverityMedium},
	}
	for _, tc := range cases {
		got := NormalizeSeverity(tc.raw, SeverityMedium)
		if got != tc.want {
			t.Fatalf("NormalizeSeverity(%q) = %q, want %q", tc.raw, got, tc.want)
		}
		if !got.Valid() {
			t.Fatalf("NormalizeSeverity(%q) returned invalid severity %q", tc.raw, got)
		}
	}
}

func TestParseSeverity(t *testing.T) {
	if s, ok := ParseSeverity("critical"); !ok || s != SeverityCritical {
		t.Fatalf("ParseSeverity(critical) = %q, %v", s, ok)
	}
	if _, ok := ParseSeverity("urgent"); ok {
		t.Fatalf("expected synonym 'urgent' to be rejected by strict parse")
	}
	if _, ok := ParseSeverity("whatever"); ok {
		t.Fatalf("expected unknown severity to be rejected")
	}
}

func TestSeverityAtLeast(t *testing.T) {
	if !SeverityCritical.AtLeast(SeverityHigh) {
		t.Fatalf("Critical should rank at least High")
	}
	if SeverityLow.AtLeast(SeverityMedium) {
		t.Fatalf("Low should not rank at least Medium")
	}
	if !SeverityHigh.AtLeast(SeverityHigh) {
		t.Fatalf("AtLeast should be inclusive")
	}
}

func TestNewTicketDefaultsClientID(t *testing.T) {
	ticket := NewTicket("  ", "Checkout page returns 500")
	if ticket.ClientID != "unknown-client" {
		t.Fatalf("expected default client id, got %q", ticket.ClientID)
	}
	if ticket.CreatedAt.IsZero() {
		t.Fatalf("expected creation timestamp to be set")
	}
	if ticket.Text != "Checkout page returns 500" {
		t.Fatalf("unexpected ticket text: %q", ticket.Text)
	}
}
