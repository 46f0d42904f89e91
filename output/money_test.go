package output

import (
	"hours/worklog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFormatMoney(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		currency string
		amount   string
		want     string
	}{
		{name: "iso code with grouping", currency: "EUR", amount: "1600", want: "€1,600.00"},
		{name: "lowercase code", currency: "usd", amount: "1234567.891", want: "$1,234,567.89"},
		{name: "symbol stored directly", currency: "€", amount: "80.5", want: "€80.50"},
		{name: "unknown code kept verbatim", currency: "XYZ", amount: "12", want: "XYZ12.00"},
		{name: "zero", currency: "GBP", amount: "0", want: "£0.00"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := FormatMoney(tc.currency, decimal.RequireFromString(tc.amount))
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	acme := worklog.Client{ID: 1, Name: "Acme", Rate: 100, Currency: "EUR"}
	globex := worklog.Client{ID: 2, Name: "Globex", Rate: 80, Currency: "USD"}
	day := time.Date(2021, 1, 1, 0, 0, 0, 0, time.Local)

	single := Summarize([]worklog.Entry{
		{ID: 1, Day: day, Hours: 8, Project: "P", Client: acme},
		{ID: 2, Day: day, Hours: 8, Project: "P", Client: acme},
	})
	if single.Hours != 16 || !single.AmountKnown() {
		t.Fatalf("unexpected summary: %+v", single)
	}
	if got := single.FormatAmount(); got != "€1,600.00" {
		t.Fatalf("expected €1,600.00, got %s", got)
	}

	mixed := Summarize([]worklog.Entry{
		{ID: 1, Day: day, Hours: 8, Project: "P", Client: acme},
		{ID: 2, Day: day, Hours: 2, Project: "G", Client: globex},
	})
	if !mixed.MixedCurrency {
		t.Fatalf("expected mixed currency summary: %+v", mixed)
	}
	if got := mixed.FormatAmount(); got != "?" {
		t.Fatalf("expected ? for mixed currencies, got %s", got)
	}

	lower := worklog.Client{ID: 3, Name: "Initech", Rate: 50, Currency: " eur"}
	sameCode := Summarize([]worklog.Entry{
		{ID: 1, Day: day, Hours: 8, Project: "P", Client: acme},
		{ID: 2, Day: day, Hours: 2, Project: "I", Client: lower},
	})
	if sameCode.MixedCurrency {
		t.Fatalf("expected EUR and eur to share a total: %+v", sameCode)
	}
	if got := sameCode.FormatAmount(); got != "€900.00" {
		t.Fatalf("expected €900.00, got %s", got)
	}

	if got := Summarize(nil).FormatAmount(); got != "?" {
		t.Fatalf("expected ? without entries, got %s", got)
	}
}
