package output

import (
	"hours/worklog"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "¥",
	"INR": "₹",
	"KRW": "₩",
	"PLN": "zł",
	"CHF": "CHF ",
	"SEK": "kr ",
	"NOK": "kr ",
	"DKK": "kr ",
	"HUF": "Ft ",
}

// CurrencySymbol maps known ISO codes to their symbol; anything else is
// returned as stored, so a client may also be created with a symbol directly.
func CurrencySymbol(currency string) string {
	if symbol, ok := currencySymbols[currencyKey(currency)]; ok {
		return symbol
	}
	return strings.TrimSpace(currency)
}

func currencyKey(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}

// FormatMoney renders an amount with thousands grouping and two decimals,
// e.g. "€1,600.00".
func FormatMoney(currency string, amount decimal.Decimal) string {
	return CurrencySymbol(currency) + formatNumber(amount.Round(2).InexactFloat64())
}

// FormatHours renders hours with two decimals and grouping, e.g. "1,200.50".
func FormatHours(hours float64) string {
	return formatNumber(hours)
}

func formatNumber(value float64) string {
	return humanize.FormatFloat("#,###.##", value)
}

// Summary aggregates a set of entries for total rows.
type Summary struct {
	Count         int
	Hours         float64
	Amount        decimal.Decimal
	Currency      string
	MixedCurrency bool
}

func Summarize(entries []worklog.Entry) Summary {
	summary := Summary{Count: len(entries), Amount: decimal.Zero}
	for i, entry := range entries {
		summary.Hours += entry.Hours
		summary.Amount = summary.Amount.Add(entry.Amount())
		if i == 0 {
			summary.Currency = entry.Client.Currency
		} else if currencyKey(entry.Client.Currency) != currencyKey(summary.Currency) {
			summary.MixedCurrency = true
		}
	}
	return summary
}

// AmountKnown reports whether the amounts can be summed into one total.
func (s Summary) AmountKnown() bool {
	return s.Count > 0 && !s.MixedCurrency
}

// FormatAmount renders the total amount, or "?" when it cannot be expressed
// in a single currency.
func (s Summary) FormatAmount() string {
	if !s.AmountKnown() {
		return "?"
	}
	return FormatMoney(s.Currency, s.Amount)
}

// FormatRate renders a client's hourly rate, e.g. "€95.00/h".
func FormatRate(client worklog.Client) string {
	return FormatMoney(client.Currency, decimal.NewFromFloat(client.Rate)) + "/h"
}
