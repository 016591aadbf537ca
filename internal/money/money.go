package money

import (
	"fmt"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Round rounds to cents, half away from zero.
func Round(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Cents converts a major-unit amount into minor units.
func Cents(v float64) int64 {
	return decimal.NewFromFloat(v).Round(2).Shift(2).IntPart()
}

// Formatter renders amounts for one locale and one display currency.
type Formatter struct {
	tag      language.Tag
	printer  *message.Printer
	currency string
}

// NewFormatter parses a BCP 47 locale such as "en-US" or "de-DE" and checks
// that the currency code is known.
func NewFormatter(locale, currency string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	if gomoney.GetCurrency(currency) == nil {
		return nil, fmt.Errorf("unknown currency %q", currency)
	}

	return &Formatter{
		tag:      tag,
		printer:  message.NewPrinter(tag),
		currency: currency,
	}, nil
}

// MustFormatter is NewFormatter for literals known to be valid.
func MustFormatter(locale, currency string) *Formatter {
	f, err := NewFormatter(locale, currency)
	if err != nil {
		panic(err)
	}
	return f
}

// Amount formats a price or PnL with grouping and exactly two decimals.
func (f *Formatter) Amount(v float64) string {
	return f.printer.Sprint(number.Decimal(Round(v), number.Scale(2)))
}

// Quantity formats an integer with locale grouping.
func (f *Formatter) Quantity(q int) string {
	return f.printer.Sprint(number.Decimal(q))
}

// Signed is Amount with an explicit plus sign for gains.
func (f *Formatter) Signed(v float64) string {
	if Round(v) > 0 {
		return "+" + f.Amount(v)
	}
	return f.Amount(v)
}

// Currency renders the amount with the currency symbol, e.g. "$1,234.50".
func (f *Formatter) Currency(v float64) string {
	return gomoney.New(Cents(v), f.currency).Display()
}

// CurrencyCode returns the configured ISO currency code.
func (f *Formatter) CurrencyCode() string {
	return f.currency
}

// Locale returns the parsed locale tag.
func (f *Formatter) Locale() language.Tag {
	return f.tag
}
