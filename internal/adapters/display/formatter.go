package display

import (
	"fmt"
	"math"
	"ongkir-service/internal/domain"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Symbols for the currencies we expect to quote in; anything else prints its ISO code.
var symbols = map[string]string{
	"IDR": "Rp",
	"USD": "$",
	"EUR": "€",
	"SGD": "S$",
	"MYR": "RM",
}

// Formatter renders fare amounts with locale digit grouping.
type Formatter struct {
	printer *message.Printer
	code    string
	symbol  string
}

func NewFormatter(locale, currencyCode string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("formatter: parse locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return nil, fmt.Errorf("formatter: parse currency %q: %w", currencyCode, err)
	}

	code := unit.String()
	symbol, ok := symbols[code]
	if !ok {
		symbol = code
	}
	return &Formatter{printer: message.NewPrinter(tag), code: code, symbol: symbol}, nil
}

func (f *Formatter) Currency() string { return f.code }

// Money rounds to whole currency units, e.g. "Rp 110.000" for locale id.
func (f *Formatter) Money(amount float64) string {
	return f.symbol + " " + f.printer.Sprintf("%d", int64(math.Round(amount)))
}

func (f *Formatter) Km(km float64) string {
	return f.printer.Sprintf("%.2f", km) + " km"
}

func (f *Formatter) Minutes(m int) string {
	return f.printer.Sprintf("%d", m) + " min"
}

// FareView is a FareBreakdown ready for display.
type FareView struct {
	Destination string               `json:"destination"`
	Distance    string               `json:"distance"`
	Duration    string               `json:"duration"`
	BaseFee     string               `json:"base_fee,omitempty"`
	DistanceFee string               `json:"distance_fee"`
	Total       string               `json:"total"`
	Raw         domain.FareBreakdown `json:"raw"`
}

func (f *Formatter) Fare(destination string, fare domain.FareBreakdown) FareView {
	v := FareView{
		Destination: destination,
		Distance:    f.Km(fare.DistanceKm),
		Duration:    f.Minutes(fare.DurationMinutes),
		DistanceFee: f.Money(fare.DistanceFee),
		Total:       f.Money(fare.Total),
		Raw:         fare,
	}
	if fare.Mode == domain.PricingRoundTripWithBase {
		v.BaseFee = f.Money(fare.BaseFee)
	}
	return v
}
