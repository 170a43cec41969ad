// Package i18n renders hours and money amounts for a tenant's locale and
// parses them back. Parsing is tolerant of locale separators so that a
// formatted value always round-trips to the same number at two decimals.
package i18n

import (
	"strconv"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	apperrors "github.com/pedro17pedroo/tts-sub001/pkg/util"
)

// Formatter formats numeric display values for one locale.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
}

// NewFormatter builds a formatter for the given BCP 47 locale, falling back
// to English when the locale cannot be parsed.
func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Formatter{tag: tag, printer: message.NewPrinter(tag)}
}

// Locale returns the resolved language tag.
func (f *Formatter) Locale() language.Tag {
	return f.tag
}

// FormatHours renders an hour quantity with two fraction digits.
func (f *Formatter) FormatHours(hours float64) string {
	return f.printer.Sprintf("%v", number.Decimal(hours,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2)))
}

// FormatMoney renders an amount with its ISO 4217 currency symbol.
func (f *Formatter) FormatMoney(amount float64, currencyCode string) (string, error) {
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return "", apperrors.NewValidationError("invalid currency code", map[string]any{"currency": currencyCode})
	}
	value := f.printer.Sprintf("%v", number.Decimal(amount,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2)))
	return f.printer.Sprintf("%v %s", currency.Symbol(unit), value), nil
}

// ParseHours recovers a numeric value from a string formatted by
// FormatHours, regardless of locale separators.
func (f *Formatter) ParseHours(s string) (float64, error) {
	return parseLocalized(s)
}

// ParseMoney recovers an amount from a FormatMoney string, ignoring the
// currency symbol.
func (f *Formatter) ParseMoney(s string) (float64, error) {
	return parseLocalized(s)
}

// parseLocalized strips symbols and grouping, treating the last '.' or ','
// as the decimal separator. That holds for every locale x/text emits.
func parseLocalized(s string) (float64, error) {
	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')
	decimalSep := byte(0)
	if lastDot > lastComma {
		decimalSep = '.'
	} else if lastComma > lastDot {
		decimalSep = ','
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch >= '0' && ch <= '9':
			b.WriteByte(ch)
		case ch == '-':
			b.WriteByte(ch)
		case ch == decimalSep && (i == lastDot || i == lastComma):
			b.WriteByte('.')
		}
	}
	if b.Len() == 0 {
		return 0, apperrors.NewValidationError("not a number", map[string]any{"value": s})
	}
	parsed, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, apperrors.NewValidationError("not a number", map[string]any{"value": s})
	}
	return parsed, nil
}
