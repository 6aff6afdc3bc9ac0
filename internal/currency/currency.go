// Package currency formats monetary amounts for display. It never converts
// between currencies; amounts of different currencies are kept apart by the
// statistics engine and only formatted here.
package currency

import (
	"fmt"
	"regexp"
	"strings"
)

// validCodeRegex matches ISO 4217 style three-letter codes.
var validCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// Translator resolves a display-name key to a localized string. The zero
// fallback is returned when no translation exists.
type Translator interface {
	Resolve(key, fallback string) string
}

// symbols maps currency codes to their conventional symbols. Codes without
// an entry are formatted with the code itself as suffix.
var symbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
	"CHF": "CHF",
	"JPY": "¥",
	"SEK": "kr",
	"NOK": "kr",
	"DKK": "kr",
	"PLN": "zł",
	"CZK": "Kč",
	"CAD": "C$",
	"AUD": "A$",
	"BRL": "R$",
	"INR": "₹",
	"RUB": "₽",
	"AMD": "֏",
}

var names = map[string]string{
	"EUR": "Euro",
	"USD": "US Dollar",
	"GBP": "British Pound",
	"CHF": "Swiss Franc",
	"JPY": "Japanese Yen",
	"SEK": "Swedish Krona",
	"NOK": "Norwegian Krone",
	"DKK": "Danish Krone",
	"PLN": "Polish Zloty",
	"CZK": "Czech Koruna",
	"CAD": "Canadian Dollar",
	"AUD": "Australian Dollar",
	"BRL": "Brazilian Real",
	"INR": "Indian Rupee",
	"RUB": "Russian Ruble",
	"AMD": "Armenian Dram",
}

// ValidCode reports whether code looks like an ISO 4217 currency code.
func ValidCode(code string) bool {
	return validCodeRegex.MatchString(code)
}

// Symbol returns the display symbol for a currency code, or the code itself
// when no symbol is known.
func Symbol(code string) string {
	code = strings.ToUpper(code)
	if sym, ok := symbols[code]; ok {
		return sym
	}
	return code
}

// Name returns the human-readable currency name. An optional translator
// localizes it; pass nil for the default English name. Unknown codes return
// the code unchanged.
func Name(code string, tr Translator) string {
	code = strings.ToUpper(code)
	name, ok := names[code]
	if !ok {
		return code
	}
	if tr != nil {
		return tr.Resolve("currency."+code, name)
	}
	return name
}

// Format renders an amount with two decimal places and the currency symbol.
// Symbol placement follows common convention: prefix for $-like symbols,
// suffix for the rest.
func Format(amount float64, code string) string {
	sym := Symbol(strings.ToUpper(code))
	if isPrefix(sym) {
		return fmt.Sprintf("%s%.2f", sym, amount)
	}
	return fmt.Sprintf("%.2f %s", amount, sym)
}

func isPrefix(symbol string) bool {
	switch symbol {
	case "$", "£", "¥", "C$", "A$", "R$":
		return true
	}
	return false
}
