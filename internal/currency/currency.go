// Package currency holds the supported currency table and the formatting
// service bound to the user's persisted currency choice.
package currency

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned for codes outside the supported set.
var ErrUnsupported = errors.New("unsupported currency")

// Code is an ISO 4217 code from the supported set.
type Code string

const (
	USD Code = "USD"
	TZS Code = "TZS"
	UGX Code = "UGX"
	KES Code = "KES"
	GBP Code = "GBP"
)

// Base is used when no choice was ever stored.
const Base = USD

// Config describes how amounts in one currency are displayed.
type Config struct {
	Code    Code
	Symbol  string
	Name    string
	Locale  string
	Decimal string
	Group   string
}

// All five locales (en-US, sw-TZ, en-UG, en-KE, en-GB) group with "," and
// use "." for decimals.
var table = []Config{
	{Code: USD, Symbol: "$", Name: "US Dollar", Locale: "en-US", Decimal: ".", Group: ","},
	{Code: TZS, Symbol: "TSh", Name: "Tanzanian Shilling", Locale: "sw-TZ", Decimal: ".", Group: ","},
	{Code: UGX, Symbol: "USh", Name: "Ugandan Shilling", Locale: "en-UG", Decimal: ".", Group: ","},
	{Code: KES, Symbol: "KSh", Name: "Kenyan Shilling", Locale: "en-KE", Decimal: ".", Group: ","},
	{Code: GBP, Symbol: "£", Name: "British Pound", Locale: "en-GB", Decimal: ".", Group: ","},
}

// Supported returns the currency table in display order.
func Supported() []Config {
	return append([]Config(nil), table...)
}

// Lookup returns the config for code.
func Lookup(code Code) (Config, bool) {
	for _, c := range table {
		if c.Code == code {
			return c, true
		}
	}
	return Config{}, false
}

// Parse validates s against the supported set.
func Parse(s string) (Code, error) {
	code := Code(s)
	if _, ok := Lookup(code); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, s)
	}
	return code, nil
}

func (c Code) String() string { return string(c) }
