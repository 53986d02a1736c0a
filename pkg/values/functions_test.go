package values_test

import (
	"errors"
	"testing"

	"github.com/faktorips/fl/pkg/values"
)

func TestMinMaxDecimal(t *testing.T) {
	a, b := values.DecimalOf("1.5"), values.DecimalOf("2")
	if got := values.MaxDecimal(a, b).String(); got != "2" {
		t.Errorf("max = %s", got)
	}
	if got := values.MinDecimal(a, b).String(); got != "1.5" {
		t.Errorf("min = %s", got)
	}
	if !values.MaxDecimal(a, values.NullDecimal).IsNull() {
		t.Error("max with null should be null")
	}
}

func TestMinMaxMoney(t *testing.T) {
	a, b := values.MoneyOf("1.00EUR"), values.MoneyOf("2.00EUR")
	if got, err := values.MaxMoney(a, b); err != nil || got.String() != "2.00EUR" {
		t.Errorf("max = %s, %v", got, err)
	}
	if got, err := values.MinMoney(a, b); err != nil || got.String() != "1.00EUR" {
		t.Errorf("min = %s, %v", got, err)
	}
	if got, err := values.MinMoney(a, values.NullMoney); err != nil || !got.IsNull() {
		t.Errorf("min with null = %s, %v", got, err)
	}
	if _, err := values.MaxMoney(a, values.MoneyOf("1.00USD")); !errors.Is(err, values.ErrCurrencyMismatch) {
		t.Errorf("error = %v", err)
	}
}

func TestTextFunctions(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"left", values.Left("Grüße", 3), "Grü"},
		{"left negative", values.Left("abc", -1), ""},
		{"left beyond", values.Left("abc", 5), "abc"},
		{"right", values.Right("Grüße", 2), "ße"},
		{"right zero", values.Right("abc", 0), ""},
		{"concat", values.Concat("a", "b", "c"), "abc"},
		{"concat empty", values.Concat(), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
	if n := values.TextLength("Grüße"); n != 5 {
		t.Errorf("TextLength = %d", n)
	}
}

func TestIsNull(t *testing.T) {
	var nilMap map[string]int
	tests := []struct {
		v    any
		want bool
	}{
		{nil, true},
		{values.NullDecimal, true},
		{values.NullMoney, true},
		{values.NullInteger, true},
		{values.NullBoolean, true},
		{values.Enum{}, true},
		{nilMap, true},
		{values.DecimalOf("0"), false},
		{0, false},
		{"", false},
		{false, false},
	}
	for _, tt := range tests {
		if got := values.IsNull(tt.v); got != tt.want {
			t.Errorf("IsNull(%#v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}
