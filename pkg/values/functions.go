package values

import (
	"reflect"
	"strings"
	"unicode/utf8"
)

// MaxDecimal returns the greater of a and b, or null if either is null.
func MaxDecimal(a, b Decimal) Decimal {
	if a.IsNull() || b.IsNull() {
		return NullDecimal
	}
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// MinDecimal returns the lesser of a and b, or null if either is null.
func MinDecimal(a, b Decimal) Decimal {
	if a.IsNull() || b.IsNull() {
		return NullDecimal
	}
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// MaxMoney returns the greater of a and b.
func MaxMoney(a, b Money) (Money, error) {
	c, err := a.Cmp(b)
	if err != nil || a.IsNull() || b.IsNull() {
		return NullMoney, err
	}
	if c >= 0 {
		return a, nil
	}
	return b, nil
}

// MinMoney returns the lesser of a and b.
func MinMoney(a, b Money) (Money, error) {
	c, err := a.Cmp(b)
	if err != nil || a.IsNull() || b.IsNull() {
		return NullMoney, err
	}
	if c <= 0 {
		return a, nil
	}
	return b, nil
}

// Left returns the first n characters of s.
func Left(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if n >= len(r) {
		return s
	}
	return string(r[:n])
}

// Right returns the last n characters of s.
func Right(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if n >= len(r) {
		return s
	}
	return string(r[len(r)-n:])
}

// TextLength returns the number of characters in s.
func TextLength(s string) int {
	return utf8.RuneCountInString(s)
}

// IsNull reports whether v is nil or a null runtime value.
func IsNull(v any) bool {
	if v == nil {
		return true
	}
	if n, ok := v.(interface{ IsNull() bool }); ok {
		return n.IsNull()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

// Concat joins texts.
func Concat(texts ...string) string {
	return strings.Join(texts, "")
}
