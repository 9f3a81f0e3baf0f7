package models

import (
	"fmt"
	"strings"

	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/pkg/labcalc"
)

// Fields is one loosely typed form row or flat measurement object as the
// browser submits it: values are strings, numbers or null.
type Fields map[string]any

// Text returns the trimmed string form of key, "" when absent.
func (f Fields) Text(key string) string {
	switch v := f[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strings.TrimSpace(fmt.Sprintf("%g", v))
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// Float parses key as a number; blank and non-numeric values are nil.
func (f Fields) Float(key string) *float64 {
	return labcalc.Ptr(f[key])
}

// Int parses key as a whole number.
func (f Fields) Int(key string) *int {
	v := labcalc.Ptr(f[key])
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}

// Has reports whether key holds a non-blank value.
func (f Fields) Has(key string) bool {
	switch v := f[key].(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(v) != ""
	case bool:
		return v
	default:
		return true
	}
}

// RowPresent reports whether at least one of the given fields is filled
// in. Free-form rows failing this check are dropped before insert.
func RowPresent(row Fields, fields []string) bool {
	for _, k := range fields {
		if row.Has(k) {
			return true
		}
	}
	return false
}

// PresentRows keeps the rows that pass RowPresent, preserving order.
func PresentRows(rows []Fields, fields []string) []Fields {
	out := make([]Fields, 0, len(rows))
	for _, r := range rows {
		if RowPresent(r, fields) {
			out = append(out, r)
		}
	}
	return out
}

// flatValue renders an optional number for a flat read object: missing
// values become "" so form inputs bind directly.
func flatValue(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
