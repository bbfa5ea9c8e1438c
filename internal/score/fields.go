package score

import "github.com/ghoztwoods/shadowintel/internal/model"

// The coercion helpers below accept both native Go numbers and the
// float64 that encoding/json produces, so evidence read back from
// storage scores identically to evidence fresh off a source.

// asInt coerces a field value to int.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// asFloat coerces a field value to float64.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// maxInt returns the largest value of the field across usable items.
func maxInt(b *model.EvidenceBundle, field string) (int, bool) {
	best, found := 0, false
	for _, item := range b.OKItems() {
		if n, ok := asInt(item.Field(field)); ok {
			if !found || n > best {
				best, found = n, true
			}
		}
	}
	return best, found
}

// minInt returns the smallest value of the field across usable items.
func minInt(b *model.EvidenceBundle, field string) (int, bool) {
	best, found := 0, false
	for _, item := range b.OKItems() {
		if n, ok := asInt(item.Field(field)); ok {
			if !found || n < best {
				best, found = n, true
			}
		}
	}
	return best, found
}

// maxFloat returns the largest value of the field across usable items.
func maxFloat(b *model.EvidenceBundle, field string) (float64, bool) {
	best, found := 0.0, false
	for _, item := range b.OKItems() {
		if f, ok := asFloat(item.Field(field)); ok {
			if !found || f > best {
				best, found = f, true
			}
		}
	}
	return best, found
}

// anyTrue reports whether any usable item carries the field as true.
func anyTrue(b *model.EvidenceBundle, field string) bool {
	for _, item := range b.OKItems() {
		if v, ok := item.Field(field).(bool); ok && v {
			return true
		}
	}
	return false
}
