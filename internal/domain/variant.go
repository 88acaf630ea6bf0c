package domain

import (
	"maps"
	"slices"
	"strings"
)

// Variant is a selection of variant-axis values, e.g. {"size": "M"}.
// A nil or empty variant means no selection.
type Variant map[string]string

// Equal reports whether v and o select the same values. Key order never
// matters, and an empty selection equals an absent one.
func (v Variant) Equal(o Variant) bool {
	return maps.Equal(v, o)
}

// keyEscaper backslash-escapes the separators so distinct selections never
// share a key.
var keyEscaper = strings.NewReplacer(`\`, `\\`, `;`, `\;`, `=`, `\=`)

// Key returns the canonical serialization of v: axis=value pairs sorted by
// axis and joined with ';', with '\', ';' and '=' escaped inside axes and
// values. Two variants have the same key exactly when they are Equal. The
// empty selection has the empty key.
func (v Variant) Key() string {
	if len(v) == 0 {
		return ""
	}
	axes := slices.Sorted(maps.Keys(v))
	var b strings.Builder
	for i, axis := range axes {
		if i > 0 {
			b.WriteByte(';')
		}
		_, _ = keyEscaper.WriteString(&b, axis)
		b.WriteByte('=')
		_, _ = keyEscaper.WriteString(&b, v[axis])
	}
	return b.String()
}

// Clone returns a copy of v, normalizing an empty selection to nil.
func (v Variant) Clone() Variant {
	if len(v) == 0 {
		return nil
	}
	return maps.Clone(v)
}
