package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// ClassKey is a decoded manifest key "<id>;<name>[;<domain>]".
type ClassKey struct {
	ID        int
	Name      string
	Domain    string
	HasDomain bool
}

// ParseClassKey decodes a manifest class key. Exactly two or three
// semicolon-separated fields are accepted and the first must be an integer.
func ParseClassKey(s string) (ClassKey, error) {
	fields := strings.Split(s, ";")
	if len(fields) != 2 && len(fields) != 3 {
		return ClassKey{}, fmt.Errorf("%w %q: got %d fields, want 2 or 3", ErrMalformedKey, s, len(fields))
	}
	id, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return ClassKey{}, fmt.Errorf("%w %q: class id %q is not an integer", ErrMalformedKey, s, fields[0])
	}
	k := ClassKey{ID: id, Name: fields[1]}
	if len(fields) == 3 {
		k.Domain = fields[2]
		k.HasDomain = true
	}
	return k, nil
}

// NaturalName converts a raw class name into its display form: SUN paths
// are reversed ("a/airport" → "airport a"), DomainNet names lose their
// ",subclass" suffix, and underscores become spaces.
func (k Kind) NaturalName(raw string) string {
	switch k {
	case SUN:
		parts := strings.Split(raw, "/")
		for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
			parts[i], parts[j] = parts[j], parts[i]
		}
		raw = strings.Join(parts, " ")
	case DomainNet:
		raw, _, _ = strings.Cut(raw, ",")
	}
	return strings.ReplaceAll(raw, "_", " ")
}
