// Package enum implements text encoding for the closed enumerations stored as
// plain strings by the backend.
package enum

import "fmt"

// Name returns the storage name of e, or a diagnostic for out-of-range values.
func Name[E ~int](e E, names []string, kind string) string {
	if int(e) < 0 || int(e) >= len(names) {
		return fmt.Sprintf("%s(%d)", kind, int(e))
	}
	return names[e]
}

// Marshal encodes e, rejecting values outside the enumeration.
func Marshal[E ~int](e E, names []string, kind string) ([]byte, error) {
	if int(e) < 0 || int(e) >= len(names) {
		return nil, fmt.Errorf("invalid %s %d", kind, int(e))
	}
	return []byte(names[e]), nil
}

// Parse decodes text, failing on any value not in names.
func Parse[E ~int](text []byte, names []string, kind string) (E, error) {
	for i, name := range names {
		if name == string(text) {
			return E(i), nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, text)
}
