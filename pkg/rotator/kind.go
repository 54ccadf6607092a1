package rotator

import "strings"

// Kind selects which half of a key/value pair a request wants
type Kind string

const (
	// KindKey asks for the next key in the rotation
	KindKey Kind = "key"
	// KindValue asks for the value paired with the pending key
	KindValue Kind = "value"
)

// ParseKind normalizes a request type token. Matching is case-insensitive
// and unknown kinds are returned as-is so a Rotator can ignore them.
func ParseKind(s string) Kind {
	return Kind(strings.ToLower(s))
}

// Supported reports whether k is one of the two request kinds a Rotator serves
func (k Kind) Supported() bool {
	return k == KindKey || k == KindValue
}

func (k Kind) String() string {
	return string(k)
}
