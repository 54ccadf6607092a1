// Package request parses the freeform strings a display poller sends.
//
// The grammar is
//
//	NAME TYPE [KEY=VALUE[,KEY=VALUE...]]
//
// with tokens separated by single spaces. TYPE is matched case-insensitively.
// The optional third token only matters on the first request for NAME; the
// parser still reads it on every request and leaves the decision to the
// rotator.
package request

import (
	"errors"
	"fmt"
	"strings"

	"github.com/systmms/lcdrotator/pkg/rotator"
)

// ErrParse matches every error returned by Parse
var ErrParse = errors.New("malformed request")

// ParseError describes why a request string was rejected
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed request %q: %s", e.Input, e.Reason)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// Request is a parsed poller request. Keys and Values are nil when the
// request carries no KEY=VALUE token.
type Request struct {
	Name   string
	Kind   rotator.Kind
	Keys   []string
	Values map[string]string
}

// HasPairs reports whether the request carried a KEY=VALUE token
func (r Request) HasPairs() bool {
	return r.Keys != nil
}

// Parse splits input into a Request
func Parse(input string) (Request, error) {
	line := strings.TrimRight(input, "\r\n")
	sections := strings.Split(line, " ")

	if len(sections) < 2 {
		return Request{}, &ParseError{Input: input, Reason: "expected NAME TYPE [KEY=VALUE,...]"}
	}
	if sections[0] == "" {
		return Request{}, &ParseError{Input: input, Reason: "empty name"}
	}

	req := Request{
		Name: sections[0],
		Kind: rotator.ParseKind(sections[1]),
	}

	if len(sections) > 2 {
		keys, values, err := parsePairs(sections[2])
		if err != nil {
			return Request{}, &ParseError{Input: input, Reason: err.Error()}
		}
		req.Keys = keys
		req.Values = values
	}

	return req, nil
}

func parsePairs(token string) ([]string, map[string]string, error) {
	pairs := strings.Split(token, ",")
	keys := make([]string, 0, len(pairs))
	values := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		parts := strings.Split(pair, "=")
		if len(parts) != 2 {
			return nil, nil, fmt.Errorf("pair %q must be KEY=VALUE", pair)
		}
		key, value := parts[0], parts[1]
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = value
	}

	return keys, values, nil
}

// String renders the request back into the wire grammar. Pairs are written
// in key order.
func (r Request) String() string {
	var b strings.Builder
	b.WriteString(r.Name)
	b.WriteByte(' ')
	b.WriteString(r.Kind.String())
	if r.HasPairs() {
		b.WriteByte(' ')
		for i, key := range r.Keys {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(key)
			b.WriteByte('=')
			b.WriteString(r.Values[key])
		}
	}
	return b.String()
}
