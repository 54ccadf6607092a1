package request

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/lcdrotator/pkg/rotator"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Request
	}{
		{
			name:  "key request with pairs",
			input: "AllDisks key root=/,md0=/data,home=/home",
			want: Request{
				Name:   "AllDisks",
				Kind:   rotator.KindKey,
				Keys:   []string{"root", "md0", "home"},
				Values: map[string]string{"root": "/", "md0": "/data", "home": "/home"},
			},
		},
		{
			name:  "value request without pairs",
			input: "AllDisks value",
			want:  Request{Name: "AllDisks", Kind: rotator.KindValue},
		},
		{
			name:  "type is case-insensitive",
			input: "Test KEY foo=bar",
			want: Request{
				Name:   "Test",
				Kind:   rotator.KindKey,
				Keys:   []string{"foo"},
				Values: map[string]string{"foo": "bar"},
			},
		},
		{
			name:  "unknown type is carried through",
			input: "Test count",
			want:  Request{Name: "Test", Kind: rotator.Kind("count")},
		},
		{
			name:  "trailing newline is trimmed",
			input: "Test value\n",
			want:  Request{Name: "Test", Kind: rotator.KindValue},
		},
		{
			name:  "extra tokens are ignored",
			input: "Test key a=1 trailing junk",
			want: Request{
				Name:   "Test",
				Kind:   rotator.KindKey,
				Keys:   []string{"a"},
				Values: map[string]string{"a": "1"},
			},
		},
		{
			name:  "empty value is allowed",
			input: "Test key a=",
			want: Request{
				Name:   "Test",
				Kind:   rotator.KindKey,
				Keys:   []string{"a"},
				Values: map[string]string{"a": ""},
			},
		},
		{
			name:  "repeated key keeps first position and last value",
			input: "Test key a=1,b=2,a=3",
			want: Request{
				Name:   "Test",
				Kind:   rotator.KindKey,
				Keys:   []string{"a", "b"},
				Values: map[string]string{"a": "3", "b": "2"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason string
	}{
		{"empty input", "", "expected NAME TYPE"},
		{"missing type", "AllDisks", "expected NAME TYPE"},
		{"leading space", " key", "empty name"},
		{"pair without equals", "Test key foo", `pair "foo"`},
		{"pair with two equals", "Test key a=b=c", `pair "a=b=c"`},
		{"empty pair token", "Test key ", `pair ""`},
		{"trailing comma", "Test key a=1,", `pair ""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParse))

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.input, perr.Input)
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestParse_FreshContainers(t *testing.T) {
	a, err := Parse("Test key a=1")
	require.NoError(t, err)
	b, err := Parse("Test key a=1")
	require.NoError(t, err)

	a.Values["a"] = "changed"
	a.Keys[0] = "changed"
	assert.Equal(t, "1", b.Values["a"])
	assert.Equal(t, "a", b.Keys[0])
}

func TestRequest_String(t *testing.T) {
	req, err := Parse("AllDisks KEY root=/,md0=/data")
	require.NoError(t, err)
	assert.True(t, req.HasPairs())
	assert.Equal(t, "AllDisks key root=/,md0=/data", req.String())

	bare := Request{Name: "AllDisks", Kind: rotator.KindValue}
	assert.False(t, bare.HasPairs())
	assert.Equal(t, "AllDisks value", bare.String())
}
