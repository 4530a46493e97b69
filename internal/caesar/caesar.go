// Package caesar provides the Caesar shift cipher over the lowercase latin alphabet.
package caesar

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

const Alphabet = "abcdefghijklmnopqrstuvwxyz"

var (
	ErrEmptyMessage = errors.New("please enter some text")
	ErrUnknownMode  = errors.New("unknown mode")
)

type Mode int

const (
	Encode Mode = iota
	Decode
)

func (m Mode) String() string {
	switch m {
	case Encode:
		return "Encode"
	case Decode:
		return "Decode"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "encode":
		return Encode, nil
	case "decode":
		return Decode, nil
	default:
		return 0, fmt.Errorf("caesar: %w %q", ErrUnknownMode, s)
	}
}

// ValidShift reports whether n is a shift the front ends accept.
func ValidShift(n int) bool {
	return 0 <= n && n < len(Alphabet)
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}

// Transform folds message to lowercase and rotates every letter of Alphabet
// by shift positions, forward for Encode and backward for Decode.
// Any other rune is kept as folded. The rune count never changes.
func Transform(message string, shift int, mode Mode) string {
	// Reduce before negating so math.MinInt stays correct.
	shift = mod(shift, len(Alphabet))
	switch mode {
	case Encode:
	case Decode:
		shift = len(Alphabet) - shift
	default:
		panic(fmt.Errorf("caesar: %w %d", ErrUnknownMode, int(mode)))
	}

	out := &strings.Builder{}
	out.Grow(len(message))

	for _, r := range message {
		r = unicode.ToLower(r)
		if 'a' <= r && r <= 'z' {
			r = rune(Alphabet[mod(int(r-'a')+shift, len(Alphabet))])
		}
		out.WriteRune(r)
	}
	return out.String()
}

// Run is Transform with the form check applied: blank messages are rejected.
func Run(message string, shift int, mode Mode) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", ErrEmptyMessage
	}
	return Transform(message, shift, mode), nil
}
