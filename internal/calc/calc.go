// Package calc implements a four-operation integer calculator on arbitrary precision integers.
package calc

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var (
	ErrDivideByZero = errors.New("cannot divide by zero")
	ErrUnknownOp    = errors.New("unknown operation")
	ErrNotInteger   = errors.New("not a whole number")
)

type Op int

const (
	Add Op = iota
	Subtract
	Multiply
	Divide
)

// Ops returns all operations in display order.
func Ops() []Op {
	return []Op{Add, Subtract, Multiply, Divide}
}

func (op Op) Symbol() string {
	switch op {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	default:
		return "?"
	}
}

func (op Op) String() string {
	return op.Symbol()
}

func ParseOp(s string) (Op, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "+", "add":
		return Add, nil
	case "-", "subtract":
		return Subtract, nil
	case "*", "x", "multiply":
		return Multiply, nil
	case "/", "divide":
		return Divide, nil
	default:
		return 0, fmt.Errorf("calc: %w %q", ErrUnknownOp, s)
	}
}

func ParseOperand(s string) (*big.Int, error) {
	n, ok := (&big.Int{}).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil, fmt.Errorf("calc: %q: %w", s, ErrNotInteger)
	}
	return n, nil
}

// Apply returns a op b. Division rounds toward negative infinity.
// Neither a nor b is modified.
func Apply(op Op, a, b *big.Int) (*big.Int, error) {
	switch op {
	case Add:
		return big.NewInt(0).Add(a, b), nil
	case Subtract:
		return big.NewInt(0).Sub(a, b), nil
	case Multiply:
		return big.NewInt(0).Mul(a, b), nil
	case Divide:
		if b.Sign() == 0 {
			return nil, ErrDivideByZero
		}
		q, r := big.NewInt(0).QuoRem(a, b, big.NewInt(0))
		if r.Sign() != 0 && r.Sign() != b.Sign() {
			q.Sub(q, big.NewInt(1))
		}
		return q, nil
	default:
		return nil, fmt.Errorf("calc: %w %d", ErrUnknownOp, int(op))
	}
}
