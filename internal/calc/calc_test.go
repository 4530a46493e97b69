package calc

import (
	"errors"
	"fmt"
	"math/big"
	"testing"
)

func TestApply(t *testing.T) {
	for _, tc := range []struct {
		a, b int64
		op   Op
		want int64
	}{
		{7, 2, Add, 9},
		{7, 9, Subtract, -2},
		{7, 6, Multiply, 42},
		{7, 2, Divide, 3},
		{-7, 2, Divide, -4},
		{7, -2, Divide, -4},
		{-7, -2, Divide, 3},
		{6, 3, Divide, 2},
		{-6, 3, Divide, -2},
		{0, 5, Divide, 0},
	} {
		t.Run(fmt.Sprintf("%d%s%d", tc.a, tc.op, tc.b), func(t *testing.T) {
			a, b := big.NewInt(tc.a), big.NewInt(tc.b)
			have, err := Apply(tc.op, a, b)
			if err != nil {
				t.Fatal(err)
			}
			if have.Cmp(big.NewInt(tc.want)) != 0 {
				t.Fatalf("have %s, want %d", have, tc.want)
			}
			if a.Int64() != tc.a || b.Int64() != tc.b {
				t.Fatalf("Apply side effect: operands changed to %s, %s", a, b)
			}
		})
	}
}

func TestApplyBig(t *testing.T) {
	a, err := ParseOperand("123456789012345678901234567890")
	if err != nil {
		t.Fatal(err)
	}
	have, err := Apply(Multiply, a, a)
	if err != nil {
		t.Fatal(err)
	}
	if want := "15241578753238836750495351562536198787501905199875019052100"; have.String() != want {
		t.Fatalf("have %s, want %s", have, want)
	}
}

func TestDivideByZero(t *testing.T) {
	if _, err := Apply(Divide, big.NewInt(1), big.NewInt(0)); !errors.Is(err, ErrDivideByZero) {
		t.Fatalf("error = %v, want %v", err, ErrDivideByZero)
	}
}

func TestParseOp(t *testing.T) {
	for _, op := range Ops() {
		have, err := ParseOp(op.Symbol())
		if err != nil {
			t.Fatal(err)
		}
		if have != op {
			t.Fatalf("ParseOp(%s) = %s", op.Symbol(), have)
		}
	}
	if have, err := ParseOp("Divide"); err != nil || have != Divide {
		t.Fatalf("ParseOp(Divide) = %s, %v", have, err)
	}
	if _, err := ParseOp("%"); !errors.Is(err, ErrUnknownOp) {
		t.Fatalf("ParseOp(%%) error = %v, want %v", err, ErrUnknownOp)
	}
}

func TestParseOperand(t *testing.T) {
	for _, s := range []string{"", "1.5", "abc", "1e3"} {
		if _, err := ParseOperand(s); !errors.Is(err, ErrNotInteger) {
			t.Fatalf("ParseOperand(%q) error = %v, want %v", s, err, ErrNotInteger)
		}
	}
}
