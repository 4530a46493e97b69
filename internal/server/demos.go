package server

import (
	"fmt"
	"math/big"
	"net/url"
	"strconv"
	"strings"

	"dailies/internal/band"
	"dailies/internal/caesar"
	"dailies/internal/calc"
	"dailies/internal/tip"
)

type demo struct {
	// name keys the history bucket, the metrics label and the API path.
	name  string
	path  string
	title string
	// fields are the inputs kept in the run history.
	fields []string
	run    func(in url.Values) (string, error)
}

var demos = []*demo{
	{
		name:   "caesar",
		path:   "caesar-cipher",
		title:  "Caesar Cipher",
		fields: []string{"mode", "text", "shift"},
		run:    runCaesar,
	},
	{
		name:   "tip",
		path:   "tip-calculator",
		title:  "Tip Calculator",
		fields: []string{"bill", "percent", "people"},
		run:    runTip,
	},
	{
		name:   "band",
		path:   "band-name-generator",
		title:  "Band Name Generator",
		fields: []string{"city", "pet"},
		run:    runBand,
	},
	{
		name:   "calc",
		path:   "calculator",
		title:  "Calculator",
		fields: []string{"a", "op", "b"},
		run:    runCalc,
	},
}

type inputError struct {
	field   string
	message string
}

func (e *inputError) Error() string {
	return fmt.Sprintf("%s: %s", e.field, e.message)
}

func intField(in url.Values, name string, def int) (int, error) {
	s := strings.TrimSpace(in.Get(name))
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &inputError{field: name, message: "must be a whole number"}
	}
	return n, nil
}

func floatField(in url.Values, name string, def float64) (float64, error) {
	s := strings.TrimSpace(in.Get(name))
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &inputError{field: name, message: "must be a number"}
	}
	return v, nil
}

func runCaesar(in url.Values) (string, error) {
	mode := caesar.Encode
	if s := in.Get("mode"); s != "" {
		var err error
		if mode, err = caesar.ParseMode(s); err != nil {
			return "", &inputError{field: "mode", message: "must be Encode or Decode"}
		}
	}

	shift, err := intField(in, "shift", 0)
	if err != nil {
		return "", err
	}
	if !caesar.ValidShift(shift) {
		return "", &inputError{field: "shift", message: "must be between 0 and 25"}
	}

	return caesar.Run(in.Get("text"), shift, mode)
}

func runTip(in url.Values) (string, error) {
	total, err := floatField(in, "bill", 0)
	if err != nil {
		return "", err
	}
	percent, err := intField(in, "percent", tip.Percentages[0])
	if err != nil {
		return "", err
	}
	people, err := intField(in, "people", 1)
	if err != nil {
		return "", err
	}

	v, err := tip.PerPerson(tip.Bill{Total: total, Percent: percent, People: people})
	if err != nil {
		return "", err
	}
	return tip.FormatAmount(v), nil
}

func runBand(in url.Values) (string, error) {
	return band.Name(in.Get("city"), in.Get("pet"))
}

func operand(in url.Values, name string) (*big.Int, error) {
	s := strings.TrimSpace(in.Get(name))
	if s == "" {
		return big.NewInt(0), nil
	}
	n, err := calc.ParseOperand(s)
	if err != nil {
		return nil, &inputError{field: name, message: "must be a whole number"}
	}
	if n.Sign() < 0 {
		return nil, &inputError{field: name, message: "must not be negative"}
	}
	return n, nil
}

func runCalc(in url.Values) (string, error) {
	a, err := operand(in, "a")
	if err != nil {
		return "", err
	}
	b, err := operand(in, "b")
	if err != nil {
		return "", err
	}

	op := calc.Add
	if s := in.Get("op"); s != "" {
		if op, err = calc.ParseOp(s); err != nil {
			return "", &inputError{field: "op", message: "must be one of + - * /"}
		}
	}

	res, err := calc.Apply(op, a, b)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s %s = %s", a, op, b, res), nil
}
