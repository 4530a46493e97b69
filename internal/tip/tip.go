// Package tip splits a restaurant bill plus tip between a number of people.
package tip

import (
	"fmt"
	"math"
	"slices"
)

// Percentages are the tip choices offered to the user.
var Percentages = []int{10, 12, 15}

type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type Bill struct {
	Total   float64
	Percent int
	People  int
}

func (b Bill) Validate() error {
	if math.IsNaN(b.Total) || math.IsInf(b.Total, 0) || b.Total < 0 {
		return &FieldError{Field: "bill", Message: "must be a non-negative amount"}
	}
	if !slices.Contains(Percentages, b.Percent) {
		return &FieldError{Field: "percent", Message: fmt.Sprintf("must be one of %v", Percentages)}
	}
	if b.People < 1 {
		return &FieldError{Field: "people", Message: "must be at least 1"}
	}
	return nil
}

func PerPerson(b Bill) (float64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}

	tip := float64(b.Percent) / 100 * b.Total
	return (b.Total + tip) / float64(b.People), nil
}

func FormatAmount(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
