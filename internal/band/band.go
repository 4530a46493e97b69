// Package band generates band names from a city and a pet name.
package band

import "errors"

var ErrMissingField = errors.New("please fill in both fields")

func Name(city, pet string) (string, error) {
	if city == "" || pet == "" {
		return "", ErrMissingField
	}
	return city + " " + pet, nil
}
