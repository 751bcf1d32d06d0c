package billing

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"
)

// ErrNumberSpaceExhausted is returned when repeated draws keep colliding
// with existing numbers. With a six-digit random space this only happens
// under pathological data volume or a broken exists check.
var ErrNumberSpaceExhausted = errors.New("could not generate a unique number")

const maxNumberAttempts = 10

// RandomNumber returns an 8-character document number: the current
// two-digit year followed by six random digits. Uniqueness is the caller's
// concern; use UniqueNumber for server-assigned numbers.
func RandomNumber(now time.Time) (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	n := int(buf[0])<<24 | int(buf[1])<<16 | int(buf[2])<<8 | int(buf[3])
	if n < 0 {
		n = -n
	}
	return fmt.Sprintf("%02d%06d", now.Year()%100, n%1000000), nil
}

// UniqueNumber draws numbers until exists reports a free one, with a
// bounded number of attempts. Ticket and invoice numbers are assigned here
// on the server; clients only ever see the final value.
func UniqueNumber(now time.Time, exists func(number string) (bool, error)) (string, error) {
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		number, err := RandomNumber(now)
		if err != nil {
			return "", err
		}

		taken, err := exists(number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
	}
	return "", ErrNumberSpaceExhausted
}
