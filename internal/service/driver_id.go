package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const driverIDLength = 3

// GenerateDriverID derives a driver code from the surname, the second word
// of the full name: its first three letters uppercased, anything outside
// A-Z dropped, padded with X.
func GenerateDriverID(fullName string) string {
	words := strings.Fields(fullName)
	surname := ""
	if len(words) > 1 {
		surname = words[1]
	}

	upper := strings.ToUpper(surname)
	if utf8.RuneCountInString(upper) > driverIDLength {
		upper = string([]rune(upper)[:driverIDLength])
	}

	var b strings.Builder
	for _, r := range upper {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
	}
	for b.Len() < driverIDLength {
		b.WriteByte('X')
	}
	return b.String()
}

// NextDriverID increments the code like an odometer over A-Z: the last
// letter advances and a Z wraps to A carrying into the letter on its left.
func NextDriverID(id string) string {
	b := []byte(id)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] == 'Z' {
			b[i] = 'A'
			continue
		}
		b[i]++
		break
	}
	return string(b)
}

// UniqueDriverID starts at base and advances with NextDriverID until exists
// reports a free code.
func UniqueDriverID(ctx context.Context, base string, exists func(context.Context, string) (bool, error)) (string, error) {
	id := base
	for attempts := 0; attempts < 26*26*26; attempts++ {
		taken, err := exists(ctx, id)
		if err != nil {
			return "", err
		}
		if !taken {
			return id, nil
		}
		id = NextDriverID(id)
	}
	return "", fmt.Errorf("no free driver code left after %s", base)
}

// AgeAt returns the number of whole years between birth and now
func AgeAt(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if !birthdayReached(now, birth) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

func birthdayReached(now, birth time.Time) bool {
	if now.Month() != birth.Month() {
		return now.Month() > birth.Month()
	}
	return now.Day() >= birth.Day()
}

// BirthCity keeps the part of a birthplace before the first comma
func BirthCity(place string) string {
	city, _, _ := strings.Cut(place, ",")
	return strings.TrimSpace(city)
}
