// Package base62 implements the bijective mapping between link identifiers
// and short codes. The alphabet is URL-safe: unlike base64 it contains no
// '+' or '/', so encoded codes never need escaping in a path segment.
package base62

import (
	"errors"
	"math"
)

// Alphabet positions double as symbol values: '0' is 0, 'z' is 61.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const base = 62

// ErrInvalidInput is returned for negative identifiers, empty codes,
// codes containing characters outside the alphabet, and codes whose
// decoded value does not fit in an int64.
var ErrInvalidInput = errors.New("base62: invalid input")

var symbolValue [256]int8

func init() {
	for i := range symbolValue {
		symbolValue[i] = -1
	}

	for i := 0; i < len(alphabet); i++ {
		symbolValue[alphabet[i]] = int8(i)
	}
}

// Encode converts a non-negative identifier to its base-62 code.
// Encode(0) yields "0", never the empty string.
func Encode(id int64) (string, error) {
	if id < 0 {
		return "", ErrInvalidInput
	}

	if id == 0 {
		return alphabet[:1], nil
	}

	// 11 symbols cover every int64 (62^11 > 2^63).
	buf := make([]byte, 11)
	i := len(buf)

	for id > 0 {
		i--
		buf[i] = alphabet[id%base]
		id /= base
	}

	return string(buf[i:]), nil
}

// Decode converts a base-62 code back to its identifier. It accepts leading
// zero-symbol padding, so Decode is not the exact inverse of Encode over
// strings, only over identifiers: Decode(Encode(n)) == n for every n >= 0.
func Decode(code string) (int64, error) {
	if code == "" {
		return 0, ErrInvalidInput
	}

	var id int64

	for i := 0; i < len(code); i++ {
		v := symbolValue[code[i]]
		if v < 0 {
			return 0, ErrInvalidInput
		}

		if id > (math.MaxInt64-int64(v))/base {
			return 0, ErrInvalidInput
		}

		id = id*base + int64(v)
	}

	return id, nil
}

// IsValid reports whether s is non-empty and composed entirely of alphabet
// characters. It validates the character set of custom aliases, which never
// pass through Encode or Decode.
func IsValid(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		if symbolValue[s[i]] < 0 {
			return false
		}
	}

	return true
}
