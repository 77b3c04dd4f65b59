// Package password maps seed bytes onto a character alphabet.
//
// Each output character is alphabet[b % len(alphabet)] with b taken cyclically from the
// seed. The mapping has a slight modulo bias whenever 256 is not a multiple of the
// alphabet size. It is kept as is: the firmware and every client derive the same string.
package password

import "strings"

const (
	Numbers   = "0123456789"
	Lowercase = "abcdefghijklmnopqrstuvwxyz"
	Uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Symbols   = "!@#$%^&*()_+-=[]{}|;:,.<>?"
)

var alphabets = [...]string{
	Numbers,
	Lowercase,
	Uppercase,
	Lowercase + Uppercase,
	Lowercase + Uppercase + Numbers,
	Lowercase + Uppercase + Numbers + Symbols,
}

// Alphabet returns the character set for a complexity code. Codes past 5 use the richest set.
func Alphabet(complexity int) string {
	if complexity < 0 || complexity >= len(alphabets) {
		return alphabets[len(alphabets)-1]
	}
	return alphabets[complexity]
}

// Derive returns exactly length characters, or "" when seed is empty.
func Derive(seed []byte, length, complexity int) string {
	if length <= 0 || len(seed) == 0 {
		return ""
	}
	charset := Alphabet(complexity)
	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		b := seed[i%len(seed)]
		sb.WriteByte(charset[int(b)%len(charset)])
	}
	return sb.String()
}
