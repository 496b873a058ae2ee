// Package xorcipher implements the toy XOR obfuscation used to shroud
// page payloads in transit. It is symmetric, keyed by a single byte,
// and not cryptography; it exists to demonstrate payload transforms.
package xorcipher

import (
	"errors"
	"unicode/utf8"
)

// DefaultKey is the key applied when callers do not supply one.
const DefaultKey byte = 0x55

// ErrInvalidUTF8 is returned by Decrypt when the decrypted bytes do
// not form valid UTF-8 text, the usual sign of a key mismatch.
var ErrInvalidUTF8 = errors.New("decrypted data is not valid utf-8")

// Encrypt obscures text by XOR-ing every byte with key. The result is
// raw bytes; encode it before placing it anywhere that expects text.
func Encrypt(text string, key byte) []byte {
	out := make([]byte, len(text))
	for i := 0; i < len(text); i++ {
		out[i] = text[i] ^ key
	}
	return out
}

// Decrypt reverses Encrypt with the same key and validates that the
// result is UTF-8 text.
func Decrypt(data []byte, key byte) (string, error) {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ key
	}
	if !utf8.Valid(out) {
		return "", ErrInvalidUTF8
	}
	return string(out), nil
}
