// Package id generates prefixed, URL-safe identifiers.
package id

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	size     = 24
)

// Generate returns a new identifier with the given type prefix, e.g.
// "ses_3kT9x...". It panics only if the system entropy source fails.
func Generate(prefix string) string {
	suffix, err := gonanoid.Generate(alphabet, size)
	if err != nil {
		panic("id: entropy source unavailable: " + err.Error())
	}
	return prefix + "_" + suffix
}
