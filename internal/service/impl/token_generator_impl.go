package impl

import (
	"crypto/rand"
	"fmt"
	"io"
)

const (
	SessionTokenLength = 32
	tokenAlphabet      = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	// largest multiple of len(tokenAlphabet) that fits in a byte; bytes at or
	// above it are rejected so every symbol is equally likely
	tokenByteLimit = 256 - 256%len(tokenAlphabet)
)

// RandomTokenGenerator draws tokens uniformly from the 62-symbol alphanumeric
// alphabet. The source is shared read-only; crypto/rand.Reader is safe for
// concurrent use.
type RandomTokenGenerator struct {
	src io.Reader
}

func NewRandomTokenGenerator(src io.Reader) *RandomTokenGenerator {
	if src == nil {
		src = rand.Reader
	}
	return &RandomTokenGenerator{src: src}
}

func (g *RandomTokenGenerator) Generate(length int) (string, error) {
	if length <= 0 {
		return "", ErrInvalidTokenLength
	}
	out := make([]byte, 0, length)
	buf := make([]byte, length+length/4+1)
	for len(out) < length {
		if _, err := io.ReadFull(g.src, buf); err != nil {
			return "", fmt.Errorf("read random source: %w", err)
		}
		for _, b := range buf {
			if int(b) >= tokenByteLimit {
				continue
			}
			out = append(out, tokenAlphabet[int(b)%len(tokenAlphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}
