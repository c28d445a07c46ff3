// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package slug

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// SuffixLength is the number of random characters appended to a slug
	SuffixLength = 6
	// MaxAttempts bounds collision retries
	MaxAttempts = 3
	// FallbackBase is used when a client name has no usable characters
	FallbackBase = "formulier"

	suffixChars = "0123456789abcdefghijklmnopqrstuvwxyz"
)

var ErrSlugGenerationExhausted = errors.New("could not generate unique slug")

// ExistsFunc reports whether a slug is already taken.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Generator produces unique slugs. Suffix may be replaced in tests.
type Generator struct {
	Exists ExistsFunc
	Suffix func() (string, error)
}

// NewGenerator returns a Generator using a crypto/rand suffix.
func NewGenerator(exists ExistsFunc) *Generator {
	return &Generator{Exists: exists, Suffix: RandomSuffix}
}

// Generate builds "<normalized-name>-<suffix>" and retries with a new
// suffix on collision, at most MaxAttempts times.
func (g *Generator) Generate(ctx context.Context, clientName string) (string, error) {
	base := Normalize(clientName)

	for attempt := 0; attempt < MaxAttempts; attempt++ {
		suffix, err := g.Suffix()
		if err != nil {
			return "", err
		}
		candidate := base + "-" + suffix

		taken, err := g.Exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w after %d attempts", ErrSlugGenerationExhausted, MaxAttempts)
}

// RandomSuffix returns SuffixLength lowercase alphanumeric characters.
// Bytes at or above the largest multiple of len(suffixChars) are
// discarded so every character is equally likely.
func RandomSuffix() (string, error) {
	return randomSuffix(rand.Read)
}

func randomSuffix(read func([]byte) (int, error)) (string, error) {
	limit := 256 - 256%len(suffixChars)
	out := make([]byte, 0, SuffixLength)
	buf := make([]byte, SuffixLength*2)
	for len(out) < SuffixLength {
		if _, err := read(buf); err != nil {
			return "", fmt.Errorf("failed to generate slug suffix: %w", err)
		}
		for _, c := range buf {
			if int(c) >= limit {
				continue
			}
			out = append(out, suffixChars[int(c)%len(suffixChars)])
			if len(out) == SuffixLength {
				break
			}
		}
	}
	return string(out), nil
}

// Characters NFD cannot split into base letter + mark.
var specials = strings.NewReplacer(
	"&", " en ",
	"ĳ", "ij", "Ĳ", "IJ",
	"ß", "ss",
	"æ", "ae", "Æ", "AE",
	"œ", "oe", "Œ", "OE",
	"ø", "o", "Ø", "O",
	"ł", "l", "Ł", "L",
	"đ", "d", "Đ", "D",
)

// Normalize turns a client name into a lowercase ASCII, hyphenated base.
//
//	Normalize("Café Ëlla & Zonen") == "cafe-ella-en-zonen"
func Normalize(name string) string {
	s := specials.Replace(name)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(t, s); err == nil {
		s = stripped
	}

	var sb strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			pendingDash = false
			sb.WriteRune(r)
			continue
		}
		pendingDash = true
	}

	if sb.Len() == 0 {
		return FallbackBase
	}
	return sb.String()
}
