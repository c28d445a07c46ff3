// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package feedback

import (
	"errors"
	"strings"
)

// Rating keys accepted on submission
const (
	RatingGoed     = "goed"
	RatingKanBeter = "kan_beter"
	RatingSlecht   = "slecht"
)

var ErrInvalidRating = errors.New("invalid rating")

var ratingLabels = map[string]string{
	RatingGoed:     "Goed",
	RatingKanBeter: "Kan beter",
	RatingSlecht:   "Niet goed",
}

// RatingLabel returns the display label for a rating key.
func RatingLabel(rating string) (string, bool) {
	label, ok := ratingLabels[rating]
	return label, ok
}

// Encode combines an optional rating with free text into the stored form
// "[Label] text". The text is trimmed; a rating with no text yields
// "[Label]". An empty result means there is nothing to store.
func Encode(rating, text string) (string, error) {
	text = strings.TrimSpace(text)
	if rating == "" {
		return text, nil
	}

	label, ok := RatingLabel(rating)
	if !ok {
		return "", ErrInvalidRating
	}

	if text == "" {
		return "[" + label + "]", nil
	}
	return "[" + label + "] " + text, nil
}

// ParseRating splits stored feedback text back into rating key and text.
// Text without a known label prefix returns an empty rating.
func ParseRating(stored string) (rating, text string) {
	if !strings.HasPrefix(stored, "[") {
		return "", stored
	}
	end := strings.IndexByte(stored, ']')
	if end < 0 {
		return "", stored
	}

	label := stored[1:end]
	for key, l := range ratingLabels {
		if l == label {
			return key, strings.TrimSpace(stored[end+1:])
		}
	}
	return "", stored
}
