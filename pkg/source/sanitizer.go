// Package source prepares program text for the graph service and decorates
// graph sources with caching.
package source

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/actvis/pkg/domain"
)

var (
	// DefaultMaxTextSize is 64KB, enough for any hand-written program.
	DefaultMaxTextSize = 64 * 1024
	// EnvMaxTextSize is the environment variable to override the default.
	EnvMaxTextSize = "ACTVIS_MAX_TEXT_SIZE"
)

// SanitizeText cleans program text before it is sent to the graph service by
// enforcing a size limit, validating UTF-8 and stripping control characters.
// A limit of zero or less uses MaxTextSize.
func SanitizeText(text string, limit int) (string, error) {
	if limit <= 0 {
		limit = MaxTextSize()
	}
	if len(text) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", domain.ErrInputTooLarge, len(text), limit)
	}
	if !utf8.ValidString(text) {
		return "", domain.ErrInvalidUTF8
	}

	// Fast path: if no control chars, return as is.
	clean := true
	for _, r := range text {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if !clean {
		var b strings.Builder
		b.Grow(len(text))
		for _, r := range text {
			if !unicode.IsControl(r) || isSafeControl(r) {
				b.WriteRune(r)
			}
		}
		text = b.String()
	}

	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptySource
	}
	return text, nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

// MaxTextSize returns the size limit from the environment or the default.
func MaxTextSize() int {
	if val := os.Getenv(EnvMaxTextSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxTextSize
}
