// Package keys builds object-store keys for archived rankings.
package keys

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"tourism/internal/models"
)

const rankingPrefix = "rankings"

// sanitizeKey lowercases s and replaces anything other than letters,
// digits, '-' and '_' with '-'.
func sanitizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, s)
}

// Ranking returns the key for a ranking result:
// rankings/<category>/<yyyy-mm-dd>/<request id>.json, dated in UTC.
func Ranking(category models.Category, requestID string, at time.Time) string {
	return fmt.Sprintf("%s/%s/%s/%s.json",
		rankingPrefix,
		sanitizeKey(string(category)),
		at.UTC().Format(time.DateOnly),
		sanitizeKey(requestID),
	)
}
