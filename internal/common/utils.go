package common

import (
	"regexp"
	"strings"
)

// SplitLocation splits "City, Country" free text into its first and last
// comma-separated parts. Country is empty when there is no comma.
func SplitLocation(s string) (city, country string) {
	parts := strings.Split(s, ",")
	city = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		country = strings.TrimSpace(parts[len(parts)-1])
	}
	return city, country
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases s and replaces every run of non-alphanumerics with "-".
func Slug(s string) string {
	return strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// EqualFoldAny reports whether s equals any of the candidates, ignoring case.
func EqualFoldAny(s string, candidates ...string) bool {
	for _, c := range candidates {
		if c != "" && strings.EqualFold(s, c) {
			return true
		}
	}
	return false
}
