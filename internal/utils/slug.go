package utils

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reHyphen   = regexp.MustCompile(`-+`)
)

// SlugMaxLen caps generated slugs.
const SlugMaxLen = 100

// Slugify turns free text into [a-z0-9-]: diacritics are stripped, runs of
// anything else collapse to one "-", and the ends are trimmed. It returns
// "" when nothing usable remains.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var buf []rune
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		buf = append(buf, r)
	}
	s = string(buf)

	s = reNonAlnum.ReplaceAllString(s, "-")
	s = reHyphen.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if utf8.RuneCountInString(s) > SlugMaxLen {
		s = strings.Trim(s[:SlugMaxLen], "-")
	}
	return s
}
