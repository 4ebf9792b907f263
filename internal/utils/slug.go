package utils

import (
	"regexp"
	"strings"
)

var (
	accentReplacer = strings.NewReplacer(
		"à", "a", "á", "a", "â", "a", "ã", "a", "ä", "a", "å", "a",
		"è", "e", "é", "e", "ê", "e", "ë", "e",
		"ì", "i", "í", "i", "î", "i", "ï", "i",
		"ò", "o", "ó", "o", "ô", "o", "õ", "o", "ö", "o",
		"ù", "u", "ú", "u", "û", "u", "ü", "u",
		"ç", "c",
	)
	nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	dashRuns = regexp.MustCompile(`-+`)
)

// Slugify turns a display name into a URL-safe slug. Portuguese accents are
// folded to their base letters before stripping.
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = accentReplacer.Replace(s)
	s = nonAlnum.ReplaceAllString(s, "-")
	s = dashRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
