package application

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// slugCharmap spells out symbols and letters that have no decomposition.
var slugCharmap = map[rune]string{
	'&': "and", '|': "or", '<': "less", '>': "greater",
	'$': "dollar", '%': "percent", '¢': "cent", '£': "pound", '¥': "yen", '€': "euro", '¤': "currency",
	'©': "c", '®': "r", '∞': "infinity", '♥': "love",
	'ß': "ss", 'æ': "ae", 'Æ': "ae", 'œ': "oe", 'Œ': "oe", 'ø': "o", 'Ø': "o",
	'đ': "d", 'Đ': "d", 'ł': "l", 'Ł': "l", 'þ': "th", 'Þ': "th", 'ð': "d", 'Ð': "d",
}

// Slugify derives a project slug: accents folded, mapped symbols spelled
// out, everything else outside [a-z0-9 ] dropped, lowercased, space runs
// joined with "-".
func Slugify(name string) string {
	folded, _, err := transform.String(foldAccents, name)
	if err != nil {
		folded = name
	}
	var b strings.Builder
	for _, r := range folded {
		if m, ok := slugCharmap[r]; ok {
			b.WriteString(m)
			continue
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return strings.Join(strings.Fields(b.String()), "-")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
