package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldSearchText lowercases s and strips diacritics so that "Điện thoại"
// and "dien thoai" compare equal. Stored in products.search_name and
// applied to search terms before matching.
func FoldSearchText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	// đ/Đ are distinct letters rather than d plus a combining mark
	folded = strings.NewReplacer("đ", "d", "Đ", "D").Replace(folded)
	return strings.ToLower(strings.Join(strings.Fields(folded), " "))
}
