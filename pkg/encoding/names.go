// Package encoding provides text handling for MMD model names.
package encoding

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
	"golang.org/x/text/width"
)

// ShiftJISToUTF8 converts Shift-JIS encoded bytes (PMD names) to a UTF-8 string.
// Returns the original bytes as a string if conversion fails.
func ShiftJISToUTF8(data []byte) string {
	result, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

// UTF8ToShiftJIS converts a UTF-8 string to Shift-JIS bytes.
// Returns the original bytes if conversion fails.
func UTF8ToShiftJIS(s string) []byte {
	result, _, err := transform.Bytes(japanese.ShiftJIS.NewEncoder(), []byte(s))
	if err != nil {
		return []byte(s)
	}
	return result
}

// DecodeName returns s unchanged when it is valid UTF-8, otherwise decodes it
// as Shift-JIS. PMD files store names in Shift-JIS and some parsers pass
// them through undecoded.
func DecodeName(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return ShiftJISToUTF8([]byte(s))
}

// FoldName normalizes a bone or material name for matching: surrounding
// space is trimmed and full-width ASCII is folded to half-width, so "Ｈｅａｄ"
// and "Head" compare equal. Kana are left as they are.
func FoldName(s string) string {
	return strings.TrimSpace(width.Fold.String(s))
}
