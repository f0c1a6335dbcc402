package font

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
)

// Encode converts text to GB2312 codes. Printable ASCII is promoted to its
// full-width form (row A3) and space to the ideographic space (A1A1) so that
// every character occupies one 16x16 cell.
func Encode(text string) ([]Code, error) {
	enc := simplifiedchinese.GBK.NewEncoder()
	codes := make([]Code, 0, utf8.RuneCountInString(text))
	for _, r := range text {
		r = fullWidth(r)
		b, err := enc.Bytes([]byte(string(r)))
		if err != nil || len(b) != 2 || b[0] < positionBase || b[1] < positionBase {
			return nil, fmt.Errorf("font: %q has no GB2312 code", r)
		}
		codes = append(codes, Code(b[0])<<8|Code(b[1]))
	}
	return codes, nil
}

// Decode returns the character for a GB2312 code.
func Decode(code Code) (rune, bool) {
	b, err := simplifiedchinese.GBK.NewDecoder().Bytes([]byte{code.High(), code.Low()})
	if err != nil {
		return 0, false
	}
	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError || size != len(b) {
		return 0, false
	}
	return r, true
}

func fullWidth(r rune) rune {
	switch {
	case r == ' ':
		return '　'
	case r > ' ' && r <= '~':
		return r - '!' + '！'
	}
	return r
}
