package utils

// IsSpace reports whether r is whitespace or a line terminator in the
// ECMAScript sense. It differs from unicode.IsSpace on U+0085 (not space)
// and U+FEFF (space). Tokenizing and number scanning both use it so they
// agree on where words end.
func IsSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', 0x00A0, 0x1680, 0x2028, 0x2029, 0x202F, 0x205F, 0x3000, 0xFEFF:
		return true
	}
	return r >= 0x2000 && r <= 0x200A
}
