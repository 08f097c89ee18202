package preview

// AllowedKey reports whether a keystroke may trigger a fetch: digits and
// letters (48-90), the numeric keypad (96-111), backspace and tab (8-9),
// and the keys producing "=" (187), "." (190) and "/" (191).
func AllowedKey(code int) bool {
	switch {
	case code >= 48 && code <= 90:
		return true
	case code >= 96 && code <= 111:
		return true
	case code == 8 || code == 9:
		return true
	case code == 187 || code == 190 || code == 191:
		return true
	}
	return false
}
