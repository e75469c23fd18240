package board

import (
	"strconv"
	"strings"
)

var namedColors = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"red":     "#ff0000",
	"green":   "#008000",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"orange":  "#ffa500",
	"purple":  "#800080",
	"pink":    "#ffc0cb",
	"gray":    "#808080",
	"grey":    "#808080",
	"cyan":    "#00ffff",
	"magenta": "#ff00ff",
}

// HexColor converts a stored filter color into "#rrggbb". Named colors are
// resolved, "#rgb" is expanded and hex values written without zero padding
// (as older stores contain) are left-padded. ok is false for anything else.
func HexColor(css string) (string, bool) {
	css = strings.ToLower(strings.TrimSpace(css))
	if hex, ok := namedColors[css]; ok {
		return hex, true
	}
	if !strings.HasPrefix(css, "#") {
		return "", false
	}
	digits := css[1:]
	if digits == "" || len(digits) > 6 {
		return "", false
	}
	if _, err := strconv.ParseUint(digits, 16, 32); err != nil {
		return "", false
	}
	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}
	return "#" + strings.Repeat("0", 6-len(digits)) + digits, true
}

// RGB splits a stored filter color into its components.
func RGB(css string) (r, g, b int, ok bool) {
	hex, ok := HexColor(css)
	if !ok {
		return 0, 0, 0, false
	}
	n, _ := strconv.ParseUint(hex[1:], 16, 32)
	return int(n >> 16 & 0xff), int(n >> 8 & 0xff), int(n & 0xff), true
}
