package address

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// WardToken is the canonical prefix of every ward label.
const WardToken = "Phường"

var wardTokenLower = strings.ToLower(WardToken)

// Components splits a comma separated address into trimmed, non-empty parts.
func Components(addr string) []string {
	parts := strings.Split(norm.NFC.String(addr), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Ward extracts a normalized ward label such as "Phường Khuê Mỹ" from a
// freeform address like "Đường Mỹ Đa Tây 11, phường khuê mỹ, Ngũ Hành Sơn,
// Đà Nẵng". It reports false when no component names a ward.
func Ward(addr string) (string, bool) {
	if strings.TrimSpace(addr) == "" {
		return "", false
	}
	for _, part := range Components(addr) {
		lower := strings.ToLower(part)
		if !strings.Contains(lower, wardTokenLower) {
			continue
		}
		rest := strings.Fields(strings.Replace(lower, wardTokenLower, "", 1))
		if len(rest) == 0 {
			return "", false
		}
		// Caser keeps state, so one per call.
		title := cases.Title(language.Vietnamese)
		return WardToken + " " + title.String(strings.Join(rest, " ")), true
	}
	return "", false
}
