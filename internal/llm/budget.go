package llm

import (
	"strings"
	"unicode/utf8"
)

const (
	// charsPerUnit is the average number of characters per model token.
	charsPerUnit = 3.5

	// minTruncatedLength is the shortest user text worth sending after a cut.
	minTruncatedLength = 1000

	TruncationNotice = "\n\n[Catatan: Prompt dipotong karena terlalu panjang. Silakan gunakan prompt yang lebih singkat untuk hasil optimal.]"
)

// EstimateUnits approximates the token count of s.
func EstimateUnits(s string) int {
	return int(float64(len(s)) / charsPerUnit)
}

// Truncate shortens user so that EstimateUnits(system)+EstimateUnits(user)
// stays within ceiling, appending TruncationNotice. The system text is never
// touched. It reports whether a cut was made; when the remaining room would be
// under minTruncatedLength characters the user text is returned unchanged.
func Truncate(system, user string, ceiling int) (string, bool) {
	if ceiling <= 0 {
		return user, false
	}
	sysUnits := EstimateUnits(system)
	if sysUnits+EstimateUnits(user) <= ceiling {
		return user, false
	}

	maxUser := int(float64(ceiling-sysUnits) * charsPerUnit)
	keep := maxUser - len(TruncationNotice)
	if keep <= minTruncatedLength || keep >= len(user) {
		return user, false
	}

	// Back off to a rune boundary so the cut never splits a character.
	for keep > 0 && !utf8.RuneStart(user[keep]) {
		keep--
	}
	var b strings.Builder
	b.Grow(keep + len(TruncationNotice))
	b.WriteString(user[:keep])
	b.WriteString(TruncationNotice)
	return b.String(), true
}
