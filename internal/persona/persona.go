// Package persona picks a visual design persona for a site request.
package persona

import "strings"

// Persona is one of a closed set of visual design styles.
type Persona string

const (
	Playful    Persona = "playful"
	Luxury     Persona = "luxury"
	Corporate  Persona = "corporate"
	Creative   Persona = "creative"
	Minimalist Persona = "minimalist"
	Tech       Persona = "tech"
	Modern     Persona = "modern"
)

// keywordTable is scanned in order; on equal scores the earlier entry wins.
var keywordTable = []struct {
	persona  Persona
	keywords []string
}{
	{Playful, []string{"fun", "funny", "lucu", "ceria", "gembira", "warna-warni", "colorful", "playful", "main-main", "santai", "casual", "relax"}},
	{Luxury, []string{"mewah", "luxury", "premium", "high-end", "exclusive", "elite", "mahal", "berkelas", "elegant", "sophisticated", "refined"}},
	{Corporate, []string{"kantor", "corporate", "bisnis", "business", "profesional", "formal", "enterprise", "perusahaan", "resmi", "serius"}},
	{Creative, []string{"creative", "kreatif", "unik", "unique", "artistik", "artistic", "bold", "berani", "vibrant", "energik", "dynamic"}},
	{Minimalist, []string{"minimalis", "minimalist", "simple", "sederhana", "clean", "bersih", "swiss", "grid", "geometric"}},
	{Tech, []string{"tech", "teknologi", "futuristic", "modern", "digital", "cyber", "ai", "software", "startup", "saas"}},
}

// Select returns hint when it is set, otherwise the persona whose keywords
// occur most often in text. Keywords are counted as raw substrings, so "ai"
// also matches inside "detail". Text with no keyword hits yields Modern.
func Select(text string, hint Persona) Persona {
	if hint != "" {
		return hint
	}

	lower := strings.ToLower(text)
	best, bestScore := Modern, 0
	for _, entry := range keywordTable {
		score := 0
		for _, kw := range entry.keywords {
			score += strings.Count(lower, kw)
		}
		if score > bestScore {
			best, bestScore = entry.persona, score
		}
	}
	return best
}

// Scores reports the raw keyword score for every persona that matched text.
func Scores(text string) map[Persona]int {
	lower := strings.ToLower(text)
	out := make(map[Persona]int)
	for _, entry := range keywordTable {
		score := 0
		for _, kw := range entry.keywords {
			score += strings.Count(lower, kw)
		}
		if score > 0 {
			out[entry.persona] = score
		}
	}
	return out
}

var hintAliases = map[string]Persona{
	"professional": Corporate,
	"casual":       Playful,
	"elegant":      Luxury,
}

// ParseHint maps a style/tone value from a request form onto a persona. It
// returns "" for blank or unknown values so that Select falls back to
// keyword detection.
func ParseHint(s string) Persona {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	if p, ok := hintAliases[s]; ok {
		return p
	}
	p := Persona(s)
	if p.Valid() {
		return p
	}
	return ""
}

// Valid reports whether p is a member of the closed persona set.
func (p Persona) Valid() bool {
	switch p {
	case Playful, Luxury, Corporate, Creative, Minimalist, Tech, Modern:
		return true
	}
	return false
}

// All returns every persona in table order followed by the default.
func All() []Persona {
	out := make([]Persona, 0, len(keywordTable)+1)
	for _, entry := range keywordTable {
		out = append(out, entry.persona)
	}
	return append(out, Modern)
}
