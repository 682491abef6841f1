// Package prompt builds the system and user texts sent to an LLM provider for
// site generation and for surgical edits of an existing site.
package prompt

import (
	"bytes"
	_ "embed"
	"strconv"
	"strings"
	"text/template"

	"github.com/joestump/sitegen/internal/persona"
)

const (
	DefaultSecondaryColor = "#1f2937"
	DefaultAccentColor    = "#3b82f6"
)

// Palette is a set of brand colors as hex strings. Only Primary is required
// for the palette to take effect.
type Palette struct {
	Primary   string
	Secondary string
	Accent    string
}

// ReferenceImage is an optional design reference uploaded with a request.
// Data may be empty when the image was stored but not loaded for sending.
type ReferenceImage struct {
	Data     []byte
	MimeType string
	Path     string
}

// Request is everything the composer needs to describe one site.
type Request struct {
	RawPrompt      string
	StyleHint      persona.Persona
	Palette        *Palette
	Sections       []Section
	IconLibrary    string
	ReferenceImage *ReferenceImage
}

// Composed is the system/user text pair handed to a provider.
type Composed struct {
	System string
	User   string
}

var (
	//go:embed system.tmpl
	systemSrc string
	//go:embed user.tmpl
	userSrc string
	//go:embed improve_system.tmpl
	improveSystemSrc string
	//go:embed improve_user.tmpl
	improveUserSrc string

	funcs = template.FuncMap{
		"join": strings.Join,
		"inc":  func(i int) int { return i + 1 },
	}

	systemTmpl      = template.Must(template.New("system").Funcs(funcs).Parse(systemSrc))
	userTmpl        = template.Must(template.New("user").Funcs(funcs).Parse(userSrc))
	improveUserTmpl = template.Must(template.New("improve_user").Parse(improveUserSrc))
)

type systemData struct {
	Persona           persona.Persona
	StyleInstructions string
	Fonts             persona.FontPairing
	Palette           *Palette
	IconLibrary       string
	PhotoURLFormat    string
	PhotoCategories   []PhotoCategory
}

type userData struct {
	RawPrompt     string
	ReferenceNote bool
	IconLibrary   string
	Sections      []Section
}

// ComposeGeneration builds the prompt pair for a new site in persona p.
func ComposeGeneration(req Request, p persona.Persona) Composed {
	if !p.Valid() {
		p = persona.Modern
	}
	icon := IconLibraryLabel(req.IconLibrary)

	sys := systemData{
		Persona:           p,
		StyleInstructions: p.StyleInstructions(),
		Fonts:             p.Fonts(),
		Palette:           normalizePalette(req.Palette),
		IconLibrary:       icon,
		PhotoURLFormat:    PhotoURLFormat,
		PhotoCategories:   PhotoCategories,
	}
	usr := userData{
		RawPrompt:     req.RawPrompt,
		ReferenceNote: req.ReferenceImage != nil && len(req.ReferenceImage.Data) == 0,
		IconLibrary:   icon,
		Sections:      dedupeSections(req.Sections),
	}

	return Composed{
		System: render(systemTmpl, sys),
		User:   render(userTmpl, usr),
	}
}

// ComposeImprove builds the prompt pair for editing an existing document.
func ComposeImprove(existingHTML, instruction string) Composed {
	return Composed{
		System: improveSystemSrc,
		User: render(improveUserTmpl, struct {
			ExistingHTML string
			Instruction  string
		}{existingHTML, strings.TrimSpace(instruction)}),
	}
}

// normalizePalette fills defaults for a palette with a primary color and
// drops a palette without one.
func normalizePalette(p *Palette) *Palette {
	if p == nil || strings.TrimSpace(p.Primary) == "" {
		return nil
	}
	out := &Palette{
		Primary:   strings.TrimSpace(p.Primary),
		Secondary: strings.TrimSpace(p.Secondary),
		Accent:    strings.TrimSpace(p.Accent),
	}
	if out.Secondary == "" {
		out.Secondary = DefaultSecondaryColor
	}
	if out.Accent == "" {
		out.Accent = DefaultAccentColor
	}
	return out
}

// render executes one of the package templates. Template data is built here
// from plain strings so execution cannot fail once parsing has succeeded.
func render(t *template.Template, data any) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		panic("prompt: execute " + t.Name() + ": " + err.Error())
	}
	return buf.String()
}

var iconLabels = map[string]string{
	"fontawesome": "Font Awesome",
	"heroicons":   "Heroicons",
	"phosphor":    "Phosphor Icons",
	"lucide":      "Lucide Icons",
}

// IconLibraryLabel maps a form value onto a display name. Unknown values are
// passed through unchanged.
func IconLibraryLabel(s string) string {
	s = strings.TrimSpace(s)
	if l, ok := iconLabels[strings.ToLower(s)]; ok {
		return l
	}
	return s
}

// SectionList renders sections as the numbered "1. Label" lines used in the
// user prompt, after dropping repeats.
func SectionList(sections []Section) []string {
	sections = dedupeSections(sections)
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = strconv.Itoa(i+1) + ". " + s.Label()
	}
	return out
}
