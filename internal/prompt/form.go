package prompt

import "strings"

// Form is the structured request a user fills in. BuildDescription folds it
// into the single project description used as Request.RawPrompt.
type Form struct {
	WebsiteName    string
	Description    string
	TargetAudience string
	StyleTone      string
	IconLibrary    string
	Palette        Palette
	Sections       []Section
	Prompt         string
}

var styleToneLabels = map[string]string{
	"modern":       "modern dan minimalis",
	"professional": "profesional dan formal",
	"casual":       "casual dan friendly",
	"creative":     "creative dan bold",
	"elegant":      "elegant dan luxurious",
	"tech":         "tech dan futuristic",
}

var sectionShortLabels = map[Section]string{
	SectionNavbar:       "Navbar",
	SectionHero:         "Hero Section",
	SectionAbout:        "About Us",
	SectionServices:     "Services",
	SectionFeatures:     "Features",
	SectionPortfolio:    "Portfolio",
	SectionTestimonials: "Testimonials",
	SectionPricing:      "Pricing",
	SectionTeam:         "Team",
	SectionGallery:      "Gallery",
	SectionFAQ:          "FAQ",
	SectionBlog:         "Blog",
	SectionContact:      "Contact",
	SectionFooter:       "Footer",
}

// BuildDescription joins the populated form fields into one ". " separated
// project description. Empty fields are skipped.
func BuildDescription(f Form) string {
	var parts []string

	if v := strings.TrimSpace(f.WebsiteName); v != "" {
		parts = append(parts, "Nama website/brand: "+v)
	}
	if v := strings.TrimSpace(f.Description); v != "" {
		parts = append(parts, "Deskripsi: "+v)
	}
	if v := strings.TrimSpace(f.TargetAudience); v != "" {
		parts = append(parts, "Target audiens: "+v)
	}
	if v := strings.TrimSpace(f.StyleTone); v != "" {
		if l, ok := styleToneLabels[strings.ToLower(v)]; ok {
			v = l
		}
		parts = append(parts, "Style dan tone: "+v)
	}
	if v := strings.TrimSpace(f.IconLibrary); v != "" {
		parts = append(parts, "Icon library utama: "+IconLibraryLabel(v))
	}

	var colors []string
	if f.Palette.Primary != "" {
		colors = append(colors, "Primary: "+f.Palette.Primary)
	}
	if f.Palette.Secondary != "" {
		colors = append(colors, "Secondary: "+f.Palette.Secondary)
	}
	if f.Palette.Accent != "" {
		colors = append(colors, "Accent: "+f.Palette.Accent)
	}
	if len(colors) > 0 {
		parts = append(parts, "Color palette: "+strings.Join(colors, ", "))
	}

	if len(f.Sections) > 0 {
		names := make([]string, len(f.Sections))
		for i, s := range f.Sections {
			if l, ok := sectionShortLabels[s]; ok {
				names[i] = l
			} else {
				names[i] = string(s)
			}
		}
		parts = append(parts, "Section yang harus dibuat (dalam urutan ini): "+strings.Join(names, " → "))
	}

	if v := strings.TrimSpace(f.Prompt); v != "" {
		parts = append(parts, "Detail tambahan: "+v)
	}

	return strings.Join(parts, ". ")
}
