package prompt

import (
	"fmt"
	"strings"
)

// Section is a named page region a generated site should contain.
type Section string

const (
	SectionNavbar       Section = "navbar"
	SectionHero         Section = "hero"
	SectionAbout        Section = "about"
	SectionServices     Section = "services"
	SectionFeatures     Section = "features"
	SectionPortfolio    Section = "portfolio"
	SectionTestimonials Section = "testimonials"
	SectionPricing      Section = "pricing"
	SectionTeam         Section = "team"
	SectionGallery      Section = "gallery"
	SectionFAQ          Section = "faq"
	SectionBlog         Section = "blog"
	SectionContact      Section = "contact"
	SectionFooter       Section = "footer"
)

var sectionLabels = map[Section]string{
	SectionNavbar:       "Navbar (Navigation Bar)",
	SectionHero:         "Hero Section (Main Banner)",
	SectionAbout:        "About Us Section",
	SectionServices:     "Services Section",
	SectionFeatures:     "Features Section",
	SectionPortfolio:    "Portfolio Section",
	SectionTestimonials: "Testimonials Section",
	SectionPricing:      "Pricing Section",
	SectionTeam:         "Team Section",
	SectionGallery:      "Gallery Section",
	SectionFAQ:          "FAQ Section",
	SectionBlog:         "Blog Section",
	SectionContact:      "Contact Section",
	SectionFooter:       "Footer Section",
}

// DefaultSections is used when a request form names no sections.
var DefaultSections = []Section{
	SectionNavbar, SectionHero, SectionAbout, SectionServices, SectionContact, SectionFooter,
}

// Label returns the human readable name used in prompts. Unknown kinds fall
// back to the identifier with its first letter upper-cased.
func (s Section) Label() string {
	if l, ok := sectionLabels[s]; ok {
		return l
	}
	str := string(s)
	if str == "" {
		return ""
	}
	return strings.ToUpper(str[:1]) + str[1:]
}

// Known reports whether s is one of the supported section kinds.
func (s Section) Known() bool {
	_, ok := sectionLabels[s]
	return ok
}

// ParseSections validates a list of section identifiers, preserving order.
func ParseSections(names []string) ([]Section, error) {
	out := make([]Section, 0, len(names))
	for _, n := range names {
		s := Section(strings.ToLower(strings.TrimSpace(n)))
		if s == "" {
			continue
		}
		if !s.Known() {
			return nil, fmt.Errorf("unknown section %q", n)
		}
		out = append(out, s)
	}
	return out, nil
}

// dedupeSections drops repeated kinds, keeping the first occurrence.
func dedupeSections(in []Section) []Section {
	seen := make(map[Section]bool, len(in))
	out := make([]Section, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
