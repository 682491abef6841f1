package persona

// FontPairing is the heading/body typeface pair for a persona along with the
// Google Fonts stylesheet that loads both.
type FontPairing struct {
	Heading       string
	Body          string
	StylesheetURL string
}

var fontPairings = map[Persona]FontPairing{
	Playful: {
		Heading:       "Comfortaa",
		Body:          "Nunito",
		StylesheetURL: "https://fonts.googleapis.com/css2?family=Comfortaa:wght@300;400;500;600;700&family=Nunito:wght@400;500;600;700;800&display=swap",
	},
	Luxury: {
		Heading:       "Playfair Display",
		Body:          "Cormorant Garamond",
		StylesheetURL: "https://fonts.googleapis.com/css2?family=Playfair+Display:wght@400;500;600;700;800&family=Cormorant+Garamond:wght@300;400;500;600;700&display=swap",
	},
	Corporate: {
		Heading:       "Inter",
		Body:          "Open Sans",
		StylesheetURL: "https://fonts.googleapis.com/css2?family=Inter:wght@400;500;600;700;800&family=Open+Sans:wght@400;500;600;700&display=swap",
	},
	Creative: {
		Heading:       "Bebas Neue",
		Body:          "Poppins",
		StylesheetURL: "https://fonts.googleapis.com/css2?family=Bebas+Neue&family=Poppins:wght@400;500;600;700;800&display=swap",
	},
	Minimalist: {
		Heading:       "Space Grotesk",
		Body:          "Work Sans",
		StylesheetURL: "https://fonts.googleapis.com/css2?family=Space+Grotesk:wght@400;500;600;700&family=Work+Sans:wght@400;500;600;700&display=swap",
	},
	Tech: {
		Heading:       "JetBrains Mono",
		Body:          "DM Sans",
		StylesheetURL: "https://fonts.googleapis.com/css2?family=JetBrains+Mono:wght@400;500;600;700&family=DM+Sans:wght@400;500;600;700&display=swap",
	},
	Modern: {
		Heading:       "Outfit",
		Body:          "Plus Jakarta Sans",
		StylesheetURL: "https://fonts.googleapis.com/css2?family=Outfit:wght@300;400;500;600;700;800&family=Plus+Jakarta+Sans:wght@400;500;600;700&display=swap",
	},
}

// Fonts returns the font pairing for p. Unknown personas get the Modern pairing.
func (p Persona) Fonts() FontPairing {
	if f, ok := fontPairings[p]; ok {
		return f
	}
	return fontPairings[Modern]
}

// StyleInstructions returns the visual direction paragraph for p.
func (p Persona) StyleInstructions() string {
	switch p {
	case Playful:
		return `Style: "Playful & Vibrant". Use soft rounded corners (rounded-2xl, rounded-3xl), pastel or bright colors, bouncy animations (bounce, scale), playful illustrations vibe, generous spacing. Typography: Comfortable and friendly.`
	case Luxury:
		return `Style: "High-End Luxury". Use gold/black or cream/charcoal palette. Uppercase tracking-widest typography. Thin 1px borders. Elegant transitions. Serif headings (Playfair Display) for sophistication. Minimal but impactful.`
	case Corporate:
		return `Style: "Trustworthy Enterprise". Use deep blues/greys, ample whitespace, strong headings (Inter) mixed with clean sans-serif body (Open Sans). Box-shadows should be soft and diffuse. Professional and trustworthy.`
	case Creative:
		return `Style: "Bold Creative Agency". Use heavy gradients, large typography (text-8xl), dark mode aesthetics, glassmorphism (backdrop-blur). Use abstract shapes in backgrounds. Bold and energetic.`
	case Minimalist:
		return `Style: "Swiss Design Minimalism". Strict grid usage, high contrast black/white, very little color usage (only for CTAs), massive whitespace. Clean geometric shapes.`
	case Tech:
		return `Style: "Modern Tech/SaaS". Think Linear.app, Stripe, or Vercel design. Subtle borders (border-white/10), gradients, soft glows, monospace headings for tech feel, rounded-xl components.`
	default:
		return `Style: "Modern & Clean". Think contemporary SaaS products. Subtle borders, gradients, soft glows, modern typography, rounded-xl components.`
	}
}
