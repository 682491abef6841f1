package llm

import "strings"

var visionModels = map[Provider][]string{
	ProviderOpenRouter: {"gpt-4-vision", "gpt-4o", "claude-3", "claude-3.5"},
	ProviderGemini:     {"gemini"},
}

// SupportsVision reports whether model accepts inline images on provider.
func SupportsVision(p Provider, model string) bool {
	m := strings.ToLower(model)
	for _, v := range visionModels[p] {
		if strings.Contains(m, v) {
			return true
		}
	}
	return false
}

const geminiMaxOutputTokens = 32768

// MaxOutputTokens returns the output cap sent with a request for model.
func MaxOutputTokens(p Provider, model string) int {
	if p == ProviderGemini {
		return geminiMaxOutputTokens
	}
	m := strings.ToLower(model)
	switch {
	case strings.Contains(m, "nova"):
		return 15000
	case strings.Contains(m, "claude"):
		return 8000
	case strings.Contains(m, "gpt-4"):
		return 8000
	default:
		return 16000
	}
}

const imageAnalysisNote = "\n\nANALISA GAMBAR REFERENSI:\n" +
	"Gambar referensi telah disertakan. Analisa gambar ini secara detail dan gunakan sebagai referensi untuk:\n" +
	"- Layout dan struktur halaman (grid, spacing, alignment)\n" +
	"- Skema warna dan palet (extract warna dominan dari gambar)\n" +
	"- Gaya visual dan estetika (modern, minimalis, bold, dll)\n" +
	"- Komposisi elemen (card design, button style, typography)\n" +
	"- Mood dan tone desain (professional, playful, elegant, dll)\n\n" +
	"Pastikan website yang dihasilkan mencerminkan gaya visual dari gambar referensi ini."

const referenceImageNote = "\n\nREFERENCE IMAGE:\n" +
	"User telah mengupload gambar referensi untuk desain. Gunakan gambar referensi ini sebagai inspirasi untuk layout, warna, gaya visual, dan komposisi elemen."
