// Package sanitize turns raw model output into a complete HTML document with
// the runtime assets the generated sites depend on.
package sanitize

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
)

const (
	TailwindScript    = `<script src="https://cdn.tailwindcss.com"></script>`
	FontAwesomeURL    = "https://cdnjs.cloudflare.com/ajax/libs/font-awesome/6.4.0/css/all.min.css"
	fontAwesomeLink   = `<link rel="stylesheet" href="` + FontAwesomeURL + `" />`
	scrollSmoothClass = "scroll-smooth"
)

const shellHead = "<head>\n" +
	"<meta charset=\"UTF-8\">\n" +
	"<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n" +
	"</head>"

const revealStyle = `<style>
.fade-up { opacity: 0; transform: translateY(24px); transition: opacity 0.6s ease-out, transform 0.6s ease-out; }
.fade-up.visible { opacity: 1; transform: none; }
</style>`

const revealScript = `<script>
document.addEventListener('DOMContentLoaded', function () {
    var btn = document.querySelector('button[id*="mobile"], button[class*="hamburger"]');
    var menu = document.querySelector('#mobile-menu, .mobile-menu');
    if (btn && menu) {
        btn.addEventListener('click', function () {
            menu.classList.toggle('hidden');
        });
    }

    var observer = new IntersectionObserver(function (entries) {
        entries.forEach(function (entry) {
            if (entry.isIntersecting) {
                entry.target.classList.add('visible');
            }
        });
    }, { threshold: 0.1 });

    document.querySelectorAll('section, .card, .bg-white, h1, h2, img').forEach(function (el) {
        if (!el.classList.contains('fade-up')) {
            el.classList.add('fade-up');
            observer.observe(el);
        }
    });
});
</script>`

var (
	reFence     = regexp.MustCompile("```[A-Za-z0-9_+-]*")
	reDoctype   = regexp.MustCompile(`(?i)<!doctype`)
	reDoctypeAt = regexp.MustCompile(`(?i)^<!doctype[^>]*>\s*`)
	reHTMLOpen  = regexp.MustCompile(`(?i)<html(\s[^>]*)?>`)
	reHTMLClose = regexp.MustCompile(`(?i)</html\s*>`)
	reHeadOpen  = regexp.MustCompile(`(?i)<head(\s[^>]*)?>`)
	reHeadClose = regexp.MustCompile(`(?i)</head\s*>`)
	reBodyOpen  = regexp.MustCompile(`(?i)<body(\s[^>]*)?>`)
	reBodyClose = regexp.MustCompile(`(?i)</body\s*>`)
	reAnyTag    = regexp.MustCompile(`<[A-Za-z!/]`)
	reClassAttr = regexp.MustCompile(`(?i)\sclass\s*=\s*("[^"]*"|'[^']*')`)

	// Stylesheet links some models emit for Tailwind. Only the CDN script works
	// with utility classes generated on the fly.
	reTailwindLinks = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<link[^>]*href=["']https://cdn\.jsdelivr\.net/npm/tailwindcss@[^"']+["'][^>]*>`),
		regexp.MustCompile(`(?i)<link[^>]*href=["']https://unpkg\.com/tailwindcss@[^"']+["'][^>]*>`),
		regexp.MustCompile(`(?i)<link[^>]*href=["']https://cdn\.tailwindcss\.com/[^"']+["'][^>]*>`),
	}
	reTailwindScript = regexp.MustCompile(`(?i)<script[^>]*src=["']https://cdn\.tailwindcss\.com[^"']*["'][^>]*>\s*</script>\s*`)
)

// Options tunes the assets injected by SanitizeWith.
type Options struct {
	// FontStylesheetURL is linked in the head when the document loads no
	// Google Fonts stylesheet of its own.
	FontStylesheetURL string
}

// Sanitize is SanitizeWith with zero Options.
func Sanitize(raw string) string {
	return SanitizeWith(raw, Options{})
}

// SanitizeWith never fails. Applying it to its own output returns the same text.
func SanitizeWith(raw string, opts Options) string {
	html := stripFences(raw)
	html = dropPreamble(html)
	html = dropTrailer(html)
	html = closeAfterBody(html)
	html = ensureShell(html)
	html = dedupeTailwind(html)

	if !containsFold(html, "cdn.tailwindcss.com") {
		html = injectHead(html, TailwindScript)
	}
	if !containsFold(html, "font-awesome") && !containsFold(html, "fontawesome") {
		html = injectHead(html, fontAwesomeLink)
	}
	if u := opts.FontStylesheetURL; u != "" && !containsFold(html, "fonts.googleapis.com") && !strings.Contains(html, u) {
		html = injectHead(html, `<link rel="stylesheet" href="`+u+`" />`)
	}
	if !strings.Contains(html, "IntersectionObserver") && !strings.Contains(html, "fade-up") {
		html = injectHead(html, revealStyle)
		html = injectBodyEnd(html, revealScript)
	}

	if !reHTMLClose.MatchString(html) {
		html += "\n</html>"
	}
	return html
}

// EnsureFrameworkScript adds the Tailwind CDN script to a stored document
// that has a head but lost the script, e.g. after a manual code edit.
func EnsureFrameworkScript(html string) string {
	if containsFold(html, "cdn.tailwindcss.com") || !reHeadOpen.MatchString(html) {
		return html
	}
	return injectHead(html, TailwindScript)
}

func stripFences(s string) string {
	return reFence.ReplaceAllString(s, "")
}

// dropPreamble discards commentary before the doctype, or before the root
// tag when there is no doctype.
func dropPreamble(s string) string {
	if loc := reDoctype.FindStringIndex(s); loc != nil {
		s = s[loc[0]:]
	} else if loc := reHTMLOpen.FindStringIndex(s); loc != nil {
		s = s[loc[0]:]
	}
	return strings.TrimSpace(s)
}

// dropTrailer leaves the last </html> at the very end. Prose after it is
// discarded; markup after it is moved inside the root element.
func dropTrailer(s string) string {
	loc := lastIndex(reHTMLClose, s)
	if loc == nil {
		return s
	}
	tail := s[loc[1]:]
	keep := ""
	if reAnyTag.MatchString(tail) {
		if i := strings.LastIndexByte(tail, '>'); i >= 0 {
			keep = strings.TrimSpace(tail[:i+1])
		}
	}
	if keep == "" {
		return s[:loc[1]]
	}
	return strings.TrimRight(s[:loc[0]], " \t\r\n") + "\n" + keep + "\n" + s[loc[0]:loc[1]]
}

func closeAfterBody(s string) string {
	if reHTMLClose.MatchString(s) {
		return s
	}
	loc := lastIndex(reBodyClose, s)
	if loc == nil {
		return s
	}
	return s[:loc[1]] + "\n</html>" + s[loc[1]:]
}

// ensureShell guarantees a doctype, a root tag carrying scroll-smooth and a
// head section.
func ensureShell(s string) string {
	if !reHTMLOpen.MatchString(s) {
		body := reDoctypeAt.ReplaceAllString(s, "")
		body = strings.TrimSpace(reHTMLClose.ReplaceAllString(body, ""))
		if body != "" && !reAnyTag.MatchString(body) {
			body = markdownToHTML(body)
		}
		if !reBodyOpen.MatchString(body) {
			body = "<body>\n" + body + "\n</body>"
		}
		s = `<html lang="id" class="` + scrollSmoothClass + `">` + "\n" + body + "\n</html>"
	}

	loc := reHTMLOpen.FindStringIndex(s)
	tag := withScrollSmooth(s[loc[0]:loc[1]])
	s = s[:loc[0]] + tag + s[loc[1]:]

	if !reHeadOpen.MatchString(s) {
		end := loc[0] + len(tag)
		s = s[:end] + "\n" + shellHead + s[end:]
	}

	if loc := reDoctype.FindStringIndex(s); loc == nil || strings.TrimSpace(s[:loc[0]]) != "" {
		s = "<!DOCTYPE html>\n" + s
	}
	return s
}

// markdownToHTML renders a reply that came back as Markdown instead of HTML.
// On failure the text is kept as is.
func markdownToHTML(s string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(s), &buf); err != nil {
		return s
	}
	return strings.TrimSpace(buf.String())
}

// withScrollSmooth adds the scroll-smooth class to an opening html tag.
func withScrollSmooth(tag string) string {
	m := reClassAttr.FindStringSubmatchIndex(tag)
	if m == nil {
		return tag[:len(tag)-1] + ` class="` + scrollSmoothClass + `">`
	}
	value := tag[m[2]+1 : m[3]-1]
	for _, c := range strings.Fields(value) {
		if c == scrollSmoothClass {
			return tag
		}
	}
	return tag[:m[2]+1] + scrollSmoothClass + " " + tag[m[2]+1:]
}

// dedupeTailwind removes stylesheet builds of Tailwind and every CDN script
// after the first.
func dedupeTailwind(s string) string {
	for _, re := range reTailwindLinks {
		s = re.ReplaceAllString(s, "")
	}
	seen := false
	return reTailwindScript.ReplaceAllStringFunc(s, func(m string) string {
		if seen {
			return ""
		}
		seen = true
		return m
	})
}

// injectHead places snippet just before </head>, or right after the opening
// head tag when the head is never closed.
func injectHead(s, snippet string) string {
	if loc := reHeadClose.FindStringIndex(s); loc != nil {
		return s[:loc[0]] + snippet + "\n" + s[loc[0]:]
	}
	if loc := reHeadOpen.FindStringIndex(s); loc != nil {
		return s[:loc[1]] + "\n" + snippet + s[loc[1]:]
	}
	return snippet + "\n" + s
}

func injectBodyEnd(s, snippet string) string {
	if loc := lastIndex(reBodyClose, s); loc != nil {
		return s[:loc[0]] + snippet + "\n" + s[loc[0]:]
	}
	if loc := lastIndex(reHTMLClose, s); loc != nil {
		return s[:loc[0]] + snippet + "\n</body>\n" + s[loc[0]:]
	}
	return s + "\n" + snippet + "\n</body>"
}

func lastIndex(re *regexp.Regexp, s string) []int {
	all := re.FindAllStringIndex(s, -1)
	if len(all) == 0 {
		return nil
	}
	return all[len(all)-1]
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
