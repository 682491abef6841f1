package projects

import "strings"

const (
	importNote         = "Project dibuat dari kode manual (HTML/CSS/JS) yang diimport oleh user."
	emptyBodyComment   = "<!-- Kode HTML belum diisi, hanya CSS/JS yang tersedia -->"
	importDocumentHead = "<!DOCTYPE html>\n" +
		"<html lang=\"id\">\n" +
		"<head>\n" +
		"<meta charset=\"UTF-8\">\n" +
		"<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n"
)

// MergeCode combines separately supplied HTML, CSS and JS into one document.
// A full document gets the CSS inlined before </head> and the JS before
// </body>. Anything else is wrapped into a minimal document.
func MergeCode(html, css, js string) string {
	styleTag, scriptTag := "", ""
	if css != "" {
		styleTag = "<style>\n" + css + "\n</style>\n"
	}
	if js != "" {
		scriptTag = "<script>\n" + js + "\n</script>\n"
	}

	if strings.Contains(html, "<html") {
		if styleTag != "" {
			if strings.Contains(html, "</head>") {
				html = strings.Replace(html, "</head>", styleTag+"</head>", 1)
			} else {
				html = styleTag + html
			}
		}
		if scriptTag != "" {
			if strings.Contains(html, "</body>") {
				html = strings.Replace(html, "</body>", scriptTag+"</body>", 1)
			} else {
				html += "\n" + strings.TrimSuffix(scriptTag, "\n")
			}
		}
		return html
	}

	body := html
	if body == "" {
		body = emptyBodyComment
	}
	return importDocumentHead +
		styleTag +
		"</head>\n" +
		"<body>\n" +
		body + "\n" +
		scriptTag +
		"</body>\n" +
		"</html>"
}
