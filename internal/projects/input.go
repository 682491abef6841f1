package projects

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/joestump/sitegen/internal/llm"
	"github.com/joestump/sitegen/internal/persona"
	"github.com/joestump/sitegen/internal/prompt"
)

const (
	maxPromptLength      = 5000
	maxNameLength        = 255
	maxDescriptionLength = 1000
	maxShortFieldLength  = 50
	maxInstructionLength = 2000

	// MaxImageBytes bounds an uploaded reference image.
	MaxImageBytes = 5 << 20
)

var reHexColor = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// ValidationError reports one rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Upload is a file received with a request.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CreateInput is the form behind a new generated site.
type CreateInput struct {
	Prompt         string
	WebsiteName    string
	Description    string
	TargetAudience string
	StyleTone      string
	IconLibrary    string
	PrimaryColor   string
	SecondaryColor string
	AccentColor    string
	Sections       []string
	Provider       string
	Model          string
	Image          *Upload
}

// ImportInput is hand-written code turned into a project without a model call.
type ImportInput struct {
	WebsiteName string
	Description string
	IconLibrary string
	HTML        string
	CSS         string
	JS          string
}

// ImproveInput is a natural-language edit of a stored site.
type ImproveInput struct {
	Instruction string
	Provider    string
	Model       string
}

// validated is a CreateInput after checks, ready for the pipeline.
type validated struct {
	form     prompt.Form
	provider llm.Provider
	image    *Upload
}

// request builds the composer input for description, which is the form
// folded by prompt.BuildDescription.
func (v *validated) request(description string) prompt.Request {
	req := prompt.Request{
		RawPrompt:   description,
		StyleHint:   persona.ParseHint(v.form.StyleTone),
		Palette:     &v.form.Palette,
		Sections:    v.form.Sections,
		IconLibrary: v.form.IconLibrary,
	}
	if v.image != nil {
		req.ReferenceImage = &prompt.ReferenceImage{Data: v.image.Data, MimeType: v.image.ContentType}
	}
	return req
}

func (in CreateInput) validate() (*validated, error) {
	if strings.TrimSpace(in.Prompt) == "" && strings.TrimSpace(in.WebsiteName) == "" && strings.TrimSpace(in.Description) == "" {
		return nil, invalid("prompt", "describe the website, give it a name, or fill in the prompt")
	}
	for _, f := range []struct {
		name, value string
		max         int
	}{
		{"prompt", in.Prompt, maxPromptLength},
		{"website_name", in.WebsiteName, maxNameLength},
		{"description", in.Description, maxDescriptionLength},
		{"target_audience", in.TargetAudience, maxNameLength},
		{"style_tone", in.StyleTone, maxShortFieldLength},
		{"icon_library", in.IconLibrary, maxShortFieldLength},
	} {
		if err := maxLength(f.name, f.value, f.max); err != nil {
			return nil, err
		}
	}

	palette := prompt.Palette{
		Primary:   strings.TrimSpace(in.PrimaryColor),
		Secondary: strings.TrimSpace(in.SecondaryColor),
		Accent:    strings.TrimSpace(in.AccentColor),
	}
	for _, c := range []struct{ field, value string }{
		{"primary_color", palette.Primary},
		{"secondary_color", palette.Secondary},
		{"accent_color", palette.Accent},
	} {
		if c.value != "" && !reHexColor.MatchString(c.value) {
			return nil, invalid(c.field, "must be a hex color such as #3b82f6")
		}
	}

	sections, err := prompt.ParseSections(in.Sections)
	if err != nil {
		return nil, invalid("sections", "%v", err)
	}
	if len(sections) == 0 {
		sections = append([]prompt.Section(nil), prompt.DefaultSections...)
	}

	provider, err := llm.ParseProvider(in.Provider)
	if err != nil {
		return nil, invalid("provider", "%v", err)
	}

	image, err := checkImage(in.Image)
	if err != nil {
		return nil, err
	}

	return &validated{
		form: prompt.Form{
			WebsiteName:    in.WebsiteName,
			Description:    in.Description,
			TargetAudience: in.TargetAudience,
			StyleTone:      in.StyleTone,
			IconLibrary:    in.IconLibrary,
			Palette:        palette,
			Sections:       sections,
			Prompt:         in.Prompt,
		},
		provider: provider,
		image:    image,
	}, nil
}

func (in ImportInput) validate() error {
	if strings.TrimSpace(in.HTML) == "" && strings.TrimSpace(in.CSS) == "" && strings.TrimSpace(in.JS) == "" {
		return invalid("html_code", "provide at least one of HTML, CSS or JavaScript")
	}
	if err := maxLength("website_name", in.WebsiteName, maxNameLength); err != nil {
		return err
	}
	if err := maxLength("description", in.Description, maxDescriptionLength); err != nil {
		return err
	}
	return maxLength("icon_library", in.IconLibrary, maxShortFieldLength)
}

func (in ImproveInput) validate() (llm.Provider, error) {
	if strings.TrimSpace(in.Instruction) == "" {
		return "", invalid("improve_prompt", "is required")
	}
	if err := maxLength("improve_prompt", in.Instruction, maxInstructionLength); err != nil {
		return "", err
	}
	p, err := llm.ParseProvider(in.Provider)
	if err != nil {
		return "", invalid("provider", "%v", err)
	}
	return p, nil
}

func maxLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return invalid(field, "may not be longer than %d characters", max)
	}
	return nil
}

// checkImage accepts an absent upload, or an image of at most MaxImageBytes.
// The content type is sniffed when the client did not send one.
func checkImage(u *Upload) (*Upload, error) {
	if u == nil || len(u.Data) == 0 {
		return nil, nil
	}
	if len(u.Data) > MaxImageBytes {
		return nil, invalid("reference_image", "may not be larger than %d KiB", MaxImageBytes>>10)
	}
	ct := strings.TrimSpace(u.ContentType)
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(u.Data)
	}
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if !strings.HasPrefix(ct, "image/") {
		return nil, invalid("reference_image", "must be an image")
	}
	return &Upload{Filename: u.Filename, ContentType: ct, Data: u.Data}, nil
}
