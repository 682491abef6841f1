package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joestump/sitegen/internal/config"
	"github.com/joestump/sitegen/internal/generator"
	"github.com/joestump/sitegen/internal/llm"
	"github.com/joestump/sitegen/internal/logger"
	"github.com/joestump/sitegen/internal/projects"
)

func newGenerateCmd() *cobra.Command {
	var (
		in       projects.CreateInput
		sections string
		image    string
		out      string
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a single site and write it to a file or stdout",
		Example: `  sitegen generate --prompt "landing page for a bakery" --style playful --out index.html
  sitegen generate --name "Kue Ceria" --sections hero,pricing,contact --provider gemini`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := "production"
			if verbose {
				mode = "development"
			}
			log, err := logger.New(mode)
			if err != nil {
				return err
			}
			defer log.Sync()

			if sections != "" {
				in.Sections = strings.Split(sections, ",")
			}
			if image != "" {
				data, err := os.ReadFile(image)
				if err != nil {
					return fmt.Errorf("reading reference image: %w", err)
				}
				in.Image = &projects.Upload{Filename: filepath.Base(image), Data: data}
			}

			req, err := projects.BuildRequest(in)
			if err != nil {
				return err
			}

			cfg, err := config.LoadLLM()
			if err != nil {
				return err
			}
			gen := generator.New(llm.NewDispatcher(cfg, log), log)

			res, err := gen.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}
			log.Info("site generated",
				"provider", res.Provider,
				"model", res.ModelUsed,
				"persona", res.Persona,
				"bytes", len(res.HTML),
			)

			var w io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			_, err = io.WriteString(w, res.HTML)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.Prompt, "prompt", "", "free-form description of the site")
	f.StringVar(&in.WebsiteName, "name", "", "website or brand name")
	f.StringVar(&in.Description, "description", "", "what the business or project does")
	f.StringVar(&in.TargetAudience, "audience", "", "who the site is for")
	f.StringVar(&in.StyleTone, "style", "", "design persona such as playful, luxury, corporate, creative, minimalist, tech or modern")
	f.StringVar(&in.IconLibrary, "icons", "", "icon library to load")
	f.StringVar(&in.PrimaryColor, "primary", "", "primary hex color")
	f.StringVar(&in.SecondaryColor, "secondary", "", "secondary hex color")
	f.StringVar(&in.AccentColor, "accent", "", "accent hex color")
	f.StringVar(&sections, "sections", "", "comma separated section ids, in page order")
	f.StringVar(&in.Provider, "provider", "", "openrouter or gemini; defaults to the configured provider")
	f.StringVar(&in.Model, "model", "", "model override")
	f.StringVar(&image, "image", "", "path of a reference image")
	f.StringVarP(&out, "out", "o", "", "output file; stdout when empty")
	f.BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	return cmd
}
