package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/xob0t/CardStencil/pkg/batch"
	"github.com/xob0t/CardStencil/pkg/card"
	"github.com/xob0t/CardStencil/pkg/generator"
	"github.com/xob0t/CardStencil/pkg/text"
)

func (a *app) renderCommand() *cobra.Command {
	var (
		rec    card.Record
		photo  string
		output string
	)

	cmd := &cobra.Command{
		Use:     "render",
		Short:   "Render a single card from flags",
		Example: `  cardstencil render --first Ana --last Lopez --role Teacher --photo ana.jpg -o ana.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.validate(); err != nil {
				return err
			}
			rec.Row = 1
			if rec.Anonymous() {
				return fmt.Errorf("--first or --last is required")
			}

			var photos card.PhotoSource
			if photo != "" {
				photos = card.DirPhotos{Dir: filepath.Dir(photo)}
				rec.PhotoRef = filepath.Base(photo)
			}

			tmpl, err := batch.LoadTemplate(a.cfg.Layout.Template)
			if err != nil {
				return err
			}
			fonts := text.NewLibrary(text.DefaultChain(a.cfg.Layout.Fonts.System)...)
			out, err := card.NewComposer(a.cfg.Layout, fonts, photos).Compose(rec, tmpl)
			if err != nil {
				return err
			}

			if output == "" {
				output = card.FileStem(rec) + ".png"
			}
			if err := generator.Generate(output, out.Image); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved: %s (ID: %s, photo: %s)\n", output, out.ID, out.Photo)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&rec.FirstName, "first", "", "first name")
	f.StringVar(&rec.LastName, "last", "", "last name")
	f.StringVar(&rec.Role, "role", "", "role, drawn in the accent color")
	f.StringVar(&rec.School, "school", "", "school")
	f.StringVar(&rec.District, "district", "", "district")
	f.StringVar(&photo, "photo", "", "photo file")
	f.StringVarP(&output, "output", "o", "", "output file (.png, .jpg, .bmp, .tif); default FIRST_LAST.png")
	return cmd
}
