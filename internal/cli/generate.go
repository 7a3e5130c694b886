package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xob0t/CardStencil/pkg/batch"
)

func (a *app) generateCommand() *cobra.Command {
	var (
		csvPath  string
		template string
		photos   string
		output   string
		workers  int
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render one card per CSV row",
		Long: `Render one card per CSV row into the output directory.

Rows without a first or last name are skipped. Missing photos leave the
template placeholder visible. A missing template aborts before any row.`,
		Example: `  cardstencil generate
  cardstencil generate --csv staff.csv --photos pics --out cards --workers 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			if f.Changed("csv") {
				a.cfg.Batch.CSV = csvPath
			}
			if f.Changed("template") {
				a.cfg.Layout.Template = template
			}
			if f.Changed("photos") {
				a.cfg.Batch.Photos = photos
			}
			if f.Changed("out") {
				a.cfg.Batch.Output = output
			}
			if f.Changed("workers") {
				a.cfg.Batch.Workers = workers
			}
			if err := a.validate(); err != nil {
				return err
			}

			sum, err := batch.Execute(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Done: %s\n", sum)
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "records CSV (default from config)")
	cmd.Flags().StringVar(&template, "template", "", "background template image")
	cmd.Flags().StringVar(&photos, "photos", "", "photo directory")
	cmd.Flags().StringVarP(&output, "out", "o", "", "output directory")
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "concurrent renders")
	return cmd
}
