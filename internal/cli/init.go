package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/xob0t/CardStencil/pkg/config"
)

func (a *app) initCommand() *cobra.Command {
	var (
		dir   string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample config and CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			files := []struct {
				name, content string
			}{
				{config.DefaultConfigFile, config.ExampleYAML()},
				{config.DefaultBatch().CSV, config.ExampleCSV()},
			}

			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			var created []string
			for _, f := range files {
				path := filepath.Join(dir, f.name)
				if !force {
					if _, err := os.Stat(path); err == nil {
						return fmt.Errorf("%s already exists (use --force)", path)
					} else if !errors.Is(err, fs.ErrNotExist) {
						return err
					}
				}
				if err := os.WriteFile(path, []byte(f.content), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				created = append(created, path)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created: %s, %s\n", created[0], created[1])
			fmt.Fprintf(out, "Add %s and a photos/ directory, then run: cardstencil generate\n", config.DefaultTemplate)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "directory to write into")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing files")
	return cmd
}
