package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xob0t/CardStencil/pkg/batch"
	"github.com/xob0t/CardStencil/pkg/config"
)

func (a *app) layoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Print the effective configuration and its warnings",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.cfg.Marshal()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, string(data))

			warnings, verr := config.Validate(a.cfg)
			if tmpl, err := batch.LoadTemplate(a.cfg.Layout.Template); err == nil {
				warnings = append(warnings, config.CheckBounds(a.cfg.Layout, tmpl.Bounds())...)
			} else {
				warnings = append(warnings, fmt.Sprintf("template: %v", err))
			}

			errOut := cmd.ErrOrStderr()
			for _, w := range warnings {
				fmt.Fprintf(errOut, "Warning: %s\n", w)
			}
			return verr
		},
	}
}
