package cli

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/xob0t/CardStencil/clients/server"
)

func (a *app) serveCommand() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API over HTTP",
		Long: `Serve the render API:

  GET    /api/health
  GET    /api/layout
  POST   /api/render        multipart: firstName, lastName, role, school, district, photo|photoId, format
  POST   /api/photos        multipart: file
  GET    /api/photos
  DELETE /api/photos/:id`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.validate(); err != nil {
				return err
			}
			if !cmd.Flags().Changed("port") {
				if p := os.Getenv("PORT"); p != "" {
					port = p
				}
			}
			if !a.verbose {
				gin.SetMode(gin.ReleaseMode)
			}

			s, err := server.New(a.cfg)
			if err != nil {
				return err
			}
			return s.Run(":" + port)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8080", "listen port (or $PORT)")
	return cmd
}
