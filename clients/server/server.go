// Package server exposes card rendering over HTTP.
package server

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xob0t/CardStencil/pkg/batch"
	"github.com/xob0t/CardStencil/pkg/card"
	"github.com/xob0t/CardStencil/pkg/config"
	"github.com/xob0t/CardStencil/pkg/generator"
	"github.com/xob0t/CardStencil/pkg/logging"
	"github.com/xob0t/CardStencil/pkg/text"
)

const maxUpload = 10 << 20

// Server renders single cards against one decoded template.
type Server struct {
	cfg      *config.Config
	template image.Image
	fonts    *text.Library
	photos   *photoStore
}

// New loads the template named by cfg. A missing template is a
// TemplateMissing error.
func New(cfg *config.Config) (*Server, error) {
	tmpl, err := batch.LoadTemplate(cfg.Layout.Template)
	if err != nil {
		return nil, err
	}
	for _, w := range config.CheckBounds(cfg.Layout, tmpl.Bounds()) {
		logging.Logger().Warn("layout", "warning", w)
	}
	return &Server{
		cfg:      cfg,
		template: tmpl,
		fonts:    text.NewLibrary(text.DefaultChain(cfg.Layout.Fonts.System)...),
		photos:   newPhotoStore(),
	}, nil
}

// Handler returns the routed engine.
func (s *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	api := r.Group("/api")
	{
		api.GET("/health", s.health)
		api.GET("/layout", s.layout)
		api.POST("/render", s.render)
		api.POST("/photos", s.uploadPhoto)
		api.GET("/photos", s.listPhotos)
		api.DELETE("/photos/:id", s.deletePhoto)
	}
	return r
}

// Run serves on addr until the listener fails.
func (s *Server) Run(addr string) error {
	logging.Logger().Info("listening", "url", "http://localhost"+addr)
	if err := s.Handler().Run(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.Logger().Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) layout(c *gin.Context) {
	b := s.template.Bounds()
	c.JSON(http.StatusOK, gin.H{
		"layout":   s.cfg.Layout,
		"template": gin.H{"width": b.Dx(), "height": b.Dy()},
		"fonts":    text.BuiltinNames(),
		"formats":  generator.Extensions,
	})
}

// render accepts record fields as form values and an optional "photo" file
// or "photoId" of an uploaded photo, and responds with the encoded card.
func (s *Server) render(c *gin.Context) {
	rec := card.Record{
		Row:       1,
		FirstName: strings.TrimSpace(c.PostForm("firstName")),
		LastName:  strings.TrimSpace(c.PostForm("lastName")),
		Role:      strings.TrimSpace(c.PostForm("role")),
		School:    strings.TrimSpace(c.PostForm("school")),
		District:  strings.TrimSpace(c.PostForm("district")),
	}
	if rec.Anonymous() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "firstName or lastName is required"})
		return
	}

	ext := ".png"
	if f := c.DefaultPostForm("format", c.Query("format")); f != "" {
		ext = "." + strings.TrimPrefix(strings.ToLower(f), ".")
	}
	if !generator.Supported(ext) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported format %q", ext)})
		return
	}

	var photos card.PhotoSource = s.photos
	if fh, err := c.FormFile("photo"); err == nil {
		if fh.Size > maxUpload {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "photo too large"})
			return
		}
		data, err := readFormFile(c, "photo")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		rec.PhotoRef = fh.Filename
		photos = card.MemPhotos{fh.Filename: data}
	} else if id := c.PostForm("photoId"); id != "" {
		rec.PhotoRef = id
	}

	composer := card.NewComposer(s.cfg.Layout, s.fonts, photos)
	out, err := composer.Compose(rec, s.template)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := generator.Encode(&buf, ext, out.Image); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("X-Card-ID", out.ID)
	c.Header("X-Card-Photo", out.Photo.String())
	if c.Query("download") != "" {
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s%s"`, card.FileStem(rec), ext))
	}
	c.Data(http.StatusOK, contentType(ext), buf.Bytes())
}

func (s *Server) uploadPhoto(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file"})
		return
	}
	if fh.Size > maxUpload {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "photo too large"})
		return
	}
	data, err := readFormFile(c, "file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "not an image: " + err.Error()})
		return
	}

	a := s.photos.add(fh.Filename, contentType(filepath.Ext(fh.Filename)), data)
	c.JSON(http.StatusCreated, a)
}

func (s *Server) listPhotos(c *gin.Context) {
	c.JSON(http.StatusOK, s.photos.list())
}

func (s *Server) deletePhoto(c *gin.Context) {
	id := c.Param("id")
	if !s.photos.remove(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "id": id})
}

func readFormFile(c *gin.Context, field string) ([]byte, error) {
	f, _, err := c.Request.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxUpload))
}

var imageTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

func contentType(ext string) string {
	ext = strings.ToLower(ext)
	if t, ok := imageTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
