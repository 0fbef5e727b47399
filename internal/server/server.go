// Package server wires the portfolio page, its HTMX fragments and the
// per-view scroll endpoints into a gin engine.
package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/contact"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/ledger"
	"github.com/Zachkp/folio/internal/views"
)

//go:embed templates/*.html
var templateFS embed.FS

// SiteSource returns the content to render. content.Store implements it.
type SiteSource interface {
	Current() *content.Site
}

// StatsSource aggregates the page-view ledger.
type StatsSource interface {
	Stats(ctx context.Context, sections []string) (*ledger.Stats, error)
}

// Deps are the collaborators the routes need. Stats and Metrics are
// optional and their routes are only mounted when set.
type Deps struct {
	Site    SiteSource
	Views   *views.Manager
	Contact *contact.Service
	Stats   StatsSource
	Metrics http.Handler
	Logger  *zap.Logger

	StaticDir string
	ImagesDir string
}

type Server struct {
	engine  *gin.Engine
	site    SiteSource
	views   *views.Manager
	contact *contact.Service
	stats   StatsSource
	logger  *zap.Logger
}

// New builds the engine. gin's mode must be set by the caller beforehand.
func New(d Deps) (*Server, error) {
	if d.Site == nil || d.Views == nil || d.Contact == nil {
		return nil, errors.New("server: site, views and contact are required")
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		site:    d.Site,
		views:   d.Views,
		contact: d.Contact,
		stats:   d.Stats,
		logger:  d.Logger,
	}

	r := gin.New()
	r.Use(requestLogger(d.Logger), gin.CustomRecovery(recovery(d.Logger)))
	r.SetHTMLTemplate(tmpl)

	mountDir(r, "/static", d.StaticDir)
	mountDir(r, "/images", d.ImagesDir)

	r.GET("/", s.index)
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// HTMX fragments
	r.GET("/contact-form", s.contactForm)
	r.POST("/contact", s.submitContact)
	r.GET("/fragments/menu", s.menu)

	v := r.Group("/views/:id")
	v.GET("", s.viewState)
	v.POST("/layout", s.layout)
	v.POST("/scroll", s.scroll)
	v.POST("/intersect", s.intersect)
	v.DELETE("", s.closeView)
	v.POST("/close", s.closeView)

	if d.Stats != nil {
		r.GET("/stats/reach", s.reach)
	}
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics))
	}

	s.engine = r
	return s, nil
}

func (s *Server) Handler() http.Handler { return s.engine }

func mountDir(r *gin.Engine, prefix, dir string) {
	if dir == "" {
		return
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return
	}
	r.Static(prefix, dir)
}

var funcs = template.FuncMap{
	"seen": func(seen map[string]bool, region string) bool { return seen[region] },
}
