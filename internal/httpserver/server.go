package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tinytelemetry/quickstart/internal/host"
	"github.com/tinytelemetry/quickstart/internal/model"
	"github.com/tinytelemetry/quickstart/internal/pages"
)

// Controller is the panel contract required by the HTTP API.
type Controller interface {
	model.Controller
	SetExplorePanel(page host.Page) error
	SetCustomExplore(title, url string) error
	URLModel() ([]string, error)
	SubmitTarget(raw string) error
}

// Server provides an HTTP API for driving the quick start panel.
type Server struct {
	addr      string
	panel     Controller
	log       logrus.FieldLogger
	server    *http.Server
	boundAddr string
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new HTTP API server.
func NewServer(addr string, panel Controller, log logrus.FieldLogger) *Server {
	if addr == "" {
		addr = "127.0.0.1:3000"
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:      addr,
		panel:     panel,
		log:       log.WithField("component", "httpserver"),
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.routes(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.startTime = time.Now()
	s.boundAddr = listener.Addr().String()
	s.log.WithField("addr", s.boundAddr).Info("http api listening")

	go s.server.Serve(listener)
	return nil
}

// Addr returns the bound address once started, or the configured one.
func (s *Server) Addr() string {
	if s.boundAddr != "" {
		return s.boundAddr
	}
	return s.addr
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/pages", s.handlePages)
	api.GET("/active", s.handleActive)
	api.POST("/activate", s.handleActivate)
	api.POST("/press", s.handlePress)
	api.POST("/home", s.handleHome)
	api.GET("/spiders", s.handleSpiders)
	api.POST("/spiders", s.handleAddSpider)
	api.DELETE("/spiders/:id", s.handleRemoveSpider)
	api.GET("/options", s.handleOptions)
	api.PUT("/options", s.handleSetOptions)
	api.PUT("/explore", s.handleSetExplore)
	api.DELETE("/explore", s.handleClearExplore)
	api.GET("/targets", s.handleTargets)
	api.POST("/targets", s.handleSubmitTarget)
	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
		"active": s.panel.Active(),
	})
}

func (s *Server) handlePages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"pages": s.panel.Pages()})
}

func (s *Server) handleActive(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"active": s.panel.Active()})
}

func (s *Server) handleActivate(c *gin.Context) {
	var req struct {
		Page string `json:"page" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body or missing page field"})
		return
	}
	active, err := s.panel.Activate(model.PageID(req.Page))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": active})
}

func (s *Server) handlePress(c *gin.Context) {
	var req struct {
		Trigger string `json:"trigger" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body or missing trigger field"})
		return
	}
	active, err := s.panel.Press(req.Trigger)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": active})
}

func (s *Server) handleHome(c *gin.Context) {
	active, err := s.panel.ReturnHome()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": active})
}

func (s *Server) handleSpiders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"spiders": s.panel.Spiders()})
}

func (s *Server) handleAddSpider(c *gin.Context) {
	var req model.SpiderInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if req.SpiderID == "" {
		req.SpiderID = uuid.NewString()
	}
	added := s.panel.AddPluggableSpider(req)
	status := http.StatusCreated
	if !added {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"spider": req, "added": added})
}

func (s *Server) handleRemoveSpider(c *gin.Context) {
	removed := s.panel.RemovePluggableSpider(model.SpiderInfo{SpiderID: c.Param("id")})
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

func (s *Server) handleOptions(c *gin.Context) {
	c.JSON(http.StatusOK, s.panel.Options())
}

func (s *Server) handleSetOptions(c *gin.Context) {
	var opts model.Options
	if err := c.ShouldBindJSON(&opts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if opts.Proxy.Port < 0 || opts.Proxy.Port > 65535 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "proxy port out of range"})
		return
	}
	if err := s.panel.OptionsChanged(opts); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.panel.Options())
}

func (s *Server) handleSetExplore(c *gin.Context) {
	var req struct {
		Title string `json:"title" binding:"required"`
		URL   string `json:"url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body or missing title field"})
		return
	}
	if err := s.panel.SetCustomExplore(req.Title, req.URL); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleClearExplore(c *gin.Context) {
	if err := s.panel.SetExplorePanel(nil); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleTargets(c *gin.Context) {
	urls, err := s.panel.URLModel()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"urls": urls})
}

func (s *Server) handleSubmitTarget(c *gin.Context) {
	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body or missing url field"})
		return
	}
	if err := s.panel.SubmitTarget(req.URL); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, host.ErrUnknownPage), errors.Is(err, host.ErrUnknownTrigger):
		return http.StatusNotFound
	case errors.Is(err, pages.ErrInvalidTarget):
		return http.StatusBadRequest
	case errors.Is(err, pages.ErrModeForbidsAttack):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
