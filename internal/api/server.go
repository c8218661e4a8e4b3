// Package api exposes the parser, the validator and the converters over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"fjacquet/swift-mt/internal/common"
	"fjacquet/swift-mt/internal/logging"
	"fjacquet/swift-mt/internal/parser"
	"fjacquet/swift-mt/internal/report"

	"github.com/gin-gonic/gin"
)

// DefaultAddr is the default listen address of the server
const DefaultAddr = ":8080"

// Options configures the server.
type Options struct {
	Address      string
	MaxBodyBytes int64
	ReleaseMode  bool
	DateFormat   string
	CSV          common.CSVOptions
}

// Server serves the HTTP API.
type Server struct {
	router  *gin.Engine
	parser  parser.FullParser
	reports *report.ReportGenerator
	logger  logging.Logger
	opts    Options

	server *http.Server
}

// NewServer builds the router and the underlying http.Server.
func NewServer(p parser.FullParser, reports *report.ReportGenerator, logger logging.Logger, opts Options) *Server {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if opts.Address == "" {
		opts.Address = DefaultAddr
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	if opts.DateFormat == "" {
		opts.DateFormat = "2006-01-02"
	}
	if opts.CSV.Delimiter == 0 {
		opts.CSV = common.DefaultCSVOptions()
	}
	if reports == nil {
		reports = report.NewReportGenerator(logger)
	}

	s := &Server{
		parser:  p,
		reports: reports,
		logger:  logger.WithField("component", "APIServer"),
		opts:    opts,
	}

	if opts.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), s.logMiddleware, s.limitBody)

	router.GET("/health", s.handleHealth)
	router.GET("/types", s.handleTypes)
	router.POST("/parse", s.handleParse)
	router.POST("/validate", s.handleValidate)
	router.POST("/convert", s.handleConvert)
	router.POST("/summary", s.handleSummary)

	s.router = router
	s.server = &http.Server{
		Addr:              opts.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) logMiddleware(c *gin.Context) {
	start := time.Now()
	path := c.Request.URL.Path
	if raw := c.Request.URL.RawQuery; raw != "" {
		path = path + "?" + raw
	}

	c.Next()

	s.logger.Debug("Handled request",
		logging.Field{Key: "method", Value: c.Request.Method},
		logging.Field{Key: "path", Value: path},
		logging.Field{Key: logging.FieldStatus, Value: c.Writer.Status()},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()},
		logging.Field{Key: "client_ip", Value: c.ClientIP()})
}

func (s *Server) limitBody(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxBodyBytes)
	c.Next()
}

// Run serves until ctx is done, then shuts the server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server starting", logging.Field{Key: "addr", Value: s.opts.Address})
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.WithError(err).Error("API server forcefully shut down")
		return err
	}
	s.logger.Info("API server stopped")
	return nil
}
