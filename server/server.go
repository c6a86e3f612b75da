// Package server exposes the pivotlai pipeline over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ZaguanLabs/pivotlai"
)

// requestIDHeader carries the request ID back to the client.
const requestIDHeader = "X-Request-ID"

// Config holds the server dependencies. Detector and Summarizer are optional.
type Config struct {
	Orchestrator *pivotlai.Orchestrator
	Detector     pivotlai.LanguageDetector
	Summarizer   pivotlai.Summarizer
	Logger       log.FieldLogger
}

// Server serves the HTTP API.
type Server struct {
	cfg    Config
	logger log.FieldLogger
	engine *gin.Engine
}

// New creates a Server with its routes registered.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
		engine: gin.New(),
	}

	s.engine.Use(s.requestLogger(), gin.Recovery())
	s.engine.GET("/healthz", s.handleHealth)

	v1 := s.engine.Group("/v1")
	v1.GET("/languages", s.handleLanguages)
	v1.POST("/detect", s.handleDetect)
	v1.POST("/summarize", s.handleSummarize)
	v1.POST("/translate", s.handleTranslate)

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// requestLogger tags each request with an ID and logs it once served.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)

		start := time.Now()
		c.Next()

		entry := s.logger.WithFields(log.Fields{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"duration":   time.Since(start),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request failed")
		} else {
			entry.Debug("request served")
		}
	}
}

func abort(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": pivotlai.FullVersion(),
	})
}

func (s *Server) handleLanguages(c *gin.Context) {
	codes := pivotlai.KnownLanguageCodes()
	known := make([]pivotlai.Language, len(codes))
	for i, code := range codes {
		known[i] = pivotlai.Language{Code: code, Name: pivotlai.GetLanguageName(code)}
	}

	c.JSON(http.StatusOK, gin.H{
		"selectable": pivotlai.Languages(),
		"known":      known,
		"pivot":      s.cfg.Orchestrator.Pivot(),
	})
}

type detectRequest struct {
	Text string `json:"text" binding:"required"`
}

type detectResponse struct {
	Language   string  `json:"language"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Defaulted  bool    `json:"defaulted"`
	Warning    string  `json:"warning,omitempty"`
}

func (s *Server) handleDetect(c *gin.Context) {
	var req detectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	p := s.pipeline()
	report, err := p.Submit(c.Request.Context(), req.Text)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	state := p.State()
	resp := detectResponse{
		Language:   state.DetectedLang,
		Name:       state.DetectedName,
		Confidence: report.Detection.Confidence,
		Defaulted:  report.Defaulted,
	}
	if report.Warning != nil {
		resp.Warning = report.Warning.Error()
	}
	c.JSON(http.StatusOK, resp)
}

type summarizeRequest struct {
	Text string `json:"text" binding:"required"`
}

func (s *Server) handleSummarize(c *gin.Context) {
	var req summarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	p := s.pipeline()
	if _, err := p.Submit(c.Request.Context(), req.Text); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	summary, err := p.Summarize(c.Request.Context())
	switch {
	case errors.Is(err, pivotlai.ErrSummaryUnsupported):
		abort(c, http.StatusUnprocessableEntity, err)
		return
	case errors.Is(err, pivotlai.ErrNoSummarizer):
		abort(c, http.StatusNotImplemented, err)
		return
	case err != nil:
		s.logger.WithError(err).Warn("summarize failed")
		abort(c, http.StatusBadGateway, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

type translateRequest struct {
	Text        string `json:"text" binding:"required"`
	SourceLang  string `json:"source_lang"` // Detected when empty
	TargetLang  string `json:"target_lang" binding:"required"`
	ContentType string `json:"content_type"` // "html" or "text"; plain hop when empty
}

type hopResponse struct {
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
	Attempt    int    `json:"attempt"`
	Error      string `json:"error,omitempty"`
}

type translateResponse struct {
	ID         string        `json:"id"`
	Text       string        `json:"text"`
	Status     string        `json:"status"`
	SourceLang string        `json:"source_lang"`
	TargetLang string        `json:"target_lang"`
	HopCount   int           `json:"hop_count"`
	Hops       []hopResponse `json:"hops,omitempty"`
	Error      string        `json:"error,omitempty"`
}

type contentResponse struct {
	Content         string `json:"content"`
	SourceLang      string `json:"source_lang"`
	TargetLang      string `json:"target_lang"`
	TranslatedCount int    `json:"translated_count"`
	FailedCount     int    `json:"failed_count"`
	TotalNodes      int    `json:"total_nodes"`
}

func (s *Server) handleTranslate(c *gin.Context) {
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	ctx := c.Request.Context()
	// Codes go to the capability as given
	source := strings.TrimSpace(req.SourceLang)
	target := strings.TrimSpace(req.TargetLang)

	if source == "" {
		p := s.pipeline()
		if _, err := p.Submit(ctx, req.Text); err != nil {
			abort(c, http.StatusBadRequest, err)
			return
		}
		source = p.State().DetectedLang
	}

	if req.ContentType != "" {
		out, err := s.cfg.Orchestrator.TranslateContent(ctx, req.Text, req.ContentType, source, target)
		if err != nil {
			var procErr *pivotlai.ProcessorError
			if errors.As(err, &procErr) {
				abort(c, http.StatusBadRequest, err)
				return
			}
			abort(c, http.StatusInternalServerError, err)
			return
		}
		c.JSON(http.StatusOK, contentResponse{
			Content:         out.Content,
			SourceLang:      source,
			TargetLang:      target,
			TranslatedCount: out.TranslatedCount,
			FailedCount:     out.FailedCount,
			TotalNodes:      out.TotalNodes,
		})
		return
	}

	res := s.cfg.Orchestrator.TranslateResult(ctx, req.Text, source, target)

	resp := translateResponse{
		ID:         res.ID,
		Text:       res.Text,
		Status:     string(res.Status),
		SourceLang: source,
		TargetLang: target,
		HopCount:   len(res.Hops),
	}
	for _, h := range res.Hops {
		hop := hopResponse{SourceLang: h.SourceLang, TargetLang: h.TargetLang, Attempt: h.Attempt}
		if h.Err != nil {
			hop.Error = h.Err.Error()
		}
		resp.Hops = append(resp.Hops, hop)
	}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	}

	// A failed translation still answers 200 with the original text
	c.JSON(http.StatusOK, resp)
}

// pipeline builds a single-request pipeline.
func (s *Server) pipeline() *pivotlai.Pipeline {
	opts := []pivotlai.PipelineOption{pivotlai.WithPipelineLogger(s.logger)}
	if s.cfg.Summarizer != nil {
		opts = append(opts, pivotlai.WithSummarizer(s.cfg.Summarizer))
	}
	return pivotlai.NewPipeline(s.cfg.Orchestrator, s.cfg.Detector, opts...)
}
