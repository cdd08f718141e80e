// Package server exposes the CFDI parsing and validation pipeline over
// HTTP.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"

	"github.com/fiscalmx/cfdi-processor/internal/catalog"
	"github.com/fiscalmx/cfdi-processor/internal/model"
	"github.com/fiscalmx/cfdi-processor/internal/model/v40"
	xmlparser "github.com/fiscalmx/cfdi-processor/internal/parser/xml"
)

// Config holds server configuration
type Config struct {
	Address      string
	CatalogDir   string
	RedisAddr    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Server represents the HTTP API server
type Server struct {
	config   *Config
	router   *gin.Engine
	parser   *xmlparser.Parser
	catalogs catalog.Store
}

// NewServer creates a new API server. The catalog backing follows the
// configuration: a Redis address wins over a catalog directory, which
// wins over the compiled catalogs.
func NewServer(config *Config) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if config.Debug {
		router.Use(gin.Logger())
	}

	var store catalog.Store
	switch {
	case config.RedisAddr != "":
		client := redis.NewClient(&redis.Options{Addr: config.RedisAddr})
		store = catalog.NewRedisStore(client)
	case config.CatalogDir != "":
		store = catalog.NewFileStore(config.CatalogDir)
	default:
		store = catalog.NewStatic()
	}

	s := &Server{
		config:   config,
		router:   router,
		parser:   xmlparser.NewParser(xmlparser.WithCatalogs(store)),
		catalogs: store,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handleHealth)

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/parse", s.handleParse)
		v1.POST("/validate", s.handleValidate)
		v1.POST("/cadena", s.handleCadena)
		v1.GET("/catalogs/:catalog/:code", s.handleCatalog)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleParse(c *gin.Context) {
	body, ok := s.readBody(c)
	if !ok {
		return
	}

	doc, err := s.parser.Parse(body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:  "document rejected",
			Fields: fieldErrors(err),
		})
		return
	}

	c.JSON(http.StatusOK, ParseResponse{
		Version:  string(doc.SchemaVersion()),
		Document: doc,
	})
}

func (s *Server) handleValidate(c *gin.Context) {
	body, ok := s.readBody(c)
	if !ok {
		return
	}

	doc, err := s.parser.Parse(body)
	if err != nil {
		c.JSON(http.StatusOK, ValidationResponse{
			Valid:  false,
			Errors: fieldErrors(err),
		})
		return
	}

	c.JSON(http.StatusOK, ValidationResponse{
		Valid:   true,
		Version: string(doc.SchemaVersion()),
	})
}

func (s *Server) handleCadena(c *gin.Context) {
	body, ok := s.readBody(c)
	if !ok {
		return
	}

	doc, err := s.parser.Parse(body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:  "document rejected",
			Fields: fieldErrors(err),
		})
		return
	}

	cfdi, ok := doc.(*v40.CFDI40)
	if !ok || cfdi.Complemento == nil || cfdi.Complemento.TimbreFiscalDigital == nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error: "document carries no digital stamp",
		})
		return
	}

	stamp := cfdi.Complemento.TimbreFiscalDigital
	c.JSON(http.StatusOK, CadenaResponse{
		UUID:            stamp.UUID.String(),
		CadenaOriginal:  stamp.CadenaOriginal(),
		VerificationURL: cfdi.VerificationURL(),
	})
}

func (s *Server) handleCatalog(c *gin.Context) {
	name := catalog.Name(c.Param("catalog"))
	code := c.Param("code")

	desc, err := s.catalogs.Lookup(name, code)
	if err != nil {
		var nf *catalog.NotFoundError
		if errors.As(err, &nf) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: nf.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "catalog backend unavailable"})
		return
	}

	c.JSON(http.StatusOK, CatalogResponse{
		Catalog:     string(name),
		Code:        code,
		Description: desc,
	})
}

func (s *Server) readBody(c *gin.Context) ([]byte, bool) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return nil, false
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return nil, false
	}
	return body, true
}

// fieldErrors flattens a parse failure into API-shaped field errors.
// Aggregated validation failures fan out one entry per violation.
func fieldErrors(err error) []FieldError {
	var out []FieldError
	for _, e := range multierr.Errors(err) {
		var ve *model.ValidationError
		if errors.As(e, &ve) {
			out = append(out, FieldError{
				Path:    ve.Path,
				Rule:    ve.Rule,
				Message: ve.Message,
			})
			continue
		}
		out = append(out, FieldError{Message: e.Error()})
	}
	return out
}
