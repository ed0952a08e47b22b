package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kehinde-ajayi/docchat/internal/common"
	"github.com/kehinde-ajayi/docchat/internal/export"
	"github.com/kehinde-ajayi/docchat/internal/extract"
	"github.com/kehinde-ajayi/docchat/internal/ingest"
	"github.com/kehinde-ajayi/docchat/internal/session"
)

// Forgetter drops any conversational context held for a document. Implemented
// by the Gemini client; a no-op is fine for responders without state.
type Forgetter interface {
	Forget(docName string)
}

// Deps carries everything the HTTP layer needs. All fields are required
// except Forgetter, which may be nil.
type Deps struct {
	Store      *session.Store
	Dispatcher *session.Dispatcher
	Extractor  extract.TextExtractor
	Ingestor   ingest.Ingestor
	Exporter   *export.Service
	Forgetter  Forgetter
}

type Server struct {
	app  *fiber.App
	cfg  *common.Config
	deps Deps
	log  *zap.Logger
}

func New(cfg *common.Config, deps Deps, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.App.MaxUploadMB * 1024 * 1024,
		ErrorHandler: NewErrorHandler(logger),
		// Document names live in route params; "my report.pdf" must match
		// the store key, not its percent-encoded form.
		UnescapePath: true,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.App.CorsAllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))

	// Tag every request with an ID so handler logs line up with LLM calls.
	app.Use(func(c *fiber.Ctx) error {
		reqID := c.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set("X-Request-ID", reqID)
		c.SetUserContext(common.WithRequestID(c.UserContext(), reqID))
		return c.Next()
	})

	s := &Server{app: app, cfg: cfg, deps: deps, log: logger}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := s.app.Group("/api")

	api.Post("/documents", s.uploadDocument)
	api.Get("/documents", s.listDocuments)
	api.Get("/documents/active", s.activeDocument)
	api.Post("/documents/:name/activate", s.activateDocument)
	api.Delete("/documents/:name", s.removeDocument)
	api.Get("/documents/:name/transcript", s.getTranscript)
	api.Post("/documents/:name/transcript/clear", s.clearTranscript)

	api.Post("/chat", s.ask)

	api.Get("/documents/:name/export/text", s.exportDocumentText)
	api.Get("/documents/:name/export/transcript", s.exportTranscript)
	api.Get("/session/report", s.sessionReport)
}

// App exposes the underlying Fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen() error {
	s.log.Info("http.listen", zap.String("port", s.cfg.App.Port))
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
