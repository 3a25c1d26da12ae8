// Package web serves the console UI. It is a thin presentation layer: every
// page handler fetches what it needs from the backend API on each request
// and renders it with html/template.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/invoxai/invoice-console/internal/api"
	"github.com/invoxai/invoice-console/internal/chat"
	"github.com/invoxai/invoice-console/internal/config"
	"github.com/invoxai/invoice-console/internal/format"
	"github.com/invoxai/invoice-console/internal/logger"
	"github.com/invoxai/invoice-console/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// sessionCookie carries the per-browser session id used for chat and the
// view-url cache scope.
const sessionCookie = "invox_session"

// Backend is the slice of the API client the web layer consumes. Narrowed
// to an interface so handler tests can fake the backend.
type Backend interface {
	ListInvoices(ctx context.Context) ([]models.Invoice, error)
	GetInvoice(ctx context.Context, id int64) (*models.Invoice, error)
	UpdateInvoiceCategory(ctx context.Context, id int64, category *string) (*models.Invoice, error)
	TriggerReprocessing(ctx context.Context, id int64) (string, error)
	DeleteInvoice(ctx context.Context, id int64) (string, error)
	UploadInvoice(ctx context.Context, filename string, size int64, file io.Reader, progress func(int)) (*models.UploadResult, error)
	Summary(ctx context.Context) (models.AnalyticsSummary, error)
	ExpensesByVendor(ctx context.Context, limit int) ([]models.VendorSpend, error)
	ExpensesByCategory(ctx context.Context, limit int) ([]models.CategorySpend, error)
	MonthlySpend(ctx context.Context) ([]models.MonthlySpend, error)
	AIInsight(ctx context.Context) (string, error)
	GenerateMonthlyReport(ctx context.Context, year, month int, vendor, category string) (*models.Report, error)
	GenerateComprehensiveReport(ctx context.Context) (*models.Report, error)
	SendChatMessage(ctx context.Context, message, sessionID string) (string, error)
}

// Server is the console HTTP server.
type Server struct {
	cfg        *config.Config
	backend    Backend
	viewURLs   *api.ViewURLCache
	chats      *chat.Store
	uploads    *uploadTracker
	router     *gin.Engine
	httpServer *http.Server
}

// NewServer wires the router, templates and handlers.
func NewServer(cfg *config.Config, backend Backend, viewURLs *api.ViewURLCache) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:      cfg,
		backend:  backend,
		viewURLs: viewURLs,
		chats:    chat.NewStore(),
		uploads:  newUploadTracker(),
	}

	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.loggingMiddleware())
	router.Use(s.sessionMiddleware())
	router.SetHTMLTemplate(tmpl)

	s.router = router
	s.registerRoutes()

	return s, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate":      format.Date,
		"formatTimestamp": format.Timestamp,
		"formatMoney":     format.Money,
		"formatMoneyVal":  format.MoneyValue,
		"formatQuantity":  format.Quantity,
		"statusLabel":     format.StatusLabel,
		"statusClass":     format.StatusClass,
		"truncateName":    func(name string) string { return format.TruncateFilename(name, 30) },
		"markdown":        renderMarkdown,
	}
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.handleHealth)

	s.router.GET("/", s.handleDashboard)

	s.router.GET("/upload", s.handleUploadForm)
	s.router.POST("/upload", s.handleUpload)
	s.router.GET("/upload/progress", s.handleUploadProgress)

	s.router.GET("/invoices", s.handleInvoiceList)
	s.router.GET("/invoices/:id", s.handleInvoiceDetail)
	s.router.POST("/invoices/:id/category", s.handleCategoryUpdate)
	s.router.POST("/invoices/:id/view-url", s.handleViewURL)
	s.router.POST("/invoices/:id/reprocess", s.handleReprocess)
	s.router.GET("/invoices/:id/delete", s.handleDeleteConfirm)
	s.router.POST("/invoices/:id/delete", s.handleDelete)

	s.router.GET("/reports", s.handleReportsPage)
	s.router.POST("/reports/monthly", s.handleMonthlyReport)
	s.router.POST("/reports/comprehensive", s.handleComprehensiveReport)

	s.router.POST("/chat", s.handleChatSend)
	s.router.POST("/chat/toggle", s.handleChatToggle)
	s.router.GET("/chat/fragment", s.handleChatFragment)

	s.router.NoRoute(s.handleNotFound)
}

// loggingMiddleware logs one line per request.
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Log.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("HTTP request")
	}
}

// sessionMiddleware assigns a session cookie when the browser has none.
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := c.Cookie(sessionCookie); err != nil {
			id := uuid.NewString()
			c.SetCookie(sessionCookie, id, 0, "/", "", false, true)
			c.Request.AddCookie(&http.Cookie{Name: sessionCookie, Value: id})
		}
		c.Next()
	}
}

// sessionID returns the browser session id for this request.
func sessionID(c *gin.Context) string {
	id, err := c.Cookie(sessionCookie)
	if err != nil {
		return "anonymous"
	}
	return id
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}

func (s *Server) handleNotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "notfound.html", s.pageData(c, "Not Found", ""))
}

// Start runs the server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	logger.Log.Info().Str("addr", s.cfg.ListenAddr).Msg("Starting console server")

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.Stop()
	case err := <-errCh:
		return err
	}
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Log.Info().Msg("Console server stopped")
	return nil
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
