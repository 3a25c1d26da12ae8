package web

import (
	"encoding/base64"
	"html/template"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/invoxai/invoice-console/internal/api"
	"github.com/invoxai/invoice-console/internal/chartgen"
	"github.com/invoxai/invoice-console/internal/logger"
	"github.com/invoxai/invoice-console/internal/models"
)

// dashboardView feeds the dashboard template. Each panel carries its own
// error so one failed fetch never blanks the rest of the page.
type dashboardView struct {
	PageData

	Summary    *models.AnalyticsSummary
	SummaryErr string

	InsightLines []string
	InsightErr   string

	VendorChart   template.URL
	VendorEmpty   bool
	VendorErr     string
	CategoryChart template.URL
	CategoryEmpty bool
	CategoryErr   string
	MonthlyChart  template.URL
	MonthlyEmpty  bool
	MonthlyErr    string
}

func (s *Server) handleDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		summary    models.AnalyticsSummary
		insight    string
		vendors    []models.VendorSpend
		categories []models.CategorySpend
		monthly    []models.MonthlySpend

		summaryErr, insightErr, vendorErr, categoryErr, monthlyErr error
	)

	var wg sync.WaitGroup
	wg.Add(5)
	go func() { defer wg.Done(); summary, summaryErr = s.backend.Summary(ctx) }()
	go func() { defer wg.Done(); insight, insightErr = s.backend.AIInsight(ctx) }()
	go func() { defer wg.Done(); vendors, vendorErr = s.backend.ExpensesByVendor(ctx, s.cfg.ChartTopN) }()
	go func() { defer wg.Done(); categories, categoryErr = s.backend.ExpensesByCategory(ctx, s.cfg.ChartTopN) }()
	go func() { defer wg.Done(); monthly, monthlyErr = s.backend.MonthlySpend(ctx) }()
	wg.Wait()

	view := dashboardView{PageData: s.pageData(c, "Dashboard", "dashboard")}

	if summaryErr != nil {
		logger.Log.Warn().Err(summaryErr).Msg("Failed to fetch analytics summary")
		view.SummaryErr = api.Message(summaryErr)
	} else {
		view.Summary = &summary
	}

	if insightErr != nil {
		logger.Log.Warn().Err(insightErr).Msg("Failed to fetch AI insight")
		view.InsightErr = api.Message(insightErr)
	} else {
		view.InsightLines = splitLines(insight)
	}

	view.VendorChart, view.VendorEmpty, view.VendorErr = vendorPanel(vendors, vendorErr)
	view.CategoryChart, view.CategoryEmpty, view.CategoryErr = categoryPanel(categories, categoryErr)
	view.MonthlyChart, view.MonthlyEmpty, view.MonthlyErr = monthlyPanel(monthly, monthlyErr)

	c.HTML(http.StatusOK, "dashboard.html", view)
}

func vendorPanel(data []models.VendorSpend, fetchErr error) (template.URL, bool, string) {
	if fetchErr != nil {
		logger.Log.Warn().Err(fetchErr).Msg("Failed to fetch vendor spend")
		return "", false, api.Message(fetchErr)
	}
	if len(data) == 0 {
		return "", true, ""
	}
	png, err := chartgen.VendorBar(data)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to render vendor chart")
		return "", false, "Failed to render chart."
	}
	return chartDataURI(png), false, ""
}

func categoryPanel(data []models.CategorySpend, fetchErr error) (template.URL, bool, string) {
	if fetchErr != nil {
		logger.Log.Warn().Err(fetchErr).Msg("Failed to fetch category spend")
		return "", false, api.Message(fetchErr)
	}
	if len(data) == 0 {
		return "", true, ""
	}
	png, err := chartgen.CategoryPie(data)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to render category chart")
		return "", false, "Failed to render chart."
	}
	return chartDataURI(png), false, ""
}

func monthlyPanel(data []models.MonthlySpend, fetchErr error) (template.URL, bool, string) {
	if fetchErr != nil {
		logger.Log.Warn().Err(fetchErr).Msg("Failed to fetch monthly spend")
		return "", false, api.Message(fetchErr)
	}
	if len(data) == 0 {
		return "", true, ""
	}
	png, err := chartgen.MonthlyLine(data)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to render monthly chart")
		return "", false, "Failed to render chart."
	}
	return chartDataURI(png), false, ""
}

// chartDataURI inlines a rendered PNG so the page needs no extra round
// trips for chart images.
func chartDataURI(png []byte) template.URL {
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
}
