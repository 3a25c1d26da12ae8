package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/invoxai/invoice-console/internal/api"
	"github.com/invoxai/invoice-console/internal/logger"
	"github.com/invoxai/invoice-console/internal/models"
)

type monthOption struct {
	Num  int
	Name string
}

type reportsView struct {
	PageData
	Years       []int
	Months      []monthOption
	Year        int
	Month       int
	Vendor      string
	Category    string
	Report      *models.Report
	GenerateErr string
}

func (s *Server) reportsView(c *gin.Context) reportsView {
	now := time.Now()
	years := make([]int, 0, 7)
	for y := now.Year() + 1; y >= now.Year()-5; y-- {
		years = append(years, y)
	}
	return reportsView{
		PageData: s.pageData(c, "Reports", "reports"),
		Years:    years,
		Months:   months(),
		Year:     now.Year(),
		Month:    int(now.Month()),
	}
}

func months() []monthOption {
	out := make([]monthOption, 12)
	for i := range out {
		out[i] = monthOption{Num: i + 1, Name: time.Month(i + 1).String()}
	}
	return out
}

func (s *Server) handleReportsPage(c *gin.Context) {
	c.HTML(http.StatusOK, "reports.html", s.reportsView(c))
}

func (s *Server) handleMonthlyReport(c *gin.Context) {
	view := s.reportsView(c)

	year, errY := strconv.Atoi(c.PostForm("year"))
	month, errM := strconv.Atoi(c.PostForm("month"))
	view.Vendor = strings.TrimSpace(c.PostForm("vendor"))
	view.Category = strings.TrimSpace(c.PostForm("category"))

	if errY != nil || errM != nil || month < 1 || month > 12 || year < 2000 || year > time.Now().Year()+1 {
		view.GenerateErr = "Please pick a valid year and month."
		c.HTML(http.StatusBadRequest, "reports.html", view)
		return
	}
	view.Year = year
	view.Month = month

	report, err := s.backend.GenerateMonthlyReport(c.Request.Context(), year, month, view.Vendor, view.Category)
	if err != nil {
		logger.Log.Warn().Err(err).Int("year", year).Int("month", month).Msg("Monthly report generation failed")
		view.GenerateErr = api.Message(err)
		c.HTML(http.StatusOK, "reports.html", view)
		return
	}

	view.Report = report
	c.HTML(http.StatusOK, "reports.html", view)
}

func (s *Server) handleComprehensiveReport(c *gin.Context) {
	view := s.reportsView(c)

	report, err := s.backend.GenerateComprehensiveReport(c.Request.Context())
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Comprehensive report generation failed")
		view.GenerateErr = api.Message(err)
		c.HTML(http.StatusOK, "reports.html", view)
		return
	}

	view.Report = report
	c.HTML(http.StatusOK, "reports.html", view)
}
