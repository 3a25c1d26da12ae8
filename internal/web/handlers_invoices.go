package web

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/invoxai/invoice-console/internal/api"
	"github.com/invoxai/invoice-console/internal/logger"
	"github.com/invoxai/invoice-console/internal/models"
)

type invoiceListView struct {
	PageData
	Invoices []models.Invoice
	LoadErr  string
}

func (s *Server) handleInvoiceList(c *gin.Context) {
	view := invoiceListView{PageData: s.pageData(c, "Invoices", "invoices")}

	invoices, err := s.backend.ListInvoices(c.Request.Context())
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Failed to list invoices")
		view.LoadErr = api.Message(err)
	} else {
		view.Invoices = invoices
	}

	c.HTML(http.StatusOK, "invoices.html", view)
}

type invoiceDetailView struct {
	PageData
	Invoice    *models.Invoice
	EditMode   bool
	Categories []string
	// CustomCategory is set when the current category is not one of the
	// predefined suggestions, so the edit form can preselect "custom".
	CustomCategory bool
	ViewURL        string
	// PreviewKind selects the inline preview element: "pdf", "image",
	// or "" when the stored file type cannot be previewed.
	PreviewKind string
	ParsedData  string
	LoadErr        string
	NotFound       bool
}

func (s *Server) handleInvoiceDetail(c *gin.Context) {
	id, ok := invoiceID(c)
	if !ok {
		return
	}

	view := invoiceDetailView{
		PageData:   s.pageData(c, "Invoice Detail", "invoices"),
		EditMode:   c.Query("edit") == "1",
		Categories: models.PredefinedCategories,
	}

	inv, err := s.backend.GetInvoice(c.Request.Context(), id)
	if err != nil {
		if api.IsNotFound(err) {
			view.NotFound = true
			c.HTML(http.StatusNotFound, "invoice_detail.html", view)
			return
		}
		logger.Log.Warn().Err(err).Int64("invoice_id", id).Msg("Failed to fetch invoice")
		view.LoadErr = api.Message(err)
		c.HTML(http.StatusOK, "invoice_detail.html", view)
		return
	}

	view.Invoice = inv
	view.CustomCategory = inv.CategoryOrEmpty() != "" && !isPredefined(inv.CategoryOrEmpty())
	if url, cached := s.viewURLs.Cached(id); cached {
		view.ViewURL = url
		view.PreviewKind = previewKind(inv.S3Key)
	}
	view.ParsedData = prettyJSON(inv.ParsedData)

	c.HTML(http.StatusOK, "invoice_detail.html", view)
}

func (s *Server) handleCategoryUpdate(c *gin.Context) {
	id, ok := invoiceID(c)
	if !ok {
		return
	}
	detailPath := "/invoices/" + strconv.FormatInt(id, 10)

	selected := strings.TrimSpace(c.PostForm("category"))
	if selected == "__custom__" {
		selected = strings.TrimSpace(c.PostForm("custom_category"))
	}

	// Skip the round trip when nothing changed.
	if selected == c.PostForm("current") {
		c.Redirect(http.StatusSeeOther, detailPath)
		return
	}

	var category *string
	if selected != "" {
		category = &selected
	}

	if _, err := s.backend.UpdateInvoiceCategory(c.Request.Context(), id, category); err != nil {
		logger.Log.Warn().Err(err).Int64("invoice_id", id).Msg("Failed to update category")
		setFlash(c, "error", api.Message(err))
	} else {
		setFlash(c, "success", "Category updated successfully!")
	}
	c.Redirect(http.StatusSeeOther, detailPath)
}

func (s *Server) handleViewURL(c *gin.Context) {
	id, ok := invoiceID(c)
	if !ok {
		return
	}
	detailPath := "/invoices/" + strconv.FormatInt(id, 10)

	if _, err := s.viewURLs.Get(c.Request.Context(), id); err != nil {
		logger.Log.Warn().Err(err).Int64("invoice_id", id).Msg("Failed to fetch view URL")
		setFlash(c, "error", api.Message(err))
	}
	c.Redirect(http.StatusSeeOther, detailPath)
}

func (s *Server) handleReprocess(c *gin.Context) {
	id, ok := invoiceID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	inv, err := s.backend.GetInvoice(ctx, id)
	if err != nil {
		setFlash(c, "error", api.Message(err))
		redirectBack(c, "/invoices")
		return
	}
	if !inv.CanReprocess() {
		setFlash(c, "error", "This invoice is not awaiting Textract results.")
		redirectBack(c, "/invoices")
		return
	}

	msg, err := s.backend.TriggerReprocessing(ctx, id)
	if err != nil {
		logger.Log.Warn().Err(err).Int64("invoice_id", id).Msg("Failed to trigger reprocessing")
		setFlash(c, "error", api.Message(err))
	} else {
		if msg == "" {
			msg = "Reprocessing triggered."
		}
		setFlash(c, "success", msg)
	}
	redirectBack(c, "/invoices")
}

type deleteConfirmView struct {
	PageData
	Invoice *models.Invoice
	LoadErr string
}

func (s *Server) handleDeleteConfirm(c *gin.Context) {
	id, ok := invoiceID(c)
	if !ok {
		return
	}

	view := deleteConfirmView{PageData: s.pageData(c, "Delete Invoice", "invoices")}

	inv, err := s.backend.GetInvoice(c.Request.Context(), id)
	if err != nil {
		logger.Log.Warn().Err(err).Int64("invoice_id", id).Msg("Failed to fetch invoice for deletion")
		view.LoadErr = api.Message(err)
	} else {
		view.Invoice = inv
	}

	c.HTML(http.StatusOK, "invoice_delete.html", view)
}

func (s *Server) handleDelete(c *gin.Context) {
	id, ok := invoiceID(c)
	if !ok {
		return
	}

	msg, err := s.backend.DeleteInvoice(c.Request.Context(), id)
	if err != nil {
		logger.Log.Warn().Err(err).Int64("invoice_id", id).Msg("Failed to delete invoice")
		setFlash(c, "error", api.Message(err))
		c.Redirect(http.StatusSeeOther, "/invoices/"+strconv.FormatInt(id, 10))
		return
	}

	if msg == "" {
		msg = "Invoice deleted."
	}
	setFlash(c, "success", msg)
	c.Redirect(http.StatusSeeOther, "/invoices")
}

// invoiceID parses the :id route param, rendering 404 on garbage.
func invoiceID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.HTML(http.StatusNotFound, "notfound.html", PageData{Title: "Not Found"})
		c.Abort()
		return 0, false
	}
	return id, true
}

// previewKind maps the stored object's extension to an inline preview
// element. Unknown types get no preview, only the open link.
func previewKind(s3Key string) string {
	switch strings.ToLower(filepath.Ext(s3Key)) {
	case ".pdf":
		return "pdf"
	case ".png", ".jpg", ".jpeg":
		return "image"
	default:
		return ""
	}
}

func isPredefined(category string) bool {
	for _, p := range models.PredefinedCategories {
		if p == category {
			return true
		}
	}
	return false
}

// prettyJSON re-indents a raw extraction payload for display. Invalid or
// empty payloads collapse to "".
func prettyJSON(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(out)
}
