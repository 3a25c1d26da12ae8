package web

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/invoxai/invoice-console/internal/api"
	"github.com/invoxai/invoice-console/internal/format"
	"github.com/invoxai/invoice-console/internal/logger"
	"github.com/invoxai/invoice-console/internal/models"
)

// allowedUploadExts mirrors what the backend's extraction pipeline accepts.
var allowedUploadExts = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tiff": true,
}

const maxUploadBytes = 25 << 20

type uploadView struct {
	PageData
	Result    *models.UploadResult
	FormErr   string
	InFlight  bool
	MaxSizeMB int64
}

func (s *Server) uploadView(c *gin.Context) uploadView {
	return uploadView{
		PageData:  s.pageData(c, "Upload Invoice", "upload"),
		MaxSizeMB: maxUploadBytes >> 20,
	}
}

func (s *Server) handleUploadForm(c *gin.Context) {
	view := s.uploadView(c)
	_, view.InFlight = s.uploads.Progress(sessionID(c))
	c.HTML(http.StatusOK, "upload.html", view)
}

func (s *Server) handleUpload(c *gin.Context) {
	session := sessionID(c)
	view := s.uploadView(c)

	header, err := c.FormFile("file")
	if err != nil {
		view.FormErr = "Please choose a file to upload."
		c.HTML(http.StatusBadRequest, "upload.html", view)
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedUploadExts[ext] {
		view.FormErr = "Unsupported file type. Please upload a PDF, PNG, JPG or TIFF."
		c.HTML(http.StatusBadRequest, "upload.html", view)
		return
	}
	if header.Size > maxUploadBytes {
		view.FormErr = "File is too large. The limit is " + format.FileSizeKB(maxUploadBytes) + "."
		c.HTML(http.StatusBadRequest, "upload.html", view)
		return
	}

	if !s.uploads.Start(session) {
		view.FormErr = "An upload is already in progress for this session."
		view.InFlight = true
		c.HTML(http.StatusConflict, "upload.html", view)
		return
	}
	defer s.uploads.Finish(session)

	file, err := header.Open()
	if err != nil {
		view.FormErr = "Failed to read the selected file."
		c.HTML(http.StatusBadRequest, "upload.html", view)
		return
	}
	defer func() { _ = file.Close() }()

	logger.Log.Info().
		Str("filename", logger.SanitizeFilename(header.Filename)).
		Int64("size", header.Size).
		Msg("Uploading invoice")

	result, err := s.backend.UploadInvoice(c.Request.Context(), header.Filename, header.Size, file,
		func(percent int) { s.uploads.Update(session, percent) })
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Upload failed")
		view.FormErr = api.Message(err)
		c.HTML(http.StatusBadGateway, "upload.html", view)
		return
	}

	view.Result = result
	c.HTML(http.StatusOK, "upload.html", view)
}

// handleUploadProgress reports the running upload percentage for the
// session as JSON, for the form's polling script.
func (s *Server) handleUploadProgress(c *gin.Context) {
	percent, inFlight := s.uploads.Progress(sessionID(c))
	c.JSON(http.StatusOK, gin.H{"in_flight": inFlight, "percent": percent})
}
