package web

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/invoxai/invoice-console/internal/api"
	"github.com/invoxai/invoice-console/internal/models"
)

func multipartUpload(t *testing.T, srv *Server, filename string, content []byte, session string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: session})
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestUpload(t *testing.T) {
	t.Parallel()

	t.Run("form renders with the file input", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, newFakeBackend())
		w := doGet(srv, "/upload")
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), `type="file"`)
	})

	t.Run("successful upload shows the backend response", func(t *testing.T) {
		t.Parallel()

		backend := newFakeBackend()
		backend.uploadResult = &models.UploadResult{
			InvoiceID:     7,
			CurrentStatus: models.StatusUploaded,
			Message:       "File received and queued.",
		}
		srv := newTestServer(t, backend)

		w := multipartUpload(t, srv, "invoice.pdf", []byte("%PDF-1.4 data"), testSession)
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), "File received and queued.")
		require.Contains(t, w.Body.String(), "/invoices/7")
		require.Equal(t, 1, backend.callCount("UploadInvoice"))
	})

	t.Run("missing file is rejected without a backend call", func(t *testing.T) {
		t.Parallel()

		backend := newFakeBackend()
		srv := newTestServer(t, backend)

		w := multipartUpload(t, srv, "", nil, testSession)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, w.Body.String(), "Please choose a file")
		require.Equal(t, 0, backend.callCount("UploadInvoice"))
	})

	t.Run("unsupported extension is rejected without a backend call", func(t *testing.T) {
		t.Parallel()

		backend := newFakeBackend()
		srv := newTestServer(t, backend)

		w := multipartUpload(t, srv, "malware.exe", []byte("mz"), testSession)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, w.Body.String(), "Unsupported file type")
		require.Equal(t, 0, backend.callCount("UploadInvoice"))
	})

	t.Run("backend failure shows the normalized message", func(t *testing.T) {
		t.Parallel()

		backend := newFakeBackend()
		backend.uploadErr = &api.Error{Kind: api.KindServer, Message: "Storage unavailable."}
		srv := newTestServer(t, backend)

		w := multipartUpload(t, srv, "invoice.pdf", []byte("x"), testSession)
		require.Equal(t, http.StatusBadGateway, w.Code)
		require.Contains(t, w.Body.String(), "Storage unavailable.")
	})

	t.Run("second concurrent upload for the same session is rejected", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		started := make(chan struct{})
		backend := newFakeBackend()
		backend.uploadResult = &models.UploadResult{InvoiceID: 1, CurrentStatus: models.StatusUploaded}
		backend.uploadHook = func() {
			close(started)
			<-release
		}
		srv := newTestServer(t, backend)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			multipartUpload(t, srv, "first.pdf", []byte("a"), testSession)
		}()

		<-started
		w := multipartUpload(t, srv, "second.pdf", []byte("b"), testSession)
		close(release)
		wg.Wait()

		require.Equal(t, http.StatusConflict, w.Code)
		require.Contains(t, w.Body.String(), "already in progress")
		require.Equal(t, 1, backend.callCount("UploadInvoice"))
	})

	t.Run("different sessions upload independently", func(t *testing.T) {
		t.Parallel()

		backend := newFakeBackend()
		backend.uploadResult = &models.UploadResult{InvoiceID: 1, CurrentStatus: models.StatusUploaded}
		srv := newTestServer(t, backend)

		w1 := multipartUpload(t, srv, "a.pdf", []byte("a"), "session-a")
		w2 := multipartUpload(t, srv, "b.pdf", []byte("b"), "session-b")
		require.Equal(t, http.StatusOK, w1.Code)
		require.Equal(t, http.StatusOK, w2.Code)
	})

	t.Run("progress endpoint reports idle when nothing is running", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, newFakeBackend())
		w := doGet(srv, "/upload/progress")
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), `"in_flight":false`)
	})
}
