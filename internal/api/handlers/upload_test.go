package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nexconsult/cnpj-upload/internal/config"
	"github.com/nexconsult/cnpj-upload/internal/models"
	"github.com/nexconsult/cnpj-upload/internal/services"
	"github.com/nexconsult/cnpj-upload/internal/session"
	"github.com/nexconsult/cnpj-upload/internal/storage"
)

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, payload []byte, destinationName string) (*models.UploadConfirmation, error) {
	args := m.Called(string(payload), destinationName)
	if c, ok := args.Get(0).(*models.UploadConfirmation); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUploader) Ping(ctx context.Context) error { return nil }
func (m *mockUploader) Provider() string { return "s3" }
func (m *mockUploader) Bucket() string { return "sintegra-upload" }
func (m *mockUploader) Folder() string { return "EXTRACT/" }

const (
	validFile   = "12345678000195\n11222333000181\n"
	objectName  = "cnpjs_05_01_2024_09_03_07.txt"
	maxFileSize = 1 << 20
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, uploader *mockUploader) *gin.Engine {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := config.UploadConfig{
		MaxSizeMB:         1,
		AllowedExtensions: []string{".txt"},
		AllowEmpty:        true,
		Timezone:          "UTC",
	}
	clock := func() time.Time { return time.Date(2024, 1, 5, 9, 3, 7, 0, time.UTC) }

	store := session.NewRedisStore(nil, time.Hour, logger)
	svc := services.NewUploadService(cfg, store, uploader, services.NewMetrics(), logger, services.WithClock(clock))
	h := NewUploadHandler(svc, maxFileSize, logger)

	r := gin.New()
	r.POST("/api/v1/validate", h.Validate)
	r.POST("/api/v1/sessions", h.CreateSession)
	r.GET("/api/v1/sessions/:id", h.GetSession)
	r.DELETE("/api/v1/sessions/:id", h.DeleteSession)
	r.POST("/api/v1/sessions/:id/file", h.SubmitFile)
	r.POST("/api/v1/sessions/:id/confirm", h.ConfirmUpload)
	r.POST("/api/v1/sessions/:id/reset", h.ResetSession)
	return r
}

func multipartRequest(t *testing.T, path, fileName string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func createSession(t *testing.T, r *gin.Engine) string {
	t.Helper()

	w := serve(r, httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil))
	require.Equal(t, http.StatusCreated, w.Code)

	var view models.SessionView
	decodeBody(t, w, &view)
	assert.Equal(t, string(session.StateAwaitingFile), view.State)
	return view.ID
}

func TestValidate_OneBadLine(t *testing.T) {
	r := newTestRouter(t, &mockUploader{})

	w := serve(r, multipartRequest(t, "/api/v1/validate", "cnpjs.txt", []byte("12345678000195\nabc\n11222333000181\n")))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp models.ValidationResponse
	decodeBody(t, w, &resp)
	assert.False(t, resp.Report.Valid)
	require.Len(t, resp.Report.Errors, 1)
	assert.Equal(t, 2, resp.Report.Errors[0].Line)
	assert.Equal(t, "abc", resp.Report.Errors[0].Raw)
	assert.Equal(t, 3, resp.Report.Summary.TotalLines)
}

func TestValidate_Valid(t *testing.T) {
	r := newTestRouter(t, &mockUploader{})

	w := serve(r, multipartRequest(t, "/api/v1/validate", "cnpjs.txt", []byte(validFile)))
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ValidationResponse
	decodeBody(t, w, &resp)
	assert.True(t, resp.Report.Valid)
	assert.Equal(t, "O arquivo contém 2 CNPJs válidos em 2 linhas.", resp.Message)
}

func TestValidate_Rejections(t *testing.T) {
	r := newTestRouter(t, &mockUploader{})

	tests := []struct {
		name     string
		req      *http.Request
		wantCode int
		errCode  string
	}{
		{
			name:     "missing file field",
			req:      httptest.NewRequest(http.MethodPost, "/api/v1/validate", nil),
			wantCode: http.StatusBadRequest,
			errCode:  models.ErrorCodeInvalidRequest,
		},
		{
			name:     "wrong extension",
			req:      multipartRequest(t, "/api/v1/validate", "cnpjs.csv", []byte(validFile)),
			wantCode: http.StatusUnsupportedMediaType,
			errCode:  models.ErrorCodeInvalidFile,
		},
		{
			name:     "not utf-8",
			req:      multipartRequest(t, "/api/v1/validate", "cnpjs.txt", []byte("12345678000195\n\xe9\n")),
			wantCode: http.StatusUnprocessableEntity,
			errCode:  models.ErrorCodeDecodeError,
		},
		{
			name:     "too large",
			req:      multipartRequest(t, "/api/v1/validate", "cnpjs.txt", bytes.Repeat([]byte("1"), maxFileSize+1)),
			wantCode: http.StatusRequestEntityTooLarge,
			errCode:  models.ErrorCodeFileTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, tt.req)
			require.Equal(t, tt.wantCode, w.Code)

			var resp models.ErrorResponse
			decodeBody(t, w, &resp)
			assert.Equal(t, tt.errCode, resp.Code)
		})
	}
}

func TestSessionFlow(t *testing.T) {
	uploader := &mockUploader{}
	r := newTestRouter(t, uploader)
	id := createSession(t, r)

	w := serve(r, multipartRequest(t, "/api/v1/sessions/"+id+"/file", "cnpjs.txt", []byte(validFile)))
	require.Equal(t, http.StatusOK, w.Code)

	var validation models.ValidationResponse
	decodeBody(t, w, &validation)
	require.NotNil(t, validation.Session)
	assert.Equal(t, string(session.StateAwaitingConfirm), validation.Session.State)

	uploader.On("Upload", validFile, objectName).Return(&models.UploadConfirmation{
		Provider:   "s3",
		Bucket:     "sintegra-upload",
		ObjectPath: "EXTRACT/" + objectName,
		Name:       objectName,
	}, nil).Once()

	w = serve(r, httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/confirm", nil))
	require.Equal(t, http.StatusCreated, w.Code)

	var upload models.UploadResponse
	decodeBody(t, w, &upload)
	assert.Equal(t, "EXTRACT/"+objectName, upload.Confirmation.ObjectPath)
	assert.Equal(t, "Arquivo enviado com sucesso para a pasta EXTRACT do bucket: sintegra-upload com o nome "+objectName, upload.Message)
	assert.True(t, upload.Session.Uploaded)

	// a second file is refused until the session is reset
	w = serve(r, multipartRequest(t, "/api/v1/sessions/"+id+"/file", "cnpjs.txt", []byte(validFile)))
	require.Equal(t, http.StatusConflict, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/reset", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var view models.SessionView
	decodeBody(t, w, &view)
	assert.False(t, view.Uploaded)
	assert.Equal(t, 2, view.Cycle)

	w = serve(r, httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/"+id, nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	uploader.AssertExpectations(t)
}

func TestSubmitFile_ValidationFailed(t *testing.T) {
	r := newTestRouter(t, &mockUploader{})
	id := createSession(t, r)

	w := serve(r, multipartRequest(t, "/api/v1/sessions/"+id+"/file", "cnpjs.txt", []byte("abc\n12345678000195\n")))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp models.ValidationResponse
	decodeBody(t, w, &resp)
	require.Len(t, resp.Report.Errors, 1)
	assert.Equal(t, 1, resp.Report.Errors[0].Line)
	assert.Equal(t, string(session.StateValidatedFailed), resp.Session.State)

	w = serve(r, httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/confirm", nil))
	require.Equal(t, http.StatusConflict, w.Code)

	var errResp models.ErrorResponse
	decodeBody(t, w, &errResp)
	assert.Equal(t, models.ErrorCodeNothingToUpload, errResp.Code)
}

func TestConfirmUpload_StorageFailure(t *testing.T) {
	uploader := &mockUploader{}
	r := newTestRouter(t, uploader)
	id := createSession(t, r)

	w := serve(r, multipartRequest(t, "/api/v1/sessions/"+id+"/file", "cnpjs.txt", []byte(validFile)))
	require.Equal(t, http.StatusOK, w.Code)

	uploadErr := &storage.UploadError{Op: "PutObject", Bucket: "sintegra-upload", Key: "EXTRACT/" + objectName, Err: errors.New("access denied")}
	uploader.On("Upload", validFile, objectName).Return(nil, uploadErr).Once()

	w = serve(r, httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/confirm", nil))
	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp models.ErrorResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, models.ErrorCodeUploadFailed, resp.Code)
	assert.Contains(t, resp.Message, "access denied")

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var view models.SessionView
	decodeBody(t, w, &view)
	assert.Equal(t, string(session.StateAwaitingConfirm), view.State)
	assert.Equal(t, 1, view.Attempts)
	assert.False(t, view.Uploaded)
	uploader.AssertExpectations(t)
}

func TestSessionNotFound(t *testing.T) {
	r := newTestRouter(t, &mockUploader{})

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/v1/sessions/missing", nil),
		httptest.NewRequest(http.MethodPost, "/api/v1/sessions/missing/confirm", nil),
		httptest.NewRequest(http.MethodPost, "/api/v1/sessions/missing/reset", nil),
		multipartRequest(t, "/api/v1/sessions/missing/file", "cnpjs.txt", []byte(validFile)),
	} {
		w := serve(r, req)
		assert.Equal(t, http.StatusNotFound, w.Code, req.URL.Path)

		var resp models.ErrorResponse
		decodeBody(t, w, &resp)
		assert.Equal(t, models.ErrorCodeSessionNotFound, resp.Code)
	}
}

func TestMapError_Unknown(t *testing.T) {
	m := mapError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, m.status)
	assert.Equal(t, models.ErrorCodeInternalError, m.code)
}
