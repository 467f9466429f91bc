package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/cnpj-upload/internal/models"
	"github.com/nexconsult/cnpj-upload/internal/services"
)

// multipart headers and boundaries on top of the file itself
const formOverhead = 1 << 20

// UploadHandler handles validation and upload session requests
type UploadHandler struct {
	uploadService services.UploadServiceInterface
	maxBytes      int64
	logger        *logrus.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService services.UploadServiceInterface, maxBytes int64, logger *logrus.Logger) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		maxBytes:      maxBytes,
		logger:        logger,
	}
}

// Validate handles stateless file validation
// @Summary Validate a CNPJ file
// @Description Scan a text file with one CNPJ per line and report every invalid line
// @Tags Validation
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Text file with one CNPJ per line"
// @Success 200 {object} models.ValidationResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 413 {object} models.ErrorResponse
// @Failure 415 {object} models.ErrorResponse
// @Failure 422 {object} models.ValidationResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /validate [post]
func (h *UploadHandler) Validate(c *gin.Context) {
	requestID := c.GetString("request_id")

	fileName, raw, ok := h.readFile(c)
	if !ok {
		return
	}

	report, err := h.uploadService.Validate(fileName, raw)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"file":       fileName,
			"error":      err.Error(),
		}).Warn("File rejected")
		respondError(c, err, nil)
		return
	}

	response := models.ValidationResponse{
		FileName: fileName,
		Report:   *report,
		Message:  reportMessage(*report),
	}

	if !report.Valid {
		c.JSON(http.StatusUnprocessableEntity, response)
		return
	}
	c.JSON(http.StatusOK, response)
}

// CreateSession handles session creation
// @Summary Create an upload session
// @Description Start a new validate, confirm and upload cycle
// @Tags Sessions
// @Produce json
// @Success 201 {object} models.SessionView
// @Failure 500 {object} models.ErrorResponse
// @Router /sessions [post]
func (h *UploadHandler) CreateSession(c *gin.Context) {
	sess, err := h.uploadService.CreateSession(c.Request.Context())
	if err != nil {
		h.logError(c, "Failed to create session", err)
		respondError(c, err, nil)
		return
	}

	c.JSON(http.StatusCreated, sess.View())
}

// GetSession handles session lookups
// @Summary Get an upload session
// @Description Get the state of an upload session. The file content is never returned.
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.SessionView
// @Failure 404 {object} models.ErrorResponse
// @Router /sessions/{id} [get]
func (h *UploadHandler) GetSession(c *gin.Context) {
	sess, err := h.uploadService.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, sess.View())
}

// SubmitFile handles file submission into a session
// @Summary Submit a file to a session
// @Description Validate a file and keep it pending confirmation. A file with invalid lines is reported and discarded.
// @Tags Sessions
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID"
// @Param file formData file true "Text file with one CNPJ per line"
// @Success 200 {object} models.ValidationResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 413 {object} models.ErrorResponse
// @Failure 422 {object} models.ValidationResponse
// @Router /sessions/{id}/file [post]
func (h *UploadHandler) SubmitFile(c *gin.Context) {
	requestID := c.GetString("request_id")
	id := c.Param("id")

	fileName, raw, ok := h.readFile(c)
	if !ok {
		return
	}

	sess, err := h.uploadService.SubmitFile(c.Request.Context(), id, fileName, raw)
	if err != nil && !errors.Is(err, services.ErrValidationFailed) {
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": id,
			"file":       fileName,
			"error":      err.Error(),
		}).Warn("File not accepted")

		var details interface{}
		if sess != nil {
			details = sess.View()
		}
		respondError(c, err, details)
		return
	}

	response := models.ValidationResponse{
		FileName: fileName,
		Report:   *sess.Report,
		Message:  reportMessage(*sess.Report),
		Session:  sess.View(),
	}

	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, response)
		return
	}
	c.JSON(http.StatusOK, response)
}

// ConfirmUpload handles upload confirmation
// @Summary Confirm the upload
// @Description Upload the validated file of a session to the bucket. On failure the file stays pending and the call can be repeated.
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 201 {object} models.UploadResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /sessions/{id}/confirm [post]
func (h *UploadHandler) ConfirmUpload(c *gin.Context) {
	requestID := c.GetString("request_id")
	id := c.Param("id")

	confirmation, sess, err := h.uploadService.ConfirmUpload(c.Request.Context(), id)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": id,
			"error":      err.Error(),
		}).Error("Upload not completed")

		var details interface{}
		if sess != nil {
			details = sess.View()
		}
		respondError(c, err, details)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": id,
		"object":     confirmation.ObjectPath,
	}).Info("Upload confirmed")

	c.JSON(http.StatusCreated, models.UploadResponse{
		Message: fmt.Sprintf("Arquivo enviado com sucesso para a pasta %s do bucket: %s com o nome %s",
			folderLabel(confirmation), confirmation.Bucket, confirmation.Name),
		Confirmation: *confirmation,
		Session:      sess.View(),
	})
}

// ResetSession handles the start of a new cycle
// @Summary Reset an upload session
// @Description Clear the uploaded flag and any pending file so a new file can be sent
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.SessionView
// @Failure 404 {object} models.ErrorResponse
// @Router /sessions/{id}/reset [post]
func (h *UploadHandler) ResetSession(c *gin.Context) {
	sess, err := h.uploadService.ResetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, sess.View())
}

// DeleteSession handles session removal
// @Summary Delete an upload session
// @Tags Sessions
// @Param id path string true "Session ID"
// @Success 204 "No Content"
// @Failure 404 {object} models.ErrorResponse
// @Router /sessions/{id} [delete]
func (h *UploadHandler) DeleteSession(c *gin.Context) {
	if err := h.uploadService.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, nil)
		return
	}

	c.Status(http.StatusNoContent)
}

// readFile reads the multipart "file" field within the size limit. It writes
// the error response itself and returns false when the file cannot be read.
func (h *UploadHandler) readFile(c *gin.Context) (string, []byte, bool) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+formOverhead)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(c, fmt.Errorf("%w: limit %d bytes", services.ErrFileTooLarge, h.maxBytes), nil)
			return "", nil, false
		}
		badRequest(c, models.ErrorCodeInvalidRequest, "Invalid request", "a multipart field named 'file' is required")
		return "", nil, false
	}

	if h.maxBytes > 0 && header.Size > h.maxBytes {
		respondError(c, fmt.Errorf("%w: %d bytes, limit %d", services.ErrFileTooLarge, header.Size, h.maxBytes), nil)
		return "", nil, false
	}

	f, err := header.Open()
	if err != nil {
		h.logError(c, "Failed to open uploaded file", err)
		badRequest(c, models.ErrorCodeInvalidFile, "Invalid file", "the uploaded file could not be read")
		return "", nil, false
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		h.logError(c, "Failed to read uploaded file", err)
		badRequest(c, models.ErrorCodeInvalidFile, "Invalid file", "the uploaded file could not be read")
		return "", nil, false
	}

	return header.Filename, raw, true
}

func (h *UploadHandler) logError(c *gin.Context, msg string, err error) {
	h.logger.WithFields(logrus.Fields{
		"request_id": c.GetString("request_id"),
		"path":       c.Request.URL.Path,
		"error":      err.Error(),
	}).Error(msg)
}

func reportMessage(report models.ValidationReport) string {
	if !report.Valid {
		return fmt.Sprintf("O arquivo contém %d linhas que não são CNPJs válidos.", len(report.Errors))
	}
	return fmt.Sprintf("O arquivo contém %d CNPJs válidos em %d linhas.",
		report.Summary.ValidCount, report.Summary.TotalLines)
}

func folderLabel(confirmation *models.UploadConfirmation) string {
	folder := strings.TrimSuffix(strings.TrimSuffix(confirmation.ObjectPath, confirmation.Name), "/")
	if folder == "" {
		return "raiz"
	}
	return folder
}
