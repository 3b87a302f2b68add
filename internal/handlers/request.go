package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/request-manager/internal/engine"
	"github.com/jonesrussell/request-manager/internal/importer"
	"github.com/jonesrussell/request-manager/internal/logger"
	"github.com/jonesrussell/request-manager/internal/repository"
	"github.com/jonesrussell/request-manager/internal/xmlexport"
)

type RequestHandler struct {
	engine *engine.Engine
	logger logger.Logger
}

func NewRequestHandler(eng *engine.Engine, log logger.Logger) *RequestHandler {
	return &RequestHandler{
		engine: eng,
		logger: log,
	}
}

// idsBody is the shared body shape of the bulk endpoints.
type idsBody struct {
	RequestIDs []string `json:"requestIds" binding:"required"`
}

func (h *RequestHandler) List(c *gin.Context) {
	requests, err := h.engine.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list requests", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"count":    len(requests),
	})
}

func (h *RequestHandler) Create(c *gin.Context) {
	var input engine.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Debug("Invalid request body",
			logger.String("error", err.Error()),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	created, err := h.engine.Create(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err, "Failed to create request")
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *RequestHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var patch engine.UpdatePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.logger.Debug("Invalid request body",
			logger.String("request_id", id),
			logger.String("error", err.Error()),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	updated, err := h.engine.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.respondError(c, err, "Failed to update request")
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *RequestHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.engine.DeleteOne(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "Failed to delete request")
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

func (h *RequestHandler) BulkDelete(c *gin.Context) {
	var body idsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.engine.DeleteSelected(c.Request.Context(), body.RequestIDs); err != nil {
		h.respondError(c, err, "Failed to delete requests")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *RequestHandler) MarkPendingUpload(c *gin.Context) {
	var body idsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	marked, err := h.engine.MarkPendingUpload(c.Request.Context(), body.RequestIDs)
	if err != nil {
		h.respondError(c, err, "Failed to mark requests for upload")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": marked,
		"count":    len(marked),
	})
}

func (h *RequestHandler) Revert(c *gin.Context) {
	var body idsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	result, err := h.engine.RevertSelected(c.Request.Context(), body.RequestIDs)
	if err != nil {
		h.respondError(c, err, "Failed to revert requests")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *RequestHandler) HardDelete(c *gin.Context) {
	var body idsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.engine.HardDelete(c.Request.Context(), body.RequestIDs); err != nil {
		h.respondError(c, err, "Failed to hard-delete requests")
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// ExportSelected returns the selected requests as JSON for payload review.
func (h *RequestHandler) ExportSelected(c *gin.Context) {
	var body idsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	requests, err := h.engine.ExportSelected(c.Request.Context(), body.RequestIDs)
	if err != nil {
		h.respondError(c, err, "Failed to export requests")
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// ExportXML streams the ERD handoff document for the selected requests.
func (h *RequestHandler) ExportXML(c *gin.Context) {
	var body idsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	requests, err := h.engine.ExportSelected(c.Request.Context(), body.RequestIDs)
	if err != nil {
		h.respondError(c, err, "Failed to export requests")
		return
	}

	doc, err := xmlexport.Generate(requests)
	if err != nil {
		h.logger.Error("Failed to generate export document", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate export document"})
		return
	}

	filename := fmt.Sprintf("tms_export_%s.xml", time.Now().UTC().Format("20060102T150405Z"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/xml; charset=utf-8", doc)
}

// Import creates requests in bulk from an uploaded Excel workbook.
func (h *RequestHandler) Import(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file upload", "details": err.Error()})
		return
	}
	defer file.Close()

	rows, importErrs, err := importer.ParseExcelFile(file)
	if err != nil {
		h.logger.Debug("Unreadable import workbook", logger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable workbook", "details": err.Error()})
		return
	}

	inputs := make([]engine.CreateInput, 0, len(rows))
	for _, row := range rows {
		input, convErr := importer.ToInput(row)
		if convErr != nil {
			importErrs = append(importErrs, importer.ImportError{Row: row.Row, Error: convErr.Error()})
			continue
		}
		inputs = append(inputs, input)
	}

	created, err := h.engine.CreateBatch(c.Request.Context(), inputs)
	if err != nil {
		h.respondError(c, err, "Failed to import requests")
		return
	}

	h.logger.Info("Import completed",
		logger.Int("created", len(created)),
		logger.Int("rejected", len(importErrs)),
	)

	c.JSON(http.StatusOK, gin.H{
		"created":  len(created),
		"requests": created,
		"errors":   importErrs,
	})
}

// SimulateUpload applies upload feedback to every pending request, standing
// in for the R-segment acknowledgement in development environments.
func (h *RequestHandler) SimulateUpload(c *gin.Context) {
	result, err := h.engine.MarkUploaded(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Failed to apply upload feedback")
		return
	}

	c.JSON(http.StatusOK, result)
}

// ResetSnapshot restores the demo dataset.
func (h *RequestHandler) ResetSnapshot(c *gin.Context) {
	seed := repository.SeedRequests()
	if err := h.engine.Reset(c.Request.Context(), seed); err != nil {
		h.respondError(c, err, "Failed to reset snapshot")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "count": len(seed)})
}

func (h *RequestHandler) respondError(c *gin.Context, err error, msg string) {
	var ve *engine.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
	case errors.Is(err, engine.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
	default:
		h.logger.Error(msg, logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
