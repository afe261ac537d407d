package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"rfmseg/internal/rfm"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// errMissingFile is returned when the multipart form has no "file" field.
var errMissingFile = errors.New("missing upload field \"file\"")

// runsHandler holds the segmentation service and implements the HTTP handlers for runs.
type runsHandler struct {
	runService     *rfm.Service
	logger         *zap.Logger
	maxUploadBytes int64
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(runService *rfm.Service, logger *zap.Logger, maxUploadBytes int64) *runsHandler {
	return &runsHandler{
		runService:     runService,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// handleUploadForm handles GET /.
func (h *runsHandler) handleUploadForm(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "upload.html", gin.H{})
}

// handleUploadPage handles POST / and renders the result page.
func (h *runsHandler) handleUploadPage(ctx *gin.Context) {
	run, err := h.analyzeUpload(ctx)
	if err != nil {
		status, msg := errorStatus(err)
		ctx.HTML(status, "upload.html", gin.H{"Error": msg})
		return
	}
	ctx.HTML(http.StatusOK, "result.html", gin.H{
		"Run":     run,
		"ImgFile": run.ImageURL,
	})
}

// handleCreateRun handles POST /api/runs.
func (h *runsHandler) handleCreateRun(ctx *gin.Context) {
	run, err := h.analyzeUpload(ctx)
	if err != nil {
		status, msg := errorStatus(err)
		ctx.JSON(status, gin.H{"error": msg})
		return
	}
	ctx.JSON(http.StatusCreated, run)
}

func (h *runsHandler) handleListRuns(ctx *gin.Context) {
	runs, err := h.runService.ListRuns()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"results": runs, "count": len(runs)})
}

func (h *runsHandler) handleGetRun(ctx *gin.Context) {
	run, err := h.runService.GetRun(ctx.Param("id"))
	if err != nil {
		status, msg := errorStatus(err)
		ctx.JSON(status, gin.H{"error": msg})
		return
	}
	ctx.JSON(http.StatusOK, run)
}

// handleExportRun handles GET /api/runs/:id/rfm.csv.
func (h *runsHandler) handleExportRun(ctx *gin.Context) {
	id := ctx.Param("id")
	var buf bytes.Buffer
	if err := h.runService.ExportRun(id, &buf); err != nil {
		if !errors.Is(err, rfm.ErrNotFound) {
			h.logger.Error("failed to export run", zap.String("run_id", id), zap.Error(err))
		}
		status, msg := errorStatus(err)
		ctx.JSON(status, gin.H{"error": msg})
		return
	}
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "rfm-"+id+".csv"))
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// analyzeUpload runs the pipeline on the multipart field "file".
func (h *runsHandler) analyzeUpload(ctx *gin.Context) (*rfm.Run, error) {
	if h.maxUploadBytes > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, h.maxUploadBytes)
	}
	fh, err := ctx.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, tooLarge
		}
		h.logger.Warn("upload without file", zap.Error(err))
		return nil, errMissingFile
	}

	f, err := fh.Open()
	if err != nil {
		h.logger.Error("failed to open upload", zap.String("filename", fh.Filename), zap.Error(err))
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	run, err := h.runService.Analyze(fh.Filename, f)
	if err != nil {
		if !rfm.IsInputError(err) {
			h.logger.Error("failed to analyze upload", zap.String("filename", fh.Filename), zap.Error(err))
		}
		return nil, err
	}
	return run, nil
}

// errorStatus maps an error to the HTTP status and the message shown to the client.
func errorStatus(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, rfm.ErrNotFound):
		return http.StatusNotFound, "run not found"
	case errors.Is(err, errMissingFile):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, fmt.Sprintf("upload larger than %d bytes", tooLarge.Limit)
	case errors.Is(err, rfm.ErrMalformedCSV), errors.Is(err, rfm.ErrMissingColumns):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, rfm.ErrInvalidDate), errors.Is(err, rfm.ErrNoCustomers):
		return http.StatusUnprocessableEntity, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
