package analyze

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"certverify-backend/internal/shared/metrics"
	"certverify-backend/internal/shared/server/respond"
)

const maxAnalyzeSize = 10 << 20 // 10MB

// Handler wires the analysis endpoint to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the analysis route.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze-certificate", h.analyze)
}

func (h *Handler) analyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAnalyzeSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "No file provided", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	metrics.IncAnalyze()
	start := time.Now()
	extraction, err := h.Svc.Analyze(c.Request.Context(), data, fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
	metrics.ObserveAnalyzeDuration(float64(time.Since(start).Microseconds()) / 1000.0)
	if err != nil {
		// Extraction failure is non-fatal to uploading; callers treat this
		// as "no suggestions available".
		metrics.IncAnalyzeFailed()
		respond.JSON(c, http.StatusBadGateway, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	respond.OK(c, gin.H{
		"success":     true,
		"certificate": extraction.Fields,
		"rawText":     extraction.RawText,
	})
}
