package certificates

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"certverify-backend/internal/shared/metrics"
	"certverify-backend/internal/shared/server/middleware"
	"certverify-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

var allowedContentTypes = map[string]struct{}{
	"application/pdf": {},
	"image/png":       {},
	"image/jpeg":      {},
}

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches certificate routes. Verification is public; upload
// and listing require a signed-in user.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/certificates/verify", h.verify)
	authed := rg.Group("", middleware.RequireUser())
	authed.POST("/certificates", h.upload)
	authed.GET("/certificates", h.list)
}

func (h *Handler) verify(c *gin.Context) {
	certID := c.Query("certId")
	c.Set("certId", certID)

	result, err := h.Svc.Verify(c.Request.Context(), certID)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusServiceUnavailable, "store_unavailable", "verification service is unavailable", nil)
		}
		return
	}

	if !result.IsVerified {
		metrics.IncVerifyMiss()
		respond.OK(c, gin.H{"isVerified": false})
		return
	}

	metrics.IncVerifyHit()
	respond.OK(c, gin.H{
		"isVerified":  true,
		"certificate": toResponse(*result.Certificate),
	})
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if _, ok := allowedContentTypes[contentType]; !ok {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file must be PDF, PNG or JPEG", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	in := UploadInput{
		HolderName: c.PostForm("name"),
		CertID:     c.PostForm("certId"),
		IssueDate:  c.PostForm("issueDate"),
		ExpiryDate: c.PostForm("expiryDate"),
		FileName:   fileHeader.Filename,
		MimeType:   contentType,
	}
	c.Set("certId", in.CertID)

	cert, err := h.Svc.Upload(c.Request.Context(), userID, in, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnauthorized):
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "You must be logged in to upload certificates", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrDuplicateID):
			metrics.IncUploadConflict()
			respond.Error(c, http.StatusConflict, "duplicate_id", "Certificate ID already exists in the database", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to upload certificate", nil)
		}
		return
	}

	metrics.IncUpload()
	respond.JSON(c, http.StatusCreated, gin.H{
		"success":     true,
		"certificate": toOwnerResponse(cert),
	})
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if limit > 50 {
		limit = 50
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	certs, err := h.Svc.ListByUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list certificates", nil)
		return
	}

	resp := make([]CertificateResponse, 0, len(certs))
	for _, cert := range certs {
		resp = append(resp, toOwnerResponse(cert))
	}
	respond.OK(c, resp)
}
