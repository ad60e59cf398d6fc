package certificates

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"certverify-backend/internal/shared/storage/object"
	"certverify-backend/internal/shared/util"
)

const dateLayout = "2006-01-02"

// Service contains the verification and upload operations.
type Service struct {
	Repo  Repo
	Store object.ObjectStore
}

// VerifyResult is the outcome of a verification lookup.
type VerifyResult struct {
	IsVerified  bool
	Certificate *Certificate
}

// Verify looks up a certificate by its identifier. A missing record is a
// normal negative result; any other store failure propagates as an error so
// callers can distinguish "invalid certificate" from "service unavailable".
func (s *Service) Verify(ctx context.Context, certID string) (VerifyResult, error) {
	certID = strings.TrimSpace(certID)
	if certID == "" {
		return VerifyResult{}, fmt.Errorf("%w: certificate ID is required", ErrInvalidInput)
	}

	cert, err := s.Repo.GetByCertID(ctx, certID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return VerifyResult{IsVerified: false}, nil
		}
		return VerifyResult{}, err
	}
	return VerifyResult{IsVerified: true, Certificate: &cert}, nil
}

// UploadInput carries the proposed record fields for an upload.
type UploadInput struct {
	HolderName string
	CertID     string
	IssueDate  string
	ExpiryDate string
	FileName   string
	MimeType   string
}

// Upload enforces identifier uniqueness, persists the file, and inserts the
// record. The uniqueness pre-check runs before the file write so a rejected
// duplicate leaves no orphaned blob; the unique index behind Repo.Create
// closes the remaining race window.
func (s *Service) Upload(ctx context.Context, userID string, in UploadInput, file io.Reader) (Certificate, error) {
	if strings.TrimSpace(userID) == "" {
		return Certificate{}, ErrUnauthorized
	}

	holderName := strings.TrimSpace(in.HolderName)
	if holderName == "" {
		return Certificate{}, fmt.Errorf("%w: holder name is required", ErrInvalidInput)
	}
	certID := strings.TrimSpace(in.CertID)
	if certID == "" {
		certID = GenerateCertID()
	}
	if strings.TrimSpace(in.IssueDate) == "" {
		return Certificate{}, fmt.Errorf("%w: issue date is required", ErrInvalidInput)
	}
	issueDate, err := time.Parse(dateLayout, strings.TrimSpace(in.IssueDate))
	if err != nil {
		return Certificate{}, fmt.Errorf("%w: issue date must be YYYY-MM-DD", ErrInvalidInput)
	}
	var expiryDate *time.Time
	if raw := strings.TrimSpace(in.ExpiryDate); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return Certificate{}, fmt.Errorf("%w: expiry date must be YYYY-MM-DD", ErrInvalidInput)
		}
		expiryDate = &parsed
	}
	if file == nil || strings.TrimSpace(in.FileName) == "" {
		return Certificate{}, fmt.Errorf("%w: certificate file is required", ErrInvalidInput)
	}

	_, err = s.Repo.GetByCertID(ctx, certID)
	if err == nil {
		return Certificate{}, ErrDuplicateID
	}
	if !errors.Is(err, ErrNotFound) {
		return Certificate{}, err
	}

	now := time.Now().UTC()
	storageKey := buildStorageKey(userID, certID, in.FileName, now)
	if _, err := s.Store.Put(ctx, storageKey, in.MimeType, file); err != nil {
		return Certificate{}, fmt.Errorf("store certificate file: %w", err)
	}

	cert := Certificate{
		ID:         uuid.NewString(),
		CertID:     certID,
		HolderName: holderName,
		IssueDate:  issueDate,
		ExpiryDate: expiryDate,
		UserID:     userID,
		FilePath:   storageKey,
		FileURL:    s.Store.PublicURL(storageKey),
		CreatedAt:  now,
	}

	if err := s.Repo.Create(ctx, cert); err != nil {
		// The blob written above is orphaned here; nothing compensates.
		return Certificate{}, err
	}
	return cert, nil
}

// ListByUser returns the caller's own uploaded records, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Certificate, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUnauthorized
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// GenerateCertID produces an identifier of the form CERT-<8 hex chars> for
// uploads that supply none.
func GenerateCertID() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("CERT-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return "CERT-" + strings.ToUpper(hex.EncodeToString(b[:]))
}

// buildStorageKey derives <userID>/<sanitized certID>_<epoch millis>.<ext>.
// The timestamp suffix keeps retried uploads from colliding.
func buildStorageKey(userID, certID, fileName string, now time.Time) string {
	segment := util.SanitizeCertID(certID)
	key := fmt.Sprintf("%s/%s_%d", userID, segment, now.UnixMilli())
	if ext := util.FileExtension(fileName); ext != "" {
		key += "." + ext
	}
	return key
}
