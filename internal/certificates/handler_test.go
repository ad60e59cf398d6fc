package certificates

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(svc *Service, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if userID != "" {
		router.Use(func(c *gin.Context) {
			c.Set("userId", userID)
			c.Next()
		})
	}
	api := router.Group("/api/v1")
	NewHandler(svc).RegisterRoutes(api)
	return router
}

func multipartUpload(t *testing.T, fields map[string]string, fileName, contentType string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="file"; filename="` + fileName + `"`}
	header["Content-Type"] = []string{contentType}
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte("file bytes")); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestUploadThenVerify(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo(), Store: newCountingStore()}
	router := newTestRouter(svc, "user-1")

	body, contentType := multipartUpload(t, map[string]string{
		"name":      "Jane Doe",
		"certId":    "CERT-A1B2C3D4",
		"issueDate": "2023-01-01",
	}, "certificate.pdf", "application/pdf")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/certificates", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		Success     bool `json:"success"`
		Certificate struct {
			ID        string `json:"id"`
			Name      string `json:"name"`
			IssueDate string `json:"issueDate"`
			FileURL   string `json:"fileUrl"`
		} `json:"certificate"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if !created.Success {
		t.Fatalf("expected success=true")
	}
	if created.Certificate.ID != "CERT-A1B2C3D4" {
		t.Fatalf("expected id CERT-A1B2C3D4, got %q", created.Certificate.ID)
	}
	if created.Certificate.IssueDate != "2023-01-01" {
		t.Fatalf("expected issueDate 2023-01-01, got %q", created.Certificate.IssueDate)
	}
	if created.Certificate.FileURL == "" {
		t.Fatalf("expected owner response to carry file url")
	}

	verifyReq := httptest.NewRequest(http.MethodGet, "/api/v1/certificates/verify?certId=CERT-A1B2C3D4", nil)
	verifyResp := httptest.NewRecorder()
	router.ServeHTTP(verifyResp, verifyReq)
	if verifyResp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", verifyResp.Code)
	}

	var verified struct {
		IsVerified  bool `json:"isVerified"`
		Certificate struct {
			Name    string `json:"name"`
			FileURL string `json:"fileUrl"`
		} `json:"certificate"`
	}
	if err := json.Unmarshal(verifyResp.Body.Bytes(), &verified); err != nil {
		t.Fatalf("decode verify response: %v", err)
	}
	if !verified.IsVerified {
		t.Fatalf("expected isVerified=true")
	}
	if verified.Certificate.Name != "Jane Doe" {
		t.Fatalf("expected holder Jane Doe, got %q", verified.Certificate.Name)
	}
	if verified.Certificate.FileURL != "" {
		t.Fatalf("public verify response must not expose file url")
	}
}

func TestVerifyUnknownID(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo(), Store: newCountingStore()}
	router := newTestRouter(svc, "")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/certificates/verify?certId=CERT-UNKNOWN", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var verified struct {
		IsVerified bool `json:"isVerified"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &verified); err != nil {
		t.Fatalf("decode verify response: %v", err)
	}
	if verified.IsVerified {
		t.Fatalf("expected isVerified=false")
	}
}

func TestVerifyMissingIDRejected(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo(), Store: newCountingStore()}
	router := newTestRouter(svc, "")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/certificates/verify", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestUploadRequiresLogin(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo(), Store: newCountingStore()}
	router := newTestRouter(svc, "")

	body, contentType := multipartUpload(t, map[string]string{
		"name":      "Jane Doe",
		"issueDate": "2023-01-01",
	}, "certificate.pdf", "application/pdf")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/certificates", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestUploadDuplicateConflict(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo(), Store: newCountingStore()}
	router := newTestRouter(svc, "user-1")

	for i, wantCode := range []int{http.StatusCreated, http.StatusConflict} {
		body, contentType := multipartUpload(t, map[string]string{
			"name":      "Jane Doe",
			"certId":    "CERT-A1B2C3D4",
			"issueDate": "2023-01-01",
		}, "certificate.pdf", "application/pdf")

		req := httptest.NewRequest(http.MethodPost, "/api/v1/certificates", body)
		req.Header.Set("Content-Type", contentType)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != wantCode {
			t.Fatalf("attempt %d: expected %d, got %d", i+1, wantCode, resp.Code)
		}
		if wantCode == http.StatusConflict {
			var errResp struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal(resp.Body.Bytes(), &errResp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if errResp.Error.Code != "duplicate_id" {
				t.Fatalf("expected duplicate_id, got %q", errResp.Error.Code)
			}
		}
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo(), Store: newCountingStore()}
	router := newTestRouter(svc, "user-1")

	body, contentType := multipartUpload(t, map[string]string{
		"name":      "Jane Doe",
		"issueDate": "2023-01-01",
	}, "certificate.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/certificates", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestListReturnsOwnCertificates(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo(), Store: newCountingStore()}
	router := newTestRouter(svc, "user-1")

	body, contentType := multipartUpload(t, map[string]string{
		"name":      "Jane Doe",
		"certId":    "CERT-A1B2C3D4",
		"issueDate": "2023-01-01",
	}, "certificate.pdf", "application/pdf")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/certificates", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	listReq := httptest.NewRequest(http.MethodGet, "/api/v1/certificates", nil)
	listResp := httptest.NewRecorder()
	router.ServeHTTP(listResp, listReq)
	if listResp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", listResp.Code)
	}

	var list []CertificateResponse
	if err := json.Unmarshal(listResp.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 certificate, got %d", len(list))
	}
	if list[0].CertID != "CERT-A1B2C3D4" {
		t.Fatalf("unexpected cert %q", list[0].CertID)
	}
}
