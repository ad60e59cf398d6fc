package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const mimePDF = "application/pdf"

// TextFromBytes extracts plain text from an in-memory PDF payload. Image
// documents carry no extractable text and are rejected here; they go to the
// inference model as-is.
func TextFromBytes(ctx context.Context, data []byte, mimeType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !IsPDF(mimeType, fileName) {
		return "", fmt.Errorf("unsupported mime type: %s", cleanMime(mimeType))
	}
	return extractPDF(data)
}

// IsPDF reports whether the payload is a PDF by mime type or file extension.
func IsPDF(mimeType string, fileName string) bool {
	if cleanMime(mimeType) == mimePDF {
		return true
	}
	return strings.ToLower(filepath.Ext(fileName)) == ".pdf"
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func cleanMime(mimeType string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
}
