package llm

import (
	"context"
	"errors"
)

// ExtractionPrompt is the fixed instruction sent with every document. The
// model replies in free text; field scraping happens downstream.
const ExtractionPrompt = "This is a certificate document. Extract the following information: " +
	"full name of certificate holder, certificate ID or number, issue date (in YYYY-MM-DD format), " +
	"and expiry date (in YYYY-MM-DD format if present)."

// Client abstracts inference providers for certificate field extraction.
type Client interface {
	DescribeDocument(ctx context.Context, input DescribeInput) (string, error)
}

// DescribeInput carries the document content for one extraction call.
// Exactly one of Text or ImageData is set: PDFs have their text extracted
// locally and travel as Text, images travel as raw bytes.
type DescribeInput struct {
	Text      string
	ImageData []byte
	ImageMime string
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("llm provider not configured")

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

// DescribeDocument returns ErrNotConfigured.
func (PlaceholderClient) DescribeDocument(ctx context.Context, input DescribeInput) (string, error) {
	_ = ctx
	_ = input
	return "", ErrNotConfigured
}
