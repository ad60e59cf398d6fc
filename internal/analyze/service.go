package analyze

import (
	"context"
	"fmt"
	"strings"

	"certverify-backend/internal/extract"
	"certverify-backend/internal/llm"
)

// Extraction is the outcome of one analysis call. Fields are advisory and
// always subject to human acceptance before use.
type Extraction struct {
	Fields  Fields
	RawText string
}

// Service runs best-effort field extraction over uploaded documents.
type Service struct {
	LLM llm.Client
}

// Analyze sends the document to the inference model and scrapes its reply.
// One attempt, no retry; a reply with no recognizable labels is still a
// success with empty fields.
func (s *Service) Analyze(ctx context.Context, data []byte, mimeType string, fileName string) (Extraction, error) {
	if len(data) == 0 {
		return Extraction{}, fmt.Errorf("no file provided")
	}

	input, err := buildInput(ctx, data, mimeType, fileName)
	if err != nil {
		return Extraction{}, err
	}

	rawText, err := s.LLM.DescribeDocument(ctx, input)
	if err != nil {
		return Extraction{}, fmt.Errorf("analyze certificate: %w", err)
	}

	return Extraction{
		Fields:  ParseFields(rawText),
		RawText: rawText,
	}, nil
}

func buildInput(ctx context.Context, data []byte, mimeType string, fileName string) (llm.DescribeInput, error) {
	if extract.IsPDF(mimeType, fileName) {
		text, err := extract.TextFromBytes(ctx, data, "application/pdf", fileName)
		if err != nil {
			return llm.DescribeInput{}, fmt.Errorf("extract pdf text: %w", err)
		}
		return llm.DescribeInput{Text: text}, nil
	}

	mime := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	switch mime {
	case "image/png", "image/jpeg":
		return llm.DescribeInput{ImageData: data, ImageMime: mime}, nil
	default:
		return llm.DescribeInput{}, fmt.Errorf("unsupported mime type: %s", mime)
	}
}
