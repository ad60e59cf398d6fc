package util

import (
	"errors"
	"strings"
)

// SanitizeCertID reduces a certificate identifier to a safe storage path
// segment, keeping only [A-Za-z0-9].
func SanitizeCertID(certID string) string {
	var b strings.Builder
	for _, r := range certID {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FileExtension returns the lowercase extension of a file name without the
// leading dot, or "" when the name has none.
func FileExtension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	ext := strings.ToLower(name[idx+1:])
	if strings.ContainsAny(ext, "/\\") {
		return ""
	}
	return ext
}

// SanitizeFileName removes path separators and rejects traversal patterns.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	return s, nil
}
