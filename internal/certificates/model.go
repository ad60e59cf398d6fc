package certificates

import "time"

// Certificate is a verifiable record of an issued certificate, owned by the
// user who uploaded it.
type Certificate struct {
	ID         string
	CertID     string
	HolderName string
	IssueDate  time.Time
	ExpiryDate *time.Time
	UserID     string
	FilePath   string
	FileURL    string
	CreatedAt  time.Time
}
