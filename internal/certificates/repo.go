package certificates

import "context"

// Repo defines persistence operations for certificate records.
type Repo interface {
	Create(ctx context.Context, cert Certificate) error
	GetByCertID(ctx context.Context, certID string) (Certificate, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Certificate, error)
}
