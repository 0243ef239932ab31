package driven

import (
	"context"

	"github.com/custodia-labs/lexsync/internal/core/domain"
)

// RegistryQuery narrows a registry fetch.
type RegistryQuery struct {
	// MaxRecords caps the number of records returned. Zero means no cap.
	MaxRecords int

	// View restricts records to a named registry view.
	View string

	// Formula is a registry-side filter expression.
	Formula string
}

// RegistryClient reads and writes the external source of record.
// Implementations pace and retry their own requests; callers see either
// the complete record set or an error.
type RegistryClient interface {
	// FetchRecords returns every record matching the query.
	FetchRecords(ctx context.Context, query RegistryQuery) ([]domain.RegistryRecord, error)

	// CreateRecord creates one record and returns its id.
	CreateRecord(ctx context.Context, fields map[string]any) (string, error)
}
