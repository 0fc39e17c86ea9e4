package model

import (
	"time"

	"compta-billing-platform/internal/domain"
)

// Document is a file stored on behalf of a company (invoices, payslips,
// proof-of-payment justificatifs and the like).
type Document struct {
	ID         string
	CompanyID  string
	UploadedBy string
	Label      string
	Path       string
	SizeBytes  int64
	MimeType   string
	CreatedAt  time.Time
}

// NewDocument validates and constructs a document record.
func NewDocument(id, companyID, uploadedBy, label, path string, size int64, mimeType string) (*Document, error) {
	if id == "" || companyID == "" || path == "" || size < 0 {
		return nil, domain.ErrInvalidArgument
	}
	if label == "" {
		label = path
	}
	return &Document{
		ID:         id,
		CompanyID:  companyID,
		UploadedBy: uploadedBy,
		Label:      label,
		Path:       path,
		SizeBytes:  size,
		MimeType:   mimeType,
		CreatedAt:  time.Now(),
	}, nil
}
