package storage

import (
	"context"
	"io"
)

// FileStorage is the blob-store collaborator for resumes and payslips.
// Implementations return opaque URLs; the record layer never inspects them.
type FileStorage interface {
	// Upload stores the file under path and returns its public URL.
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Delete removes a file.
	Delete(ctx context.Context, path string) error
}
