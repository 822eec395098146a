package port

import (
	"context"

	"github.com/rl1809/storefront/internal/core/domain"
)

// File is an uploaded photo before it reaches blob storage.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type BlobStorage interface {
	Upload(ctx context.Context, files []File) ([]domain.Photo, error)
	Delete(ctx context.Context, publicIDs []string) error
}
