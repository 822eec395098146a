// Package blobstore stores product photos in a gocloud.dev bucket.
package blobstore

import (
	"context"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

const keyPrefix = "products"

type Bucket struct {
	bucket        *blob.Bucket
	publicBaseURL string
	logger        *zap.Logger
}

// Open opens the bucket at url, e.g. "file:///var/lib/storefront/photos" or "mem://".
func Open(ctx context.Context, url, publicBaseURL string, logger *zap.Logger) (*Bucket, error) {
	b, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "open bucket %s", url)
	}
	return New(b, publicBaseURL, logger), nil
}

func New(b *blob.Bucket, publicBaseURL string, logger *zap.Logger) *Bucket {
	return &Bucket{
		bucket:        b,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
		logger:        logger,
	}
}

// Upload writes every file and returns the stored photos in input order.
// Files already written are removed again when a later write fails.
func (b *Bucket) Upload(ctx context.Context, files []port.File) ([]domain.Photo, error) {
	photos := make([]domain.Photo, 0, len(files))
	for _, f := range files {
		key := path.Join(keyPrefix, uuid.New().String()+path.Ext(f.Name))
		opts := &blob.WriterOptions{ContentType: f.ContentType}
		if err := b.bucket.WriteAll(ctx, key, f.Data, opts); err != nil {
			if cleanupErr := b.Delete(ctx, domainPhotoIDs(photos)); cleanupErr != nil {
				b.logger.Warn("failed to remove partial upload", zap.Error(cleanupErr))
			}
			return nil, errors.Wrapf(err, "upload %s", f.Name)
		}
		photos = append(photos, domain.Photo{PublicID: key, URL: b.publicBaseURL + "/" + key})
	}
	return photos, nil
}

// Delete removes the given objects. Missing objects are ignored.
func (b *Bucket) Delete(ctx context.Context, publicIDs []string) error {
	for _, id := range publicIDs {
		err := b.bucket.Delete(ctx, id)
		if err != nil && gcerrors.Code(err) != gcerrors.NotFound {
			return errors.Wrapf(err, "delete %s", id)
		}
	}
	return nil
}

// Exists reports whether an object is stored under publicID.
func (b *Bucket) Exists(ctx context.Context, publicID string) (bool, error) {
	ok, err := b.bucket.Exists(ctx, publicID)
	if err != nil {
		return false, errors.Wrapf(err, "stat %s", publicID)
	}
	return ok, nil
}

func (b *Bucket) Close() error {
	return b.bucket.Close()
}

func domainPhotoIDs(photos []domain.Photo) []string {
	return domain.Product{Photos: photos}.PhotoIDs()
}
