package file

import "context"

// BlobStore persists raw file content under generated keys. Size variants are
// stored under the base key with a "_<size>" suffix by the thumbnail worker;
// reading a key that was never written returns ErrBlobNotFound.
type BlobStore interface {
	Write(ctx context.Context, key string, data []byte) error
	Read(ctx context.Context, key string) ([]byte, error)
}

// VariantKey composes the storage key for a size variant of a blob.
func VariantKey(key, size string) string {
	if size == "" {
		return key
	}
	return key + "_" + size
}
