package file

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestDiskStoreWriteRead(t *testing.T) {
	store := NewDiskStore(filepath.Join(t.TempDir(), "blobs"))

	payload := []byte("some bytes")
	if err := store.Write(context.Background(), "abc", payload); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	data, err := store.Read(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if string(data) != string(payload) {
		t.Fatalf("content mismatch: %q", data)
	}
}

func TestDiskStoreMissingBlob(t *testing.T) {
	store := NewDiskStore(t.TempDir())

	if _, err := store.Read(context.Background(), "nope"); !errors.Is(err, ErrBlobNotFound) {
		t.Fatalf("expected ErrBlobNotFound, got %v", err)
	}
}

func TestVariantKey(t *testing.T) {
	if got := VariantKey("abc", ""); got != "abc" {
		t.Fatalf("base key must stay untouched, got %s", got)
	}
	if got := VariantKey("abc", "250"); got != "abc_250" {
		t.Fatalf("expected abc_250, got %s", got)
	}
}

func TestDiskStoreVariantsShareBaseKey(t *testing.T) {
	store := NewDiskStore(t.TempDir())

	if err := store.Write(context.Background(), "base", []byte("full")); err != nil {
		t.Fatalf("Write base: %v", err)
	}
	if err := store.Write(context.Background(), VariantKey("base", "100"), []byte("tiny")); err != nil {
		t.Fatalf("Write variant: %v", err)
	}

	full, err := store.Read(context.Background(), "base")
	if err != nil || string(full) != "full" {
		t.Fatalf("base blob mismatch: %q %v", full, err)
	}
	tiny, err := store.Read(context.Background(), VariantKey("base", "100"))
	if err != nil || string(tiny) != "tiny" {
		t.Fatalf("variant blob mismatch: %q %v", tiny, err)
	}

	if _, err := store.Read(context.Background(), VariantKey("base", "500")); !errors.Is(err, ErrBlobNotFound) {
		t.Fatalf("unproduced variant must be ErrBlobNotFound, got %v", err)
	}
}
