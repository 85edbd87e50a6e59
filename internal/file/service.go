package file

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"mime"
	"path/filepath"

	"github.com/abenov/filestash/internal/queue"
	"github.com/google/uuid"
)

// metadataStore abstracts the persistence layer.
type metadataStore interface {
	Create(ctx context.Context, e Entity) (Entity, error)
	Get(ctx context.Context, id uuid.UUID) (Entity, error)
	ListByParent(ctx context.Context, parentID uuid.NullUUID, page int) ([]Entity, error)
	SetPublic(ctx context.Context, id, userID uuid.UUID, public bool) (Entity, error)
}

// jobEmitter submits thumbnail jobs; delivery is best effort.
type jobEmitter interface {
	Emit(ctx context.Context, job queue.ThumbnailJob) error
}

// Service orchestrates entity persistence, listing and retrieval.
type Service struct {
	repo  metadataStore
	blobs BlobStore
	jobs  jobEmitter
}

// NewService constructs a file service.
func NewService(repo metadataStore, blobs BlobStore, jobs jobEmitter) *Service {
	return &Service{repo: repo, blobs: blobs, jobs: jobs}
}

// Upload validates the request and persists a new entity. For non-folder
// types the decoded payload is written to the content store first; if that
// write fails no metadata is created. Image entities get one thumbnail job
// emitted after the insert; emission failures are logged and swallowed.
func (s *Service) Upload(ctx context.Context, userID uuid.UUID, req UploadRequest) (Entity, error) {
	params, err := validateUpload(ctx, req, s.repo)
	if err != nil {
		return Entity{}, err
	}

	entity := Entity{
		UserID:   userID,
		Name:     params.Name,
		Type:     params.Type,
		ParentID: params.Parent,
		IsPublic: params.IsPublic,
	}

	if params.Type != TypeFolder {
		data, err := base64.StdEncoding.DecodeString(params.Data)
		if err != nil {
			return Entity{}, fmt.Errorf("%w: decode payload: %v", ErrContentWrite, err)
		}

		key := uuid.NewString()
		if err := s.blobs.Write(ctx, key, data); err != nil {
			return Entity{}, fmt.Errorf("%w: %v", ErrContentWrite, err)
		}
		entity.LocalPath = key
	}

	stored, err := s.repo.Create(ctx, entity)
	if err != nil {
		return Entity{}, err
	}

	if stored.Type == TypeImage {
		job := queue.ThumbnailJob{FileID: stored.ID, UserID: stored.UserID}
		if err := s.jobs.Emit(ctx, job); err != nil {
			log.Printf("emit thumbnail job for %s: %v", stored.ID, err)
		}
	}

	return stored, nil
}

// Get returns the entity if the requester may read it. A denied read and a
// missing entity are both ErrNotFound.
func (s *Service) Get(ctx context.Context, id, requester uuid.UUID) (Entity, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return Entity{}, err
	}
	if !authorizeRead(e, requester) {
		return Entity{}, ErrNotFound
	}
	return e, nil
}

// List returns one page of entities under the given parent. A parent that
// does not resolve to a folder yields an empty page, not an error.
func (s *Service) List(ctx context.Context, parentID uuid.NullUUID, page int) ([]Entity, error) {
	if page < 0 {
		page = 0
	}

	if parentID.Valid {
		parent, err := s.repo.Get(ctx, parentID.UUID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		if parent.Type != TypeFolder {
			return nil, nil
		}
	}

	return s.repo.ListByParent(ctx, parentID, page)
}

// SetPublic flips the visibility flag of an entity owned by userID.
func (s *Service) SetPublic(ctx context.Context, id, userID uuid.UUID, public bool) (Entity, error) {
	return s.repo.SetPublic(ctx, id, userID, public)
}

// ReadContent serves entity bytes, optionally a size variant, applying the
// same read gate as Get. The returned string is the content type derived
// from the entity name.
func (s *Service) ReadContent(ctx context.Context, id, requester uuid.UUID, size string) ([]byte, string, error) {
	e, err := s.Get(ctx, id, requester)
	if err != nil {
		return nil, "", err
	}

	if e.Type == TypeFolder {
		return nil, "", ErrNotAFile
	}
	if e.LocalPath == "" {
		return nil, "", ErrNotFound
	}

	data, err := s.blobs.Read(ctx, VariantKey(e.LocalPath, size))
	if err != nil {
		if errors.Is(err, ErrBlobNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}

	return data, ContentTypeFor(e.Name), nil
}

// authorizeRead implements the visibility gate: public entities are readable
// by anyone, private ones only by their owner. uuid.Nil is the anonymous
// requester and can only satisfy the public branch.
func authorizeRead(e Entity, requester uuid.UUID) bool {
	if e.IsPublic {
		return true
	}
	return requester != uuid.Nil && e.UserID == requester
}

// ContentTypeFor derives a MIME label from an entity name.
func ContentTypeFor(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
