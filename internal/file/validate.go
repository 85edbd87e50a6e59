package file

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// parentLookup is the read-only metadata access validation needs.
type parentLookup interface {
	Get(ctx context.Context, id uuid.UUID) (Entity, error)
}

// uploadParams is a validated, normalized upload ready for persistence.
type uploadParams struct {
	Name     string
	Type     Type
	Data     string
	IsPublic bool
	Parent   uuid.NullUUID
}

// validateUpload checks the request shape against the entity model. Checks
// run in a fixed order so clients always see the first failing field.
func validateUpload(ctx context.Context, req UploadRequest, parents parentLookup) (uploadParams, error) {
	if req.Name == "" {
		return uploadParams{}, ErrMissingName
	}

	typ := Type(req.Type)
	if !typ.Valid() {
		return uploadParams{}, ErrMissingType
	}

	if req.Data == "" && typ != TypeFolder {
		return uploadParams{}, ErrMissingData
	}

	params := uploadParams{
		Name:     req.Name,
		Type:     typ,
		Data:     req.Data,
		IsPublic: req.IsPublic,
	}

	rawParent := string(req.ParentID)
	if rawParent == "" || rawParent == "0" {
		return params, nil
	}

	parentID, err := uuid.Parse(rawParent)
	if err != nil {
		return uploadParams{}, ErrParentNotFound
	}

	parent, err := parents.Get(ctx, parentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return uploadParams{}, ErrParentNotFound
		}
		return uploadParams{}, err
	}
	if parent.Type != TypeFolder {
		return uploadParams{}, ErrParentNotAFolder
	}

	params.Parent = uuid.NullUUID{UUID: parentID, Valid: true}
	return params, nil
}
