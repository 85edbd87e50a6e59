package file

import "errors"

var (
	// ErrMissingName signals an upload without a display name.
	ErrMissingName = errors.New("missing name")
	// ErrMissingType signals an upload with an absent or unknown type.
	ErrMissingType = errors.New("missing type")
	// ErrMissingData signals a non-folder upload without content.
	ErrMissingData = errors.New("missing data")
	// ErrParentNotFound signals a parentId that resolves to nothing.
	ErrParentNotFound = errors.New("parent not found")
	// ErrParentNotAFolder signals a parentId that resolves to a non-folder.
	ErrParentNotAFolder = errors.New("parent is not a folder")
	// ErrNotFound covers absent entities, foreign private entities and
	// ownership mismatches alike; callers must not be able to tell them apart.
	ErrNotFound = errors.New("not found")
	// ErrNotAFile is returned when content is requested for a folder.
	ErrNotAFile = errors.New("a folder doesn't have content")
	// ErrContentWrite wraps content-store failures during creation.
	ErrContentWrite = errors.New("content write failed")
	// ErrBlobNotFound signals a missing blob or size variant.
	ErrBlobNotFound = errors.New("blob not found")
)
