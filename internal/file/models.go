package file

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Type discriminates the three kinds of entities.
type Type string

const (
	TypeFile   Type = "file"
	TypeImage  Type = "image"
	TypeFolder Type = "folder"
)

// Valid reports whether t is one of the allowed entity types.
func (t Type) Valid() bool {
	switch t {
	case TypeFile, TypeImage, TypeFolder:
		return true
	}
	return false
}

// Entity is a stored file, image or folder record. LocalPath is the content
// store key for file/image entities and is never serialized; folders carry no
// content.
type Entity struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Type      Type
	ParentID  uuid.NullUUID
	IsPublic  bool
	LocalPath string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// View is the external representation of an entity.
type View struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"userId"`
	Name     string    `json:"name"`
	Type     Type      `json:"type"`
	IsPublic bool      `json:"isPublic"`
	ParentID ParentID  `json:"parentId"`
}

// View strips internal fields for response payloads.
func (e Entity) View() View {
	return View{
		ID:       e.ID,
		UserID:   e.UserID,
		Name:     e.Name,
		Type:     e.Type,
		IsPublic: e.IsPublic,
		ParentID: ParentID{e.ParentID},
	}
}

// ParentID marshals as the literal 0 at the root and as the folder id
// otherwise, matching the wire contract.
type ParentID struct {
	uuid.NullUUID
}

// MarshalJSON implements json.Marshaler.
func (p ParentID) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("0"), nil
	}
	return json.Marshal(p.UUID.String())
}

// UploadRequest is the raw create-entity payload before validation.
type UploadRequest struct {
	Name     string     `json:"name"`
	Type     string     `json:"type"`
	Data     string     `json:"data"`
	IsPublic bool       `json:"isPublic"`
	ParentID FlexString `json:"parentId"`
}

// FlexString accepts either a JSON string or a bare number; clients send
// parentId both as "0" and as 0.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(b)
	return nil
}
