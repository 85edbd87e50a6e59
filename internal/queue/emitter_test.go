package queue

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

// The worker consumes raw JSON off the list; the field names are part of its
// contract.
func TestThumbnailJobWireShape(t *testing.T) {
	job := ThumbnailJob{FileID: uuid.New(), UserID: uuid.New()}

	raw, err := json.Marshal(job)
	if err != nil {
		t.Fatalf("marshal job: %v", err)
	}

	var decoded map[string]string
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal job: %v", err)
	}

	if decoded["fileId"] != job.FileID.String() {
		t.Fatalf("fileId field missing or wrong: %v", decoded)
	}
	if decoded["userId"] != job.UserID.String() {
		t.Fatalf("userId field missing or wrong: %v", decoded)
	}
	if len(decoded) != 2 {
		t.Fatalf("unexpected extra fields: %v", decoded)
	}
}
