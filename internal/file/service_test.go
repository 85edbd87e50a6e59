package file

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/abenov/filestash/internal/queue"
	"github.com/google/uuid"
)

func TestUploadWritesBlobThenMetadata(t *testing.T) {
	repo := newFakeRepo()
	blobs := newFakeBlobStore()
	emitter := &fakeEmitter{}
	service := NewService(repo, blobs, emitter)

	userID := uuid.New()
	payload := []byte("hello world")

	entity, err := service.Upload(context.Background(), userID, UploadRequest{
		Name: "notes.txt",
		Type: "file",
		Data: base64.StdEncoding.EncodeToString(payload),
	})
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	if entity.UserID != userID {
		t.Fatalf("unexpected owner: %s", entity.UserID)
	}
	if entity.LocalPath == "" {
		t.Fatalf("expected a content key to be recorded")
	}

	stored, ok := blobs.blobs[entity.LocalPath]
	if !ok {
		t.Fatalf("expected blob written under %s", entity.LocalPath)
	}
	if string(stored) != string(payload) {
		t.Fatalf("blob content mismatch: %q", stored)
	}
	if len(repo.entities) != 1 {
		t.Fatalf("expected one metadata record, got %d", len(repo.entities))
	}
	if len(emitter.jobs) != 0 {
		t.Fatalf("plain file must not emit thumbnail jobs")
	}
}

func TestUploadBlobFailureLeavesNoMetadata(t *testing.T) {
	repo := newFakeRepo()
	blobs := newFakeBlobStore()
	blobs.writeErr = errors.New("storage unavailable")
	service := NewService(repo, blobs, &fakeEmitter{})

	_, err := service.Upload(context.Background(), uuid.New(), UploadRequest{
		Name: "notes.txt",
		Type: "file",
		Data: base64.StdEncoding.EncodeToString([]byte("payload")),
	})
	if !errors.Is(err, ErrContentWrite) {
		t.Fatalf("expected ErrContentWrite, got %v", err)
	}
	if len(repo.entities) != 0 {
		t.Fatalf("metadata must not be created when the blob write fails")
	}
}

func TestUploadRejectsInvalidBase64(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo, newFakeBlobStore(), &fakeEmitter{})

	_, err := service.Upload(context.Background(), uuid.New(), UploadRequest{
		Name: "notes.txt",
		Type: "file",
		Data: "%%% not base64 %%%",
	})
	if !errors.Is(err, ErrContentWrite) {
		t.Fatalf("expected ErrContentWrite, got %v", err)
	}
	if len(repo.entities) != 0 {
		t.Fatalf("metadata must not be created for an undecodable payload")
	}
}

func TestUploadFolderSkipsContentStore(t *testing.T) {
	repo := newFakeRepo()
	blobs := newFakeBlobStore()
	service := NewService(repo, blobs, &fakeEmitter{})

	entity, err := service.Upload(context.Background(), uuid.New(), UploadRequest{
		Name: "documents",
		Type: "folder",
	})
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	if entity.LocalPath != "" {
		t.Fatalf("folders must not record a content key")
	}
	if len(blobs.blobs) != 0 {
		t.Fatalf("folders must not touch the content store")
	}
}

func TestUploadImageEmitsOneThumbnailJob(t *testing.T) {
	repo := newFakeRepo()
	emitter := &fakeEmitter{}
	service := NewService(repo, newFakeBlobStore(), emitter)

	userID := uuid.New()
	entity, err := service.Upload(context.Background(), userID, UploadRequest{
		Name: "pic.png",
		Type: "image",
		Data: base64.StdEncoding.EncodeToString([]byte{1, 2, 3}),
	})
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	if len(emitter.jobs) != 1 {
		t.Fatalf("expected exactly one job, got %d", len(emitter.jobs))
	}
	job := emitter.jobs[0]
	if job.FileID != entity.ID || job.UserID != userID {
		t.Fatalf("job carries wrong ids: %+v", job)
	}
}

func TestUploadSwallowsEmitterFailure(t *testing.T) {
	repo := newFakeRepo()
	emitter := &fakeEmitter{err: errors.New("queue down")}
	service := NewService(repo, newFakeBlobStore(), emitter)

	entity, err := service.Upload(context.Background(), uuid.New(), UploadRequest{
		Name: "pic.png",
		Type: "image",
		Data: base64.StdEncoding.EncodeToString([]byte{1}),
	})
	if err != nil {
		t.Fatalf("emitter failure must not fail the upload: %v", err)
	}
	if len(repo.entities) != 1 || entity.ID == uuid.Nil {
		t.Fatalf("entity must stay committed despite the emitter failure")
	}
}

func TestUploadValidatesParent(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo, newFakeBlobStore(), &fakeEmitter{})
	owner := uuid.New()

	image := repo.seed(Entity{UserID: owner, Name: "pic.png", Type: TypeImage, LocalPath: "k"})

	cases := []struct {
		name   string
		req    UploadRequest
		expect error
	}{
		{"no name", UploadRequest{Type: "file", Data: "aGk="}, ErrMissingName},
		{"bad type", UploadRequest{Name: "x", Type: "archive", Data: "aGk="}, ErrMissingType},
		{"no data", UploadRequest{Name: "x", Type: "file"}, ErrMissingData},
		{"parent missing", UploadRequest{Name: "x", Type: "folder", ParentID: FlexString(uuid.NewString())}, ErrParentNotFound},
		{"parent unparseable", UploadRequest{Name: "x", Type: "folder", ParentID: "nope"}, ErrParentNotFound},
		{"parent not folder", UploadRequest{Name: "x", Type: "folder", ParentID: FlexString(image.ID.String())}, ErrParentNotAFolder},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Upload(context.Background(), owner, tc.req)
			if !errors.Is(err, tc.expect) {
				t.Fatalf("expected %v, got %v", tc.expect, err)
			}
		})
	}
}

func TestGetAppliesVisibilityGate(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo, newFakeBlobStore(), &fakeEmitter{})

	owner := uuid.New()
	stranger := uuid.New()
	private := repo.seed(Entity{UserID: owner, Name: "secret.txt", Type: TypeFile, LocalPath: "k1"})
	public := repo.seed(Entity{UserID: owner, Name: "open.txt", Type: TypeFile, LocalPath: "k2", IsPublic: true})

	if _, err := service.Get(context.Background(), private.ID, owner); err != nil {
		t.Fatalf("owner read failed: %v", err)
	}
	if _, err := service.Get(context.Background(), private.ID, stranger); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign private read must be ErrNotFound, got %v", err)
	}
	if _, err := service.Get(context.Background(), private.ID, uuid.Nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("anonymous private read must be ErrNotFound, got %v", err)
	}
	if _, err := service.Get(context.Background(), public.ID, uuid.Nil); err != nil {
		t.Fatalf("anonymous public read failed: %v", err)
	}
	if _, err := service.Get(context.Background(), uuid.New(), owner); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing entity must be ErrNotFound, got %v", err)
	}
}

func TestListReturnsEmptyPageForBadParent(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo, newFakeBlobStore(), &fakeEmitter{})

	owner := uuid.New()
	image := repo.seed(Entity{UserID: owner, Name: "pic.png", Type: TypeImage, LocalPath: "k"})

	missing := uuid.NullUUID{UUID: uuid.New(), Valid: true}
	if got, err := service.List(context.Background(), missing, 0); err != nil || len(got) != 0 {
		t.Fatalf("missing parent must yield an empty page, got %v entities, err %v", len(got), err)
	}

	notFolder := uuid.NullUUID{UUID: image.ID, Valid: true}
	if got, err := service.List(context.Background(), notFolder, 0); err != nil || len(got) != 0 {
		t.Fatalf("non-folder parent must yield an empty page, got %v entities, err %v", len(got), err)
	}
}

func TestListPaginatesInInsertionOrder(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo, newFakeBlobStore(), &fakeEmitter{})

	owner := uuid.New()
	folder := repo.seed(Entity{UserID: owner, Name: "docs", Type: TypeFolder})
	parent := uuid.NullUUID{UUID: folder.ID, Valid: true}

	var ids []uuid.UUID
	for i := 0; i < 25; i++ {
		e := repo.seed(Entity{UserID: owner, Name: "f", Type: TypeFile, ParentID: parent, LocalPath: "k"})
		ids = append(ids, e.ID)
	}

	page0, err := service.List(context.Background(), parent, 0)
	if err != nil {
		t.Fatalf("List page 0: %v", err)
	}
	page1, err := service.List(context.Background(), parent, 1)
	if err != nil {
		t.Fatalf("List page 1: %v", err)
	}

	if len(page0) != PageSize || len(page1) != 5 {
		t.Fatalf("expected 20+5 split, got %d+%d", len(page0), len(page1))
	}
	for i, e := range page0 {
		if e.ID != ids[i] {
			t.Fatalf("page 0 out of insertion order at %d", i)
		}
	}
	seen := map[uuid.UUID]bool{}
	for _, e := range page0 {
		seen[e.ID] = true
	}
	for _, e := range page1 {
		if seen[e.ID] {
			t.Fatalf("entity %s appears on both pages", e.ID)
		}
	}

	// negative pages clamp to the first window
	clamped, err := service.List(context.Background(), parent, -3)
	if err != nil {
		t.Fatalf("List clamped: %v", err)
	}
	if len(clamped) != PageSize || clamped[0].ID != ids[0] {
		t.Fatalf("negative page must behave as page 0")
	}
}

func TestSetPublicRoundTripsAndChecksOwnership(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo, newFakeBlobStore(), &fakeEmitter{})

	owner := uuid.New()
	entity := repo.seed(Entity{UserID: owner, Name: "notes.txt", Type: TypeFile, LocalPath: "k"})

	updated, err := service.SetPublic(context.Background(), entity.ID, owner, true)
	if err != nil || !updated.IsPublic {
		t.Fatalf("publish failed: %v %+v", err, updated)
	}

	// idempotent
	again, err := service.SetPublic(context.Background(), entity.ID, owner, true)
	if err != nil || !again.IsPublic {
		t.Fatalf("second publish must observe the same state: %v", err)
	}

	back, err := service.SetPublic(context.Background(), entity.ID, owner, false)
	if err != nil || back.IsPublic {
		t.Fatalf("unpublish failed: %v", err)
	}
	if back.Name != entity.Name || back.UserID != entity.UserID || back.Type != entity.Type {
		t.Fatalf("only isPublic may mutate")
	}

	if _, err := service.SetPublic(context.Background(), entity.ID, uuid.New(), true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign toggle must be ErrNotFound, got %v", err)
	}
}

func TestReadContent(t *testing.T) {
	repo := newFakeRepo()
	blobs := newFakeBlobStore()
	service := NewService(repo, blobs, &fakeEmitter{})

	owner := uuid.New()
	payload := []byte{9, 8, 7}
	blobs.blobs["key1"] = payload

	entity := repo.seed(Entity{UserID: owner, Name: "pic.png", Type: TypeImage, LocalPath: "key1"})
	folder := repo.seed(Entity{UserID: owner, Name: "docs", Type: TypeFolder})
	hollow := repo.seed(Entity{UserID: owner, Name: "ghost.txt", Type: TypeFile})

	data, contentType, err := service.ReadContent(context.Background(), entity.ID, owner, "")
	if err != nil {
		t.Fatalf("ReadContent returned error: %v", err)
	}
	if string(data) != string(payload) {
		t.Fatalf("content mismatch: %v", data)
	}
	if contentType != "image/png" {
		t.Fatalf("expected image/png, got %s", contentType)
	}

	if _, _, err := service.ReadContent(context.Background(), folder.ID, owner, ""); !errors.Is(err, ErrNotAFile) {
		t.Fatalf("folder content must be ErrNotAFile, got %v", err)
	}
	if _, _, err := service.ReadContent(context.Background(), hollow.ID, owner, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("entity without content key must be ErrNotFound, got %v", err)
	}

	// size variant not yet produced by the worker
	if _, _, err := service.ReadContent(context.Background(), entity.ID, owner, "250"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing variant must be ErrNotFound, got %v", err)
	}

	blobs.blobs["key1_250"] = []byte{4, 2}
	variant, _, err := service.ReadContent(context.Background(), entity.ID, owner, "250")
	if err != nil || len(variant) != 2 {
		t.Fatalf("produced variant must be served: %v", err)
	}
}

// --- helpers & fakes ---

type fakeRepo struct {
	entities []Entity
	byID     map[uuid.UUID]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[uuid.UUID]int)}
}

// seed inserts an entity directly, bypassing the service.
func (f *fakeRepo) seed(e Entity) Entity {
	stored, _ := f.Create(context.Background(), e)
	return stored
}

func (f *fakeRepo) Create(_ context.Context, e Entity) (Entity, error) {
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	f.byID[e.ID] = len(f.entities)
	f.entities = append(f.entities, e)
	return e, nil
}

func (f *fakeRepo) Get(_ context.Context, id uuid.UUID) (Entity, error) {
	idx, ok := f.byID[id]
	if !ok {
		return Entity{}, ErrNotFound
	}
	return f.entities[idx], nil
}

func (f *fakeRepo) ListByParent(_ context.Context, parentID uuid.NullUUID, page int) ([]Entity, error) {
	var matched []Entity
	for _, e := range f.entities {
		if e.ParentID == parentID {
			matched = append(matched, e)
		}
	}
	start := page * PageSize
	if start >= len(matched) {
		return nil, nil
	}
	end := start + PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (f *fakeRepo) SetPublic(_ context.Context, id, userID uuid.UUID, public bool) (Entity, error) {
	idx, ok := f.byID[id]
	if !ok || f.entities[idx].UserID != userID {
		return Entity{}, ErrNotFound
	}
	f.entities[idx].IsPublic = public
	f.entities[idx].UpdatedAt = time.Now()
	return f.entities[idx], nil
}

type fakeBlobStore struct {
	blobs    map[string][]byte
	writeErr error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: make(map[string][]byte)}
}

func (f *fakeBlobStore) Write(_ context.Context, key string, data []byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.blobs[key] = data
	return nil
}

func (f *fakeBlobStore) Read(_ context.Context, key string) ([]byte, error) {
	data, ok := f.blobs[key]
	if !ok {
		return nil, ErrBlobNotFound
	}
	return data, nil
}

type fakeEmitter struct {
	jobs []queue.ThumbnailJob
	err  error
}

func (f *fakeEmitter) Emit(_ context.Context, job queue.ThumbnailJob) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}
