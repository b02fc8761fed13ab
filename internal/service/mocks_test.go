package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/catstash/catstash-api/internal/domain"
	"github.com/catstash/catstash-api/internal/store"
	"github.com/catstash/catstash-api/internal/task"
	"github.com/google/uuid"
)

// fakeTagStore is an in-memory, concurrency-safe store.TagStore. Its
// Create enforces name uniqueness the way the database does, so the
// resolver's race recovery can be exercised.
type fakeTagStore struct {
	mu     sync.Mutex
	nextID int64
	byName map[string]*domain.Tag

	// createHook runs inside Create after the uniqueness check has
	// passed but before the row is recorded, letting tests interleave a
	// competing create.
	createHook func(name string)

	getErr    error
	createErr error
}

func newFakeTagStore() *fakeTagStore {
	return &fakeTagStore{byName: make(map[string]*domain.Tag)}
}

func (s *fakeTagStore) GetByName(ctx context.Context, name string) (*domain.Tag, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if tag, ok := s.byName[name]; ok {
		copied := *tag
		return &copied, nil
	}
	return nil, store.ErrTagNotFound
}

func (s *fakeTagStore) Create(ctx context.Context, tag *domain.Tag) error {
	if s.createErr != nil {
		return s.createErr
	}
	if err := tag.Validate(); err != nil {
		return err
	}
	if s.createHook != nil {
		hook := s.createHook
		s.createHook = nil
		hook(tag.Name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[tag.Name]; ok {
		return fmt.Errorf("%w: %q", store.ErrTagNameExists, tag.Name)
	}
	s.nextID++
	tag.ID = s.nextID
	copied := *tag
	s.byName[tag.Name] = &copied
	return nil
}

func (s *fakeTagStore) WithTx(tx *sql.Tx) store.TagStore {
	return s
}

// insert records a tag directly, simulating a concurrent run's write.
func (s *fakeTagStore) insert(name string) *domain.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	tag := &domain.Tag{ID: s.nextID, Name: name, CreatedAt: time.Now().UTC()}
	s.byName[name] = tag
	return tag
}

// fakeAssetStore is an in-memory store.AssetStore. Listing mirrors the
// SQL contract: newest first, ID descending on ties, exact tag filter.
type fakeAssetStore struct {
	mu         sync.Mutex
	nextID     int64
	assets     []*domain.Asset
	tagsByID   map[int64][]string
	joinsByID  map[int64][]int64
	byExternal map[string]bool

	existsErr error
	createErr error
	listErr   error
}

func newFakeAssetStore() *fakeAssetStore {
	return &fakeAssetStore{
		tagsByID:   make(map[int64][]string),
		joinsByID:  make(map[int64][]int64),
		byExternal: make(map[string]bool),
	}
}

func (s *fakeAssetStore) Create(ctx context.Context, asset *domain.Asset, tagIDs []int64) error {
	if s.createErr != nil {
		return s.createErr
	}
	if err := asset.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byExternal[asset.ExternalID] {
		return fmt.Errorf("%w: %q", store.ErrExternalIDExists, asset.ExternalID)
	}
	s.nextID++
	asset.ID = s.nextID
	copied := *asset
	s.assets = append(s.assets, &copied)
	s.byExternal[asset.ExternalID] = true
	// Record the join rows the real store would insert.
	s.joinsByID[asset.ID] = append([]int64{}, tagIDs...)
	return nil
}

func (s *fakeAssetStore) ExistsByExternalID(ctx context.Context, externalID string) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byExternal[externalID], nil
}

func (s *fakeAssetStore) GetByID(ctx context.Context, id int64) (*domain.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, asset := range s.assets {
		if asset.ID == id {
			copied := *asset
			copied.Tags = append([]string{}, s.tagsByID[id]...)
			return &copied, nil
		}
	}
	return nil, store.ErrAssetNotFound
}

func (s *fakeAssetStore) GetImage(ctx context.Context, id int64) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, asset := range s.assets {
		if asset.ID == id {
			return asset.Image, nil
		}
	}
	return nil, store.ErrAssetNotFound
}

func (s *fakeAssetStore) List(
	ctx context.Context,
	filter store.ListFilter,
) (*store.AssetPage, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*domain.Asset
	for _, asset := range s.assets {
		if filter.Tag != "" && !contains(s.tagsByID[asset.ID], filter.Tag) {
			continue
		}
		matched = append(matched, asset)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	items := []*domain.Asset{}
	start := filter.Offset()
	for i := start; i < len(matched) && i < start+filter.PageSize; i++ {
		copied := *matched[i]
		copied.Tags = append([]string{}, s.tagsByID[copied.ID]...)
		items = append(items, &copied)
	}

	return &store.AssetPage{Items: items, TotalCount: len(matched)}, nil
}

func (s *fakeAssetStore) WithTx(tx *sql.Tx) store.AssetStore {
	return s
}

// setTags records tag names for an asset, as the join table would.
func (s *fakeAssetStore) setTags(assetID int64, names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tagsByID[assetID] = names
}

func contains(names []string, want string) bool {
	for _, name := range names {
		if name == want {
			return true
		}
	}
	return false
}

// fakeSource is a canned SourceClient.
type fakeSource struct {
	candidates []domain.Candidate
	fetchErr   error

	images      map[string][]byte
	downloadErr map[string]error
	fetchCalls  int
}

func newFakeSource(candidates ...domain.Candidate) *fakeSource {
	images := make(map[string][]byte)
	for _, c := range candidates {
		images[c.URL] = []byte("image-" + c.ExternalID)
	}
	return &fakeSource{
		candidates:  candidates,
		images:      images,
		downloadErr: make(map[string]error),
	}
}

func (f *fakeSource) FetchCandidates(ctx context.Context, limit int) ([]domain.Candidate, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if limit > 0 && limit < len(f.candidates) {
		return f.candidates[:limit], nil
	}
	return f.candidates, nil
}

func (f *fakeSource) DownloadImage(ctx context.Context, url string) ([]byte, error) {
	if err := f.downloadErr[url]; err != nil {
		return nil, err
	}
	if data, ok := f.images[url]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("no image for %s", url)
}

// fakeRunner records submitted tasks.
type fakeRunner struct {
	submitted []task.Task
	submitErr error
}

func (r *fakeRunner) Submit(ctx context.Context, t task.Task) error {
	if r.submitErr != nil {
		return r.submitErr
	}
	r.submitted = append(r.submitted, t)
	return nil
}

// fakeTaskStore serves job-status lookups.
type fakeTaskStore struct {
	records map[uuid.UUID]*task.TaskRecord
	getErr  error
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{records: make(map[uuid.UUID]*task.TaskRecord)}
}

func (s *fakeTaskStore) SaveTask(ctx context.Context, t task.Task) error {
	s.records[t.ID()] = &task.TaskRecord{ID: t.ID(), Type: t.Type(), Status: t.Status()}
	return nil
}

func (s *fakeTaskStore) UpdateTaskStatus(
	ctx context.Context,
	taskID uuid.UUID,
	status task.TaskStatus,
	errorMsg string,
) error {
	if record, ok := s.records[taskID]; ok {
		record.Status = status
		record.ErrorMessage = errorMsg
	}
	return nil
}

func (s *fakeTaskStore) GetByID(ctx context.Context, taskID uuid.UUID) (*task.TaskRecord, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	record, ok := s.records[taskID]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	copied := *record
	return &copied, nil
}

func (s *fakeTaskStore) MarkInterrupted(ctx context.Context) (int64, error) {
	return 0, nil
}

func (s *fakeTaskStore) FailStuckTasks(ctx context.Context, olderThan time.Duration) (int64, error) {
	return 0, nil
}

func (s *fakeTaskStore) WithTx(tx *sql.Tx) task.TaskStore {
	return s
}
