package analysis

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "github.com/iterativai/empathic-venture-forge/internal/domain/analysis"
)

type fakeRepo struct {
	mu    sync.Mutex
	saved []*domain.Record
	err   error
}

func (f *fakeRepo) Save(_ context.Context, rec *domain.Record) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *rec
	f.saved = append(f.saved, &cp)
	return nil
}

func (f *fakeRepo) Get(_ context.Context, userID string, id domain.AnalysisID) (*domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.saved {
		if r.ID == id && r.UserID == userID {
			return r, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeRepo) GetByID(_ context.Context, id domain.AnalysisID) (*domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.saved {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeRepo) Latest(_ context.Context, userID string, limit int) ([]*domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Record
	for i := len(f.saved) - 1; i >= 0 && len(out) < limit; i-- {
		if f.saved[i].UserID == userID {
			out = append(out, f.saved[i])
		}
	}
	return out, nil
}

func (f *fakeRepo) Paginate(_ context.Context, userID string, page, pageSize int) (domain.PaginatedResult, error) {
	return domain.PaginatedResult{Page: page, PageSize: pageSize}, nil
}

func (f *fakeRepo) UpdateReport(_ context.Context, rec *domain.Record) error { return nil }

func (f *fakeRepo) UpdateStatus(_ context.Context, id domain.AnalysisID, status domain.Status) error {
	return nil
}

type fakeStore struct {
	keys    []string
	failOn  string // file content substring that triggers an error
	baseURL string
}

func (f *fakeStore) Put(_ context.Context, key string, data []byte, contentType string) (string, error) {
	if f.failOn != "" && strings.Contains(string(data), f.failOn) {
		return "", errors.New("storage unavailable")
	}
	f.keys = append(f.keys, key)
	return f.baseURL + "/" + key, nil
}

type fakeDispatcher struct {
	ids      []domain.AnalysisID
	contents []string
}

func (f *fakeDispatcher) Dispatch(id domain.AnalysisID, fileContent string) {
	f.ids = append(f.ids, id)
	f.contents = append(f.contents, fileContent)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newTestService() (*Service, *fakeRepo, *fakeStore, *fakeDispatcher) {
	repo := &fakeRepo{}
	store := &fakeStore{baseURL: "memory://bucket"}
	disp := &fakeDispatcher{}
	svc := &Service{
		Repo:       repo,
		Files:      store,
		Dispatcher: disp,
		Clock:      fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		Log:        zap.NewNop(),
	}
	return svc, repo, store, disp
}

func TestSubmitBatch(t *testing.T) {
	t.Run("one processing record per file", func(t *testing.T) {
		svc, repo, store, disp := newTestService()

		results := svc.SubmitBatch(context.Background(), "user-1", []UploadFile{
			{Name: "plan.txt", ContentType: "text/plain", Data: []byte("We solve X for Y")},
			{Name: "deck.txt", ContentType: "text/plain", Data: []byte("Our market is large")},
		})

		require.Len(t, results, 2)
		require.Len(t, repo.saved, 2)
		for i, rec := range repo.saved {
			assert.Equal(t, domain.StatusProcessing, rec.Status)
			assert.Equal(t, "user-1", rec.UserID)
			assert.Nil(t, rec.OverallScore)
			assert.Nil(t, rec.DimensionalScores)
			assert.Nil(t, rec.Recommendations)
			assert.Empty(t, results[i].Error)
			assert.Equal(t, rec.ID, results[i].ID)
		}

		// Storage keys are owner-scoped
		require.Len(t, store.keys, 2)
		assert.True(t, strings.HasPrefix(store.keys[0], "user-1/"))
		assert.True(t, strings.HasSuffix(store.keys[0], "_plan.txt"))

		// Each record handed to the worker
		require.Len(t, disp.ids, 2)
		assert.Equal(t, repo.saved[0].ID, disp.ids[0])
		assert.Equal(t, "We solve X for Y", disp.contents[0])
	})

	t.Run("storage failure isolates that file", func(t *testing.T) {
		svc, repo, store, disp := newTestService()
		store.failOn = "BAD"

		results := svc.SubmitBatch(context.Background(), "user-1", []UploadFile{
			{Name: "ok.txt", ContentType: "text/plain", Data: []byte("fine content")},
			{Name: "broken.txt", ContentType: "text/plain", Data: []byte("BAD content")},
			{Name: "ok2.txt", ContentType: "text/plain", Data: []byte("also fine")},
		})

		require.Len(t, results, 3)
		assert.Empty(t, results[0].Error)
		assert.NotEmpty(t, results[1].Error)
		assert.Empty(t, results[2].Error)

		// Failed file never produced a record or a dispatch
		assert.Len(t, repo.saved, 2)
		assert.Len(t, disp.ids, 2)
	})

	t.Run("empty file rejected", func(t *testing.T) {
		svc, repo, _, disp := newTestService()

		results := svc.SubmitBatch(context.Background(), "user-1", []UploadFile{
			{Name: "empty.txt", ContentType: "text/plain", Data: nil},
		})

		require.Len(t, results, 1)
		assert.Contains(t, results[0].Error, "empty file")
		assert.Empty(t, repo.saved)
		assert.Empty(t, disp.ids)
	})

	t.Run("long content truncated before dispatch", func(t *testing.T) {
		svc, _, _, disp := newTestService()

		big := strings.Repeat("a", maxContentChars+500)
		svc.SubmitBatch(context.Background(), "user-1", []UploadFile{
			{Name: "big.txt", ContentType: "text/plain", Data: []byte(big)},
		})

		require.Len(t, disp.contents, 1)
		assert.Equal(t, maxContentChars, utf8.RuneCountInString(disp.contents[0]))
	})

	t.Run("file with no readable text rejected before any write", func(t *testing.T) {
		svc, repo, store, disp := newTestService()

		// Bytes that decode to an empty string. Such a record would sit
		// at processing forever; it must never be created.
		results := svc.SubmitBatch(context.Background(), "user-1", []UploadFile{
			{Name: "noise.bin", ContentType: "application/octet-stream", Data: []byte{0xff, 0xfe, 0xff}},
		})

		require.Len(t, results, 1)
		assert.Contains(t, results[0].Error, "no readable text")
		assert.Empty(t, store.keys)
		assert.Empty(t, repo.saved)
		assert.Empty(t, disp.ids)
	})

	t.Run("invalid utf8 bytes dropped", func(t *testing.T) {
		svc, _, _, disp := newTestService()

		data := append([]byte("plan "), 0xff, 0xfe)
		data = append(data, []byte(" text")...)
		svc.SubmitBatch(context.Background(), "user-1", []UploadFile{
			{Name: "bin.txt", ContentType: "application/octet-stream", Data: data},
		})

		require.Len(t, disp.contents, 1)
		assert.True(t, utf8.ValidString(disp.contents[0]))
		assert.Equal(t, "plan  text", disp.contents[0])
	})

	t.Run("repeated upload of same name gets distinct keys", func(t *testing.T) {
		repo := &fakeRepo{}
		store := &fakeStore{baseURL: "memory://bucket"}
		disp := &fakeDispatcher{}
		tick := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		svc := &Service{
			Repo:       repo,
			Files:      store,
			Dispatcher: disp,
			Clock:      tickingClock{t: &tick},
			Log:        zap.NewNop(),
		}

		svc.SubmitBatch(context.Background(), "user-1", []UploadFile{
			{Name: "plan.txt", ContentType: "text/plain", Data: []byte("v1")},
			{Name: "plan.txt", ContentType: "text/plain", Data: []byte("v2")},
		})

		require.Len(t, store.keys, 2)
		assert.NotEqual(t, store.keys[0], store.keys[1])
	})
}

type tickingClock struct{ t *time.Time }

func (c tickingClock) Now() time.Time {
	*c.t = c.t.Add(time.Millisecond)
	return *c.t
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	// Rune-based, never splits a multi-byte character
	s := strings.Repeat("é", 10)
	got := truncate(s, 4)
	assert.Equal(t, 4, utf8.RuneCountInString(got))
	assert.True(t, utf8.ValidString(got))
}
