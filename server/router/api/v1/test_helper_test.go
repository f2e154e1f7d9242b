package v1

import (
	"context"
	"database/sql"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/defterly/defterly/ai/metrics"
	"github.com/defterly/defterly/ai/suggest"
	"github.com/defterly/defterly/internal/profile"
	"github.com/defterly/defterly/store"
	"github.com/defterly/defterly/store/cache"
)

// fakeDriver is an in-memory store.Driver for handler tests.
type fakeDriver struct {
	mu     sync.Mutex
	nextID int32
	notes  map[int32]*store.Note
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{notes: map[int32]*store.Note{}}
}

func (*fakeDriver) GetDB() *sql.DB { return nil }

func (*fakeDriver) Close() error { return nil }

func (*fakeDriver) Migrate(context.Context) error { return nil }

func (d *fakeDriver) CreateNote(_ context.Context, create *store.Note) (*store.Note, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	now := time.Now().Unix()
	note := &store.Note{
		ID:        d.nextID,
		UID:       create.UID,
		Title:     create.Title,
		Content:   create.Content,
		CreatedTs: now,
		UpdatedTs: now,
	}
	if note.UID == "" {
		note.UID = shortuuid.New()
	}
	d.notes[note.ID] = note
	copied := *note
	return &copied, nil
}

func (d *fakeDriver) ListNotes(_ context.Context, find *store.FindNote) ([]*store.Note, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	list := []*store.Note{}
	for _, note := range d.notes {
		if find.ID != nil && note.ID != *find.ID {
			continue
		}
		if find.UID != nil && note.UID != *find.UID {
			continue
		}
		copied := *note
		list = append(list, &copied)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedTs != list[j].CreatedTs {
			return list[i].CreatedTs > list[j].CreatedTs
		}
		return list[i].ID > list[j].ID
	})
	if find.Offset != nil && *find.Offset < len(list) {
		list = list[*find.Offset:]
	}
	if find.Limit != nil && *find.Limit < len(list) {
		list = list[:*find.Limit]
	}
	return list, nil
}

func (d *fakeDriver) UpdateNote(_ context.Context, update *store.UpdateNote) (*store.Note, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	note, ok := d.notes[update.ID]
	if !ok {
		return nil, nil
	}
	if update.Title != nil {
		note.Title = *update.Title
	}
	if update.Content != nil {
		note.Content = *update.Content
	}
	note.UpdatedTs = time.Now().Unix()
	copied := *note
	return &copied, nil
}

func (d *fakeDriver) DeleteNote(_ context.Context, del *store.DeleteNote) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.notes, del.ID)
	return nil
}

// newTestServer wires the API against an in-memory driver and a suggester
// running without a model gateway.
func newTestServer(t *testing.T) (*echo.Echo, *fakeDriver) {
	t.Helper()

	testProfile := &profile.Profile{Mode: "demo", Driver: "sqlite"}
	driver := newFakeDriver()
	storeInstance := store.New(driver, testProfile)

	suggester := suggest.New(nil, cache.NewMemoryCache(16, time.Minute), time.Minute, metrics.NewExporter())

	echoServer := echo.New()
	NewAPIV1Service(testProfile, storeInstance, suggester).RegisterRoutes(echoServer)
	return echoServer, driver
}

func doRequest(echoServer *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	echoServer.ServeHTTP(rec, req)
	return rec
}
