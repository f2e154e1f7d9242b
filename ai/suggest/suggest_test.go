package suggest

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defterly/defterly/ai/heuristic"
	"github.com/defterly/defterly/store/cache"
)

type fakeGateway struct {
	mu       sync.Mutex
	calls    int
	response string
	err      error
	delay    time.Duration
}

func (f *fakeGateway) Generate(_ context.Context, _, _ string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.response, f.err
}

func (f *fakeGateway) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", " \r\n\t ", ""},
		{"trims and collapses", "  hello   world  ", "hello world"},
		{"newlines become spaces", "line one\r\nline two\nline three", "line one line two line three"},
		{"already normalized", "hello world", "hello world"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got, Normalize(got), "Normalize must be idempotent")
		})
	}
}

func TestFingerprint(t *testing.T) {
	t.Run("stable layout", func(t *testing.T) {
		key := Fingerprint("hello world", 3, 60)
		assert.Regexp(t, `^ai:title:h:[0-9a-f]{40}:n:3:max:60$`, key)
	})

	t.Run("casing and whitespace variants collapse", func(t *testing.T) {
		a := Fingerprint(Normalize("Meeting  Notes\r\nQ3"), 3, 60)
		b := Fingerprint(Normalize("meeting notes q3"), 3, 60)
		assert.Equal(t, a, b)
	})

	t.Run("parameters are part of the key", func(t *testing.T) {
		base := Fingerprint("content", 3, 60)
		assert.NotEqual(t, base, Fingerprint("content", 4, 60))
		assert.NotEqual(t, base, Fingerprint("content", 3, 50))
		assert.NotEqual(t, base, Fingerprint("other", 3, 60))
	})
}

func TestSuggest_BlankContentSkipsModelAndCache(t *testing.T) {
	gw := &fakeGateway{response: `["should not be used"]`}
	c := cache.NewMemoryCache(10, time.Minute)
	s := New(gw, c, time.Minute, nil)

	got := s.Suggest(context.Background(), "   \n  ", 60, 3)
	assert.Equal(t, []string{heuristic.Placeholder}, got)
	assert.Equal(t, 0, gw.callCount())
	assert.Equal(t, 0, c.Size())
}

func TestSuggest_ModelPath(t *testing.T) {
	gw := &fakeGateway{response: `["Meeting Summary", "Q3 Roadmap", "Budget Call", "Extra One"]`}
	c := cache.NewMemoryCache(10, time.Minute)
	s := New(gw, c, time.Minute, nil)

	got := s.Suggest(context.Background(), "Meeting notes: discuss Q3 roadmap and budget.", 60, 3)
	require.Len(t, got, 3, "result must be capped at count")
	assert.Equal(t, []string{"Meeting Summary", "Q3 Roadmap", "Budget Call"}, got)
	for _, title := range got {
		assert.LessOrEqual(t, len([]rune(title)), 60)
	}
	assert.Equal(t, 1, gw.callCount())
}

func TestSuggest_CacheHitSkipsModel(t *testing.T) {
	gw := &fakeGateway{response: `["Fresh Title"]`}
	c := cache.NewMemoryCache(10, time.Minute)
	s := New(gw, c, time.Minute, nil)

	content := "some note content"
	first := s.Suggest(context.Background(), content, 60, 3)
	second := s.Suggest(context.Background(), content, 60, 3)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, gw.callCount(), "second request must be served from cache")
}

func TestSuggest_CacheKeyIgnoresCasingAndWhitespace(t *testing.T) {
	gw := &fakeGateway{response: `["Cached Title"]`}
	c := cache.NewMemoryCache(10, time.Minute)
	s := New(gw, c, time.Minute, nil)

	s.Suggest(context.Background(), "Meeting Notes\r\nfor Q3", 60, 3)
	s.Suggest(context.Background(), "meeting   notes for q3", 60, 3)

	assert.Equal(t, 1, gw.callCount())
}

func TestSuggest_GatewayFailureFallsBackToHeuristic(t *testing.T) {
	gw := &fakeGateway{err: errors.New("connection refused")}
	c := cache.NewMemoryCache(10, time.Minute)
	s := New(gw, c, time.Minute, nil)

	got := s.Suggest(context.Background(), "Planning session. budget budget roadmap", 60, 3)
	require.NotEmpty(t, got)
	assert.Equal(t, "Planning session", got[0])
	assert.Equal(t, 0, c.Size(), "heuristic results must not be cached")
}

func TestSuggest_UnusableModelOutputFallsBackToHeuristic(t *testing.T) {
	gw := &fakeGateway{response: "   "}
	c := cache.NewMemoryCache(10, time.Minute)
	s := New(gw, c, time.Minute, nil)

	got := s.Suggest(context.Background(), "Planning session. budget budget roadmap", 60, 3)
	require.NotEmpty(t, got)
	assert.Equal(t, 1, gw.callCount())
	assert.Equal(t, 0, c.Size())
}

func TestSuggest_NilGatewayUsesHeuristic(t *testing.T) {
	s := New(nil, cache.NewMemoryCache(10, time.Minute), time.Minute, nil)

	got := s.Suggest(context.Background(), "Standup notes. blockers deploy release", 60, 3)
	require.NotEmpty(t, got)
	assert.Equal(t, "Standup notes", got[0])
}

func TestSuggest_ProseWrappedModelOutput(t *testing.T) {
	gw := &fakeGateway{response: "Here you go:\n```json\n[\"Wrapped Title\"]\n```"}
	s := New(gw, cache.NewMemoryCache(10, time.Minute), time.Minute, nil)

	got := s.Suggest(context.Background(), "note content", 60, 3)
	assert.Equal(t, []string{"Wrapped Title"}, got)
}

func TestSuggest_CachedPayloadIsFullList(t *testing.T) {
	gw := &fakeGateway{response: `["One", "Two", "Three"]`}
	c := cache.NewMemoryCache(10, time.Minute)
	s := New(gw, c, time.Minute, nil)

	content := "note content"
	want := s.Suggest(context.Background(), content, 60, 3)

	key := Fingerprint(Normalize(content), 3, 60)
	raw, ok, err := c.Get(context.Background(), key)
	require.NoError(t, err)
	require.True(t, ok)

	var cached []string
	require.NoError(t, json.Unmarshal(raw, &cached))
	assert.Equal(t, want, cached)
}

func TestSuggest_DefaultsApplied(t *testing.T) {
	gw := &fakeGateway{response: `["A", "B", "C", "D", "E"]`}
	s := New(gw, cache.NewMemoryCache(10, time.Minute), time.Minute, nil)

	got := s.Suggest(context.Background(), "note content", 0, 0)
	assert.Len(t, got, DefaultCount)
}

func TestSuggest_ConcurrentIdenticalRequestsCoalesce(t *testing.T) {
	gw := &fakeGateway{response: `["Shared Title"]`, delay: 50 * time.Millisecond}
	c := cache.NewMemoryCache(10, time.Minute)
	s := New(gw, c, time.Minute, nil)

	var wg sync.WaitGroup
	results := make([][]string, 8)
	for i := range results {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results[n] = s.Suggest(context.Background(), "identical content", 60, 3)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, []string{"Shared Title"}, got)
	}
	assert.Equal(t, 1, gw.callCount(), "in-flight duplicates must share one model call")
}
