// Package suggest orchestrates the title suggestion pipeline: cache lookup,
// model call, response extraction and the deterministic heuristic fallback.
//
// Suggest never fails to the caller. Every internal failure (unconfigured or
// unreachable model, unusable model output, cache trouble) degrades to the
// heuristic path, so the endpoint built on top of it has no user-visible
// error mode.
package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/defterly/defterly/ai/extract"
	"github.com/defterly/defterly/ai/heuristic"
	"github.com/defterly/defterly/ai/llm"
	"github.com/defterly/defterly/ai/metrics"
	"github.com/defterly/defterly/store/cache"
)

// Defaults applied when the request leaves count or max length unset.
const (
	DefaultMaxLen = 60
	DefaultCount  = 3
)

// Suggester composes the suggestion pipeline. The model gateway may be nil
// (AI disabled), in which case every request takes the heuristic path.
type Suggester struct {
	llm      llm.Service
	cache    cache.Cache
	ttl      time.Duration
	exporter *metrics.Exporter
	group    singleflight.Group
}

// New creates a Suggester. cacheStore and exporter may be nil; ttl falls back
// to six hours when unset.
func New(llmService llm.Service, cacheStore cache.Cache, ttl time.Duration, exporter *metrics.Exporter) *Suggester {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &Suggester{
		llm:      llmService,
		cache:    cacheStore,
		ttl:      ttl,
		exporter: exporter,
	}
}

// Suggest returns up to count title suggestions for content, each at most
// maxLen runes. Results come from the cache, the model, or the heuristic
// generator, in that order of preference.
func (s *Suggester) Suggest(ctx context.Context, content string, maxLen, count int) []string {
	if maxLen < 1 {
		maxLen = DefaultMaxLen
	}
	if count < 1 {
		count = DefaultCount
	}

	start := time.Now()
	traceID := uuid.NewString()

	normalized := Normalize(content)
	if normalized == "" {
		titles := heuristic.Titles("", maxLen, count)
		s.record(metrics.SourceHeuristic, start)
		return titles
	}

	key := Fingerprint(normalized, count, maxLen)

	if titles := s.fromCache(ctx, key, traceID); len(titles) > 0 {
		s.record(metrics.SourceCache, start)
		return titles
	}

	if titles := s.fromModel(ctx, key, traceID, normalized, maxLen, count); len(titles) > 0 {
		s.record(metrics.SourceModel, start)
		return titles
	}

	// Heuristic results are cheap to recompute and are deliberately not
	// cached; only non-empty model-derived lists occupy cache slots.
	titles := heuristic.Titles(content, maxLen, count)
	s.record(metrics.SourceHeuristic, start)
	return titles
}

func (s *Suggester) fromCache(ctx context.Context, key, traceID string) []string {
	if s.cache == nil {
		return nil
	}

	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("suggest: cache get failed", "trace_id", traceID, "error", err)
		return nil
	}
	if !ok {
		if s.exporter != nil {
			s.exporter.RecordCacheMiss()
		}
		return nil
	}

	var titles []string
	if err := json.Unmarshal(raw, &titles); err != nil || len(titles) == 0 {
		slog.Warn("suggest: discarding unreadable cache entry", "trace_id", traceID, "key", key)
		return nil
	}
	if s.exporter != nil {
		s.exporter.RecordCacheHit()
	}
	slog.Debug("suggest: cache hit", "trace_id", traceID, "titles", len(titles))
	return titles
}

// fromModel asks the gateway for suggestions. Concurrent requests for the
// same fingerprint share one in-flight model call. Returns nil when the
// gateway is unavailable, errors, or its output yields nothing usable.
func (s *Suggester) fromModel(ctx context.Context, key, traceID, normalized string, maxLen, count int) []string {
	if s.llm == nil {
		return nil
	}

	result, err, shared := s.group.Do(key, func() (any, error) {
		callStart := time.Now()
		raw, err := s.llm.Generate(ctx, systemPrompt(count, maxLen), normalized)
		if s.exporter != nil {
			s.exporter.RecordModelCall(time.Since(callStart), err)
		}
		if err != nil {
			return nil, err
		}

		titles := extract.Titles(raw, maxLen, true)
		if len(titles) == 0 {
			slog.Warn("suggest: model output yielded no usable titles", "trace_id", traceID, "raw_length", len(raw))
			return []string(nil), nil
		}
		if len(titles) > count {
			titles = titles[:count]
		}

		s.storeCache(ctx, key, titles, traceID)
		return titles, nil
	})
	if err != nil {
		slog.Warn("suggest: model call failed, falling back to heuristic", "trace_id", traceID, "error", err)
		return nil
	}
	if shared {
		slog.Debug("suggest: coalesced duplicate in-flight request", "trace_id", traceID, "key", key)
	}
	return result.([]string)
}

func (s *Suggester) storeCache(ctx context.Context, key string, titles []string, traceID string) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(titles)
	if err != nil {
		slog.Warn("suggest: marshal cache payload failed", "trace_id", traceID, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.ttl); err != nil {
		slog.Warn("suggest: cache set failed", "trace_id", traceID, "error", err)
	}
}

func (s *Suggester) record(source string, start time.Time) {
	if s.exporter != nil {
		s.exporter.RecordSuggestion(source, time.Since(start))
	}
}

// systemPrompt encodes the exact output contract the extractor expects.
func systemPrompt(count, maxLen int) string {
	return fmt.Sprintf("You are a concise note-title generator.\n"+
		"Return ONLY a JSON array of exactly %d strings.\n"+
		"Do not return fewer or more. Each string must be <= %d characters.\n"+
		"No prose. No prefixes. JSON array only.", count, maxLen)
}
