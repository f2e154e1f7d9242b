package v1

import (
	"encoding/json"
	"net/http"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defterly/defterly/ai/heuristic"
)

func TestSuggestTitle(t *testing.T) {
	echoServer, _ := newTestServer(t)

	rec := doRequest(echoServer, http.MethodPost, "/ai/suggest-title",
		`{"content": "Meeting notes: discuss Q3 roadmap and budget allocation for the platform team"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp suggestTitleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Response)
	assert.LessOrEqual(t, len(resp.Response), 3)
	for _, title := range resp.Response {
		assert.NotEmpty(t, title)
		assert.LessOrEqual(t, utf8.RuneCountInString(title), 60)
	}
}

func TestSuggestTitle_EmptyContent(t *testing.T) {
	echoServer, _ := newTestServer(t)

	rec := doRequest(echoServer, http.MethodPost, "/ai/suggest-title", `{"content": "   "}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp suggestTitleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Response)
	assert.Equal(t, heuristic.Placeholder, resp.Response[0])
}

func TestSuggestTitle_Params(t *testing.T) {
	echoServer, _ := newTestServer(t)

	t.Run("n caps the suggestion count", func(t *testing.T) {
		rec := doRequest(echoServer, http.MethodPost, "/ai/suggest-title",
			`{"content": "Planning the sprint retrospective agenda for next week", "n": 1}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp suggestTitleResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Response, 1)
	})

	t.Run("max_len bounds title length", func(t *testing.T) {
		rec := doRequest(echoServer, http.MethodPost, "/ai/suggest-title",
			`{"content": "An extremely long first sentence that keeps going well past any reasonable title length", "max_len": 20}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp suggestTitleResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Response)
		for _, title := range resp.Response {
			assert.LessOrEqual(t, utf8.RuneCountInString(title), 20)
		}
	})

	t.Run("out-of-range params fall back to defaults", func(t *testing.T) {
		rec := doRequest(echoServer, http.MethodPost, "/ai/suggest-title",
			`{"content": "Some note content", "n": 0, "max_len": -5}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp suggestTitleResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Response)
		assert.LessOrEqual(t, len(resp.Response), 3)
	})
}

func TestSuggestTitle_MalformedBody(t *testing.T) {
	echoServer, _ := newTestServer(t)

	rec := doRequest(echoServer, http.MethodPost, "/ai/suggest-title", `{"content": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
