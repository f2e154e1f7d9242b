package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/defterly/defterly/ai/suggest"
)

// suggestTitleRequest is the POST /ai/suggest-title body. Field names are the
// documented API contract.
type suggestTitleRequest struct {
	Content string `json:"content"`
	MaxLen  int    `json:"max_len"`
	N       int    `json:"n"`
}

type suggestTitleResponse struct {
	Response []string `json:"response"`
}

// SuggestTitle handles POST /ai/suggest-title. It always answers 200 with a
// list of suggestions; model failures degrade to the heuristic generator
// inside the suggester and are never surfaced as errors.
func (s *APIV1Service) SuggestTitle(c echo.Context) error {
	var req suggestTitleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	if req.MaxLen < 1 {
		req.MaxLen = suggest.DefaultMaxLen
	}
	if req.N < 1 {
		req.N = suggest.DefaultCount
	}

	titles := s.Suggester.Suggest(c.Request().Context(), req.Content, req.MaxLen, req.N)
	return c.JSON(http.StatusOK, suggestTitleResponse{Response: titles})
}
