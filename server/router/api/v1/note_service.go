package v1

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/defterly/defterly/store"
)

type notePayload struct {
	ID        int32  `json:"id"`
	UID       string `json:"uid"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedTs int64  `json:"created_ts"`
	UpdatedTs int64  `json:"updated_ts"`
}

type createNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// updateNoteRequest carries a partial update: nil fields are left untouched.
type updateNoteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func convertNote(note *store.Note) *notePayload {
	return &notePayload{
		ID:        note.ID,
		UID:       note.UID,
		Title:     note.Title,
		Content:   note.Content,
		CreatedTs: note.CreatedTs,
		UpdatedTs: note.UpdatedTs,
	}
}

// ListNotes handles GET /notes, most recently created first.
func (s *APIV1Service) ListNotes(c echo.Context) error {
	notes, err := s.Store.ListNotes(c.Request().Context(), &store.FindNote{})
	if err != nil {
		slog.Error("failed to list notes", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list notes")
	}

	payload := make([]*notePayload, 0, len(notes))
	for _, note := range notes {
		payload = append(payload, convertNote(note))
	}
	return c.JSON(http.StatusOK, payload)
}

// CreateNote handles POST /notes.
func (s *APIV1Service) CreateNote(c echo.Context) error {
	var req createNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	note, err := s.Store.CreateNote(c.Request().Context(), &store.Note{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		slog.Error("failed to create note", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create note")
	}
	return c.JSON(http.StatusCreated, convertNote(note))
}

// GetNote handles GET /notes/:id.
func (s *APIV1Service) GetNote(c echo.Context) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}

	note, err := s.Store.GetNote(c.Request().Context(), id)
	if err != nil {
		slog.Error("failed to get note", "id", id, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get note")
	}
	if note == nil {
		return echo.NewHTTPError(http.StatusNotFound, "note not found")
	}
	return c.JSON(http.StatusOK, convertNote(note))
}

// UpdateNote handles PUT /notes/:id. Only supplied fields change.
func (s *APIV1Service) UpdateNote(c echo.Context) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}

	var req updateNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	note, err := s.Store.UpdateNote(c.Request().Context(), &store.UpdateNote{
		ID:      id,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		slog.Error("failed to update note", "id", id, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update note")
	}
	if note == nil {
		return echo.NewHTTPError(http.StatusNotFound, "note not found")
	}
	return c.JSON(http.StatusOK, convertNote(note))
}

// DeleteNote handles DELETE /notes/:id.
func (s *APIV1Service) DeleteNote(c echo.Context) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	note, err := s.Store.GetNote(ctx, id)
	if err != nil {
		slog.Error("failed to get note", "id", id, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete note")
	}
	if note == nil {
		return echo.NewHTTPError(http.StatusNotFound, "note not found")
	}

	if err := s.Store.DeleteNote(ctx, &store.DeleteNote{ID: id}); err != nil {
		slog.Error("failed to delete note", "id", id, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete note")
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "note deleted"})
}

func noteID(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid note id")
	}
	return int32(id), nil
}
