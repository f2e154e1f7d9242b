// Package v1 implements the JSON API surface.
package v1

import (
	"github.com/labstack/echo/v4"

	"github.com/defterly/defterly/ai/suggest"
	"github.com/defterly/defterly/internal/profile"
	"github.com/defterly/defterly/store"
)

type APIV1Service struct {
	Profile   *profile.Profile
	Store     *store.Store
	Suggester *suggest.Suggester
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store, suggester *suggest.Suggester) *APIV1Service {
	return &APIV1Service{
		Profile:   profile,
		Store:     store,
		Suggester: suggester,
	}
}

// RegisterRoutes registers all API routes with the given Echo instance.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo) {
	echoServer.POST("/ai/suggest-title", s.SuggestTitle)

	echoServer.GET("/notes", s.ListNotes)
	echoServer.POST("/notes", s.CreateNote)
	echoServer.GET("/notes/:id", s.GetNote)
	echoServer.PUT("/notes/:id", s.UpdateNote)
	echoServer.DELETE("/notes/:id", s.DeleteNote)
}
