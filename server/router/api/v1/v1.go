// Package v1 implements the public REST API.
package v1

import (
	"github.com/labstack/echo/v4"

	"github.com/scimatch/scimatch/ai/dialog"
	"github.com/scimatch/scimatch/internal/profile"
	"github.com/scimatch/scimatch/store"
)

type APIV1Service struct {
	Profile *profile.Profile
	Store   *store.Store
	Engine  *dialog.Engine
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store, engine *dialog.Engine) *APIV1Service {
	return &APIV1Service{
		Profile: profile,
		Store:   store,
		Engine:  engine,
	}
}

// RegisterRoutes mounts the API under /api/v1.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	group := e.Group("/api/v1")
	group.POST("/chat/message", s.ChatMessage)
	group.GET("/professors", s.ListProfessors)
	group.GET("/professors/:id", s.GetProfessor)
}
