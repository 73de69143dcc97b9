package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/scimatch/scimatch/store"
)

// ListProfessors returns directory entries, optionally filtered by name
// substring via ?name= and capped via ?limit= (default 50).
func (s *APIV1Service) ListProfessors(c echo.Context) error {
	find := &store.FindProfessor{}
	if name := c.QueryParam("name"); name != "" {
		find.Name = &name
	}
	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = parsed
	}
	find.Limit = &limit

	professors, err := s.Store.ListProfessors(c.Request().Context(), find)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list professors").SetInternal(err)
	}
	return c.JSON(http.StatusOK, professors)
}

func (s *APIV1Service) GetProfessor(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid professor id")
	}

	professor, err := s.Store.GetProfessor(c.Request().Context(), int32(id))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get professor").SetInternal(err)
	}
	if professor == nil {
		return echo.NewHTTPError(http.StatusNotFound, "professor not found")
	}
	return c.JSON(http.StatusOK, professor)
}
