package api

import (
	"net/http"

	"github.com/eleven-am/cortexview/internal/analysis"
	"github.com/eleven-am/cortexview/internal/dto"
	"github.com/labstack/echo/v4"
)

type reloader interface {
	Reload() []analysis.Persona
}

type PersonaHandler struct {
	personas PersonaSource
}

func NewPersonaHandler(personas PersonaSource) *PersonaHandler {
	return &PersonaHandler{personas: personas}
}

func (h *PersonaHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.POST("/reload", h.Reload)
}

func personaList(personas []analysis.Persona) dto.PersonaListResponse {
	resp := dto.PersonaListResponse{Personas: make([]dto.PersonaResponse, len(personas))}
	for i, p := range personas {
		resp.Personas[i] = toPersonaResponse(p)
	}
	return resp
}

// List godoc
// @Summary      List personas
// @Tags         personas
// @Produce      json
// @Success      200  {object}  dto.PersonaListResponse
// @Router       /personas [get]
func (h *PersonaHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, personaList(h.personas.Personas()))
}

// Reload godoc
// @Summary      Rescan the persona directory
// @Tags         personas
// @Produce      json
// @Success      200  {object}  dto.PersonaListResponse
// @Router       /personas/reload [post]
func (h *PersonaHandler) Reload(c echo.Context) error {
	if r, ok := h.personas.(reloader); ok {
		return c.JSON(http.StatusOK, personaList(r.Reload()))
	}
	return c.JSON(http.StatusOK, personaList(h.personas.Personas()))
}
