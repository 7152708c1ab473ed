package handlers

import (
	"errors"
	"net/http"
	"ongkir-service/internal/adapters/geolocation"
	"ongkir-service/internal/api/dto"
	"ongkir-service/internal/domain"
	"ongkir-service/internal/services"
	"strings"

	"github.com/gin-gonic/gin"
)

// WorkspaceCookie holds the workspace id of a browser.
const WorkspaceCookie = "ongkir_ws"

const maxQueryLength = 256

// QuoteHandler exposes the fare pipeline of the caller's workspace.
// Pipeline failures are part of the normal response; only malformed
// requests get a non-2xx status.
type QuoteHandler struct {
	Workspaces *Workspaces
	Config     dto.ConfigResponse
}

// workspace returns the caller's workspace, creating one (and its cookie) when
// the cookie is missing or points at an evicted workspace.
func (h *QuoteHandler) workspace(c *gin.Context) (*Workspace, bool) {
	if id, err := c.Cookie(WorkspaceCookie); err == nil {
		if ws, ok := h.Workspaces.Get(id); ok {
			return ws, true
		}
	}

	ws, err := h.Workspaces.Create()
	if err != nil {
		writeError(c, http.StatusInternalServerError, "could not create workspace")
		return nil, false
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(WorkspaceCookie, ws.ID, int(h.Workspaces.IdleTimeout().Seconds()), "/", "", false, true)
	return ws, true
}

func (h *QuoteHandler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.Config)
}

func (h *QuoteHandler) GetState(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, stateResponse(ws))
}

func (h *QuoteHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if !decodeJSON(c, &req) {
		return
	}
	if len(req.Query) > maxQueryLength {
		writeError(c, http.StatusBadRequest, "query is too long")
		return
	}

	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	out := ws.Orchestrator.SearchText(c.Request.Context(), req.Query)
	respond(c, ws, out)
}

func (h *QuoteHandler) Select(c *gin.Context) {
	var req dto.SelectRequest
	if !decodeJSON(c, &req) {
		return
	}
	if req.Ref == nil && req.Index == nil {
		writeError(c, http.StatusBadRequest, "index or ref is required")
		return
	}

	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	var out services.Outcome
	if req.Ref != nil {
		out = ws.Orchestrator.SelectRef(c.Request.Context(), *req.Ref)
	} else {
		out = ws.Orchestrator.SelectCandidate(c.Request.Context(), *req.Index)
	}
	respond(c, ws, out)
}

func (h *QuoteHandler) MapClick(c *gin.Context) {
	var req dto.MapClickRequest
	if !decodeJSON(c, &req) {
		return
	}
	if req.Lat == nil || req.Lon == nil {
		writeError(c, http.StatusBadRequest, "lat and lon are required")
		return
	}
	at := domain.Coordinates{Lat: *req.Lat, Lon: *req.Lon}
	if err := at.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	out := ws.Orchestrator.MapClick(c.Request.Context(), at)
	respond(c, ws, out)
}

func (h *QuoteHandler) Geolocation(c *gin.Context) {
	var req dto.GeolocationRequest
	if !decodeJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.Error) == "" && (req.Lat == nil || req.Lon == nil) {
		writeError(c, http.StatusBadRequest, "lat and lon or error is required")
		return
	}

	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	report := geolocation.Report{Lat: req.Lat, Lon: req.Lon, Error: req.Error}
	out := ws.Orchestrator.UseMyLocation(c.Request.Context(), report)
	respond(c, ws, out)
}

func respond(c *gin.Context, ws *Workspace, out services.Outcome) {
	c.JSON(http.StatusOK, dto.InteractionResponse{
		Outcome: outcomeResponse(out),
		State:   stateResponse(ws),
	})
}

func stateResponse(ws *Workspace) dto.StateResponse {
	return dto.StateResponse{
		Workspace: ws.ID,
		State:     string(ws.Orchestrator.State()),
		Display:   ws.Panel.Snapshot(),
		Overlays:  ws.Canvas.FeatureCollection(),
		Viewport:  ws.Canvas.View(),
	}
}

func outcomeResponse(out services.Outcome) dto.OutcomeResponse {
	res := dto.OutcomeResponse{
		InteractionID: out.InteractionID.String(),
		Trigger:       string(out.Trigger),
		State:         string(out.State),
		Destination:   out.Destination,
		Fare:          out.Fare,
		Options:       out.Options,
		Stale:         out.Stale,
	}
	if out.Err != nil {
		res.Error = errorCode(out.Err)
		res.Message = services.Message(out.Err)
	}
	return res
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		return "empty_query"
	case errors.Is(err, domain.ErrDestinationNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrRouteUnavailable):
		return "route_unavailable"
	case errors.Is(err, domain.ErrSelectionUnavailable):
		return "selection_unavailable"
	case errors.Is(err, domain.ErrGeolocationDenied):
		return "geolocation_denied"
	case errors.Is(err, domain.ErrGeolocationUnsupported):
		return "geolocation_unsupported"
	case errors.Is(err, domain.ErrGeolocationUnavailable):
		return "geolocation_unavailable"
	case errors.Is(err, domain.ErrInvalidPricing):
		return "invalid_pricing"
	}
	return "internal"
}
