package display

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hes0o/clinic-management-system/pkg/utils"
)

type Controller struct {
	Service *Service
}

func NewController(service *Service) *Controller {
	return &Controller{Service: service}
}

// Board handles GET /api/display/board: a fresh read of the queue for
// clients that poll instead of listening on the websocket.
func (dc *Controller) Board(c echo.Context) error {
	board, err := dc.Service.RefreshNow()
	if err != nil {
		return utils.Respond(c, http.StatusInternalServerError, "Failed to load board: "+err.Error(), nil)
	}
	return utils.Respond(c, http.StatusOK, "Board retrieved", board)
}

type muteRequest struct {
	Muted bool `json:"muted"`
}

func (dc *Controller) SetMute(c echo.Context) error {
	var req muteRequest
	if err := c.Bind(&req); err != nil {
		return utils.Respond(c, http.StatusBadRequest, "Invalid request body", nil)
	}
	dc.Service.SetMuted(req.Muted)
	return utils.Respond(c, http.StatusOK, "Mute updated", map[string]interface{}{
		"muted": dc.Service.Muted(),
	})
}
