package staff

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hes0o/clinic-management-system/pkg/utils"
)

type Controller struct {
	Service *Service
}

func NewController(service *Service) *Controller {
	return &Controller{Service: service}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (sc *Controller) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return utils.Respond(c, http.StatusBadRequest, "Invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return utils.Respond(c, http.StatusBadRequest, "username and password are required", nil)
	}

	member, err := sc.Service.Authenticate(req.Username, req.Password)
	if err != nil {
		if err == ErrInvalidCredentials {
			return utils.Respond(c, http.StatusUnauthorized, "Invalid username or password", nil)
		}
		return utils.Respond(c, http.StatusInternalServerError, "Login failed: "+err.Error(), nil)
	}

	token, err := utils.GenerateJWTToken(member.ID, string(member.Role), member.Username,
		time.Now().Add(12*time.Hour))
	if err != nil {
		return utils.Respond(c, http.StatusInternalServerError, "Failed to sign token: "+err.Error(), nil)
	}

	return utils.Respond(c, http.StatusOK, "Login successful", map[string]interface{}{
		"token":     token,
		"staff_id":  member.ID,
		"full_name": member.FullName,
		"role":      member.Role,
	})
}
