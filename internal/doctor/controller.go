package doctor

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hes0o/clinic-management-system/internal/clinic/models"
	"github.com/hes0o/clinic-management-system/internal/common/middlewares"
	"github.com/hes0o/clinic-management-system/internal/queue"
	"github.com/hes0o/clinic-management-system/internal/staff"
	"github.com/hes0o/clinic-management-system/pkg/utils"
	"github.com/hes0o/clinic-management-system/ws"
)

type Controller struct {
	Service         *Service
	Staff           *staff.Service
	Hub             *ws.Hub
	DefaultDoctorID string
}

func NewController(service *Service, staffService *staff.Service, hub *ws.Hub, defaultDoctorID string) *Controller {
	return &Controller{
		Service:         service,
		Staff:           staffService,
		Hub:             hub,
		DefaultDoctorID: defaultDoctorID,
	}
}

func (dc *Controller) Panel(c echo.Context) error {
	panel, err := dc.Service.Panel()
	if err != nil {
		return utils.Respond(c, http.StatusInternalServerError, "Failed to load panel: "+err.Error(), nil)
	}
	return utils.Respond(c, http.StatusOK, "Panel retrieved", panel)
}

func (dc *Controller) broadcast(event string, t *models.QueueTicket) {
	payload := map[string]interface{}{}
	if t != nil {
		payload["ticket_id"] = t.ID
		payload["ticket_number"] = t.TicketNumber
		payload["status"] = t.Status
	}
	dc.Hub.BroadcastJSON(event, payload)
}

// CallNext pages the next waiting patient. An empty queue is not an error:
// the response reports that nothing changed.
func (dc *Controller) CallNext(c echo.Context) error {
	ticket, err := dc.Service.CallNext()
	if err != nil {
		return utils.Respond(c, http.StatusInternalServerError, "Failed to call next: "+err.Error(), nil)
	}
	if ticket == nil {
		return utils.Respond(c, http.StatusOK, "No patients waiting", nil)
	}
	dc.broadcast("ticket.called", ticket)
	return utils.Respond(c, http.StatusOK, "Patient called", ticket)
}

func (dc *Controller) CallSpecific(c echo.Context) error {
	ticket, err := dc.Service.CallSpecific(c.Param("id"))
	if err != nil {
		return utils.Respond(c, http.StatusInternalServerError, "Failed to call ticket: "+err.Error(), nil)
	}
	if ticket == nil {
		return utils.Respond(c, http.StatusNotFound, "Ticket not found or not callable", nil)
	}
	dc.broadcast("ticket.called", ticket)
	return utils.Respond(c, http.StatusOK, "Patient called", ticket)
}

func (dc *Controller) MarkPresent(c echo.Context) error {
	ticket, err := dc.Service.MarkPresent()
	if err != nil {
		return utils.Respond(c, http.StatusInternalServerError, "Failed to mark present: "+err.Error(), nil)
	}
	if ticket == nil {
		return utils.Respond(c, http.StatusOK, "No patient is currently called", nil)
	}
	dc.broadcast("ticket.present", ticket)
	return utils.Respond(c, http.StatusOK, "Patient marked present", ticket)
}

func (dc *Controller) MarkAbsent(c echo.Context) error {
	ticket, err := dc.Service.MarkAbsent()
	if err != nil {
		return utils.Respond(c, http.StatusInternalServerError, "Failed to mark absent: "+err.Error(), nil)
	}
	if ticket == nil {
		return utils.Respond(c, http.StatusOK, "No patient is currently called", nil)
	}
	dc.broadcast("ticket.absent", ticket)
	return utils.Respond(c, http.StatusOK, "Patient marked absent", ticket)
}

type encounterRequest struct {
	Diagnosis     string   `json:"diagnosis"`
	Prescriptions string   `json:"prescriptions"`
	Notes         string   `json:"notes"`
	InvoiceAmount *float64 `json:"invoice_amount,omitempty"`
}

func (r encounterRequest) form() queue.EncounterForm {
	return queue.EncounterForm{
		Diagnosis:     r.Diagnosis,
		Prescriptions: r.Prescriptions,
		Notes:         r.Notes,
		InvoiceAmount: r.InvoiceAmount,
	}
}

// StageForm stores the encounter fields ahead of completion, mirroring the
// panel's draft state for reconnecting clients.
func (dc *Controller) StageForm(c echo.Context) error {
	var req encounterRequest
	if err := c.Bind(&req); err != nil {
		return utils.Respond(c, http.StatusBadRequest, "Invalid request body", nil)
	}
	dc.Service.StageForm(req.form())
	return utils.Respond(c, http.StatusOK, "Form staged", nil)
}

// Complete writes the visit record and closes the current ticket. The visit
// is attributed to the doctor from the session claims, falling back to the
// configured default operator.
func (dc *Controller) Complete(c echo.Context) error {
	var req encounterRequest
	if err := c.Bind(&req); err != nil {
		return utils.Respond(c, http.StatusBadRequest, "Invalid request body", nil)
	}

	var sessionID string
	if claims := middlewares.ClaimsFrom(c); claims != nil {
		sessionID = claims.StaffID
	}
	doctorID := dc.Staff.ResolveDoctorID(sessionID, dc.DefaultDoctorID)

	visit, err := dc.Service.Complete(doctorID, req.form())
	if err != nil {
		return utils.Respond(c, http.StatusInternalServerError, "Failed to complete visit: "+err.Error(), nil)
	}
	if visit == nil {
		return utils.Respond(c, http.StatusOK, "No patient is currently being served", nil)
	}

	dc.Hub.BroadcastJSON("visit.completed", map[string]interface{}{
		"visit_id":   visit.ID,
		"patient_id": visit.PatientID,
	})
	return utils.Respond(c, http.StatusOK, "Visit completed", visit)
}
