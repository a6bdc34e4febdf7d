package reception

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hes0o/clinic-management-system/internal/clinic/models"
	"github.com/hes0o/clinic-management-system/internal/clinic/store"
	"github.com/hes0o/clinic-management-system/pkg/utils"
	"github.com/hes0o/clinic-management-system/ws"
)

type Controller struct {
	Service *Service
	Hub     *ws.Hub
}

func NewController(service *Service, hub *ws.Hub) *Controller {
	return &Controller{Service: service, Hub: hub}
}

// RegisterPatient handles POST /api/reception/patients: create the patient
// and issue today's next ticket atomically, then notify every connected view.
func (rc *Controller) RegisterPatient(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return utils.Respond(c, http.StatusBadRequest, "Invalid request body", nil)
	}
	if err := c.Validate(&in); err != nil {
		return utils.Respond(c, http.StatusBadRequest, "Validation failed: "+err.Error(), nil)
	}

	patient, ticket, err := rc.Service.Register(in)
	if err != nil {
		return utils.Respond(c, http.StatusInternalServerError, "Failed to register patient: "+err.Error(), nil)
	}

	rc.Hub.BroadcastJSON("ticket.created", map[string]interface{}{
		"ticket_id":     ticket.ID,
		"ticket_number": ticket.TicketNumber,
		"patient_name":  patient.FullName,
	})

	return utils.Respond(c, http.StatusCreated, "Patient registered", map[string]interface{}{
		"patient": patient,
		"ticket":  ticket,
	})
}

// IssueTicket handles POST /api/reception/patients/:id/ticket for returning
// patients.
func (rc *Controller) IssueTicket(c echo.Context) error {
	ticket, err := rc.Service.IssueTicket(c.Param("id"))
	if err != nil {
		if err == store.ErrNotFound {
			return utils.Respond(c, http.StatusNotFound, "Patient not found", nil)
		}
		return utils.Respond(c, http.StatusInternalServerError, "Failed to issue ticket: "+err.Error(), nil)
	}

	rc.Hub.BroadcastJSON("ticket.created", map[string]interface{}{
		"ticket_id":     ticket.ID,
		"ticket_number": ticket.TicketNumber,
		"patient_name":  ticket.PatientName,
	})

	return utils.Respond(c, http.StatusCreated, "Ticket issued", ticket)
}

func (rc *Controller) SearchPatients(c echo.Context) error {
	patients, err := rc.Service.Search(c.QueryParam("query"))
	if err != nil {
		return utils.Respond(c, http.StatusInternalServerError, "Search failed: "+err.Error(), nil)
	}
	return utils.Respond(c, http.StatusOK, "Patients retrieved", patients)
}

func (rc *Controller) UpdatePatient(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return utils.Respond(c, http.StatusBadRequest, "Invalid request body", nil)
	}
	if err := c.Validate(&in); err != nil {
		return utils.Respond(c, http.StatusBadRequest, "Validation failed: "+err.Error(), nil)
	}

	patient, err := rc.Service.Update(c.Param("id"), in)
	if err != nil {
		if err == store.ErrNotFound {
			return utils.Respond(c, http.StatusNotFound, "Patient not found", nil)
		}
		return utils.Respond(c, http.StatusInternalServerError, "Failed to update patient: "+err.Error(), nil)
	}
	return utils.Respond(c, http.StatusOK, "Patient updated", patient)
}

func (rc *Controller) DeletePatient(c echo.Context) error {
	if err := rc.Service.Delete(c.Param("id")); err != nil {
		if err == store.ErrNotFound {
			return utils.Respond(c, http.StatusNotFound, "Patient not found", nil)
		}
		return utils.Respond(c, http.StatusInternalServerError, "Failed to delete patient: "+err.Error(), nil)
	}
	return utils.Respond(c, http.StatusOK, "Patient deleted", nil)
}

func (rc *Controller) TodayQueue(c echo.Context) error {
	today, err := rc.Service.Today()
	if err != nil {
		return utils.Respond(c, http.StatusInternalServerError, "Failed to load queue: "+err.Error(), nil)
	}
	return utils.Respond(c, http.StatusOK, "Queue retrieved", today)
}

func (rc *Controller) CreateAppointment(c echo.Context) error {
	var in AppointmentInput
	if err := c.Bind(&in); err != nil {
		return utils.Respond(c, http.StatusBadRequest, "Invalid request body", nil)
	}
	if err := c.Validate(&in); err != nil {
		return utils.Respond(c, http.StatusBadRequest, "Validation failed: "+err.Error(), nil)
	}

	appointment, err := rc.Service.Schedule(in)
	if err != nil {
		if err == store.ErrNotFound {
			return utils.Respond(c, http.StatusNotFound, "Patient not found", nil)
		}
		return utils.Respond(c, http.StatusInternalServerError, "Failed to schedule appointment: "+err.Error(), nil)
	}
	return utils.Respond(c, http.StatusCreated, "Appointment scheduled", appointment)
}

func (rc *Controller) AppointmentsToday(c echo.Context) error {
	appointments, err := rc.Service.AppointmentsToday()
	if err != nil {
		return utils.Respond(c, http.StatusInternalServerError, "Failed to load appointments: "+err.Error(), nil)
	}
	return utils.Respond(c, http.StatusOK, "Appointments retrieved", appointments)
}

type appointmentStatusRequest struct {
	Status models.AppointmentStatus `json:"status" validate:"required,oneof=scheduled arrived in_progress completed cancelled no_show"`
}

func (rc *Controller) SetAppointmentStatus(c echo.Context) error {
	var req appointmentStatusRequest
	if err := c.Bind(&req); err != nil {
		return utils.Respond(c, http.StatusBadRequest, "Invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return utils.Respond(c, http.StatusBadRequest, "Validation failed: "+err.Error(), nil)
	}
	if err := rc.Service.SetAppointmentStatus(c.Param("id"), req.Status); err != nil {
		if err == store.ErrNotFound {
			return utils.Respond(c, http.StatusNotFound, "Appointment not found", nil)
		}
		return utils.Respond(c, http.StatusInternalServerError, "Failed to update appointment: "+err.Error(), nil)
	}
	return utils.Respond(c, http.StatusOK, "Appointment updated", nil)
}
