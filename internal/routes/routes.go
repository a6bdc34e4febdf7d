package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/hes0o/clinic-management-system/internal/common/middlewares"
	"github.com/hes0o/clinic-management-system/internal/display"
	"github.com/hes0o/clinic-management-system/internal/doctor"
	"github.com/hes0o/clinic-management-system/internal/reception"
	"github.com/hes0o/clinic-management-system/internal/staff"
	"github.com/hes0o/clinic-management-system/ws"
)

// Controllers bundles the wired controllers for registration.
type Controllers struct {
	Staff     *staff.Controller
	Reception *reception.Controller
	Doctor    *doctor.Controller
	Display   *display.Controller
	Hub       *ws.Hub
}

// Init registers every route on the Echo instance.
func Init(e *echo.Echo, c Controllers) {
	api := e.Group("/api")

	api.POST("/staff/login", c.Staff.Login)

	rec := api.Group("/reception", middlewares.JWTMiddleware(),
		middlewares.RequireRole("receptionist"))
	rec.POST("/patients", c.Reception.RegisterPatient)
	rec.GET("/patients", c.Reception.SearchPatients)
	rec.PUT("/patients/:id", c.Reception.UpdatePatient)
	rec.DELETE("/patients/:id", c.Reception.DeletePatient)
	rec.POST("/patients/:id/ticket", c.Reception.IssueTicket)
	rec.GET("/queue/today", c.Reception.TodayQueue)
	rec.POST("/appointments", c.Reception.CreateAppointment)
	rec.GET("/appointments/today", c.Reception.AppointmentsToday)
	rec.PUT("/appointments/:id/status", c.Reception.SetAppointmentStatus)

	doc := api.Group("/doctor", middlewares.JWTMiddleware(),
		middlewares.RequireRole("doctor"))
	doc.GET("/panel", c.Doctor.Panel)
	doc.PUT("/form", c.Doctor.StageForm)
	doc.POST("/queue/next", c.Doctor.CallNext)
	doc.POST("/queue/call/:id", c.Doctor.CallSpecific)
	doc.POST("/queue/present", c.Doctor.MarkPresent)
	doc.POST("/queue/absent", c.Doctor.MarkAbsent)
	doc.POST("/queue/complete", c.Doctor.Complete)

	// the public display is unauthenticated
	disp := api.Group("/display")
	disp.GET("/board", c.Display.Board)
	disp.POST("/mute", c.Display.SetMute)

	e.GET("/ws", ws.ServeWS(c.Hub))
}
