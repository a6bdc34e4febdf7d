package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hes0o/clinic-management-system/config"
	"github.com/hes0o/clinic-management-system/internal/clinic/store"
	"github.com/hes0o/clinic-management-system/internal/display"
	"github.com/hes0o/clinic-management-system/internal/doctor"
	"github.com/hes0o/clinic-management-system/internal/queue"
	"github.com/hes0o/clinic-management-system/internal/reception"
	"github.com/hes0o/clinic-management-system/internal/routes"
	"github.com/hes0o/clinic-management-system/internal/staff"
	"github.com/hes0o/clinic-management-system/pkg/clock"
	"github.com/hes0o/clinic-management-system/pkg/storage/mariadb"
	"github.com/hes0o/clinic-management-system/pkg/utils"
	"github.com/hes0o/clinic-management-system/ws"
)

func main() {
	cfg := config.LoadConfig()
	clk := clock.System()

	db, err := mariadb.Connect(cfg)
	if err != nil {
		log.Fatalf("storage init: %v", err)
	}
	defer db.Close()
	if err := mariadb.EnsureSchema(db); err != nil {
		log.Fatalf("storage schema: %v", err)
	}

	st := store.NewSQLStore(db, clk)

	hub := ws.NewHub()
	go hub.Run()

	staffService := staff.NewService(st)
	defaultDoctorID := cfg.DefaultDoctorID
	if defaultDoctorID == "" {
		defaultDoctorID, err = staffService.SeedDefaults()
		if err != nil {
			log.Fatalf("staff seed: %v", err)
		}
	}

	engine := queue.NewEngine(st, clk)
	receptionService := reception.NewService(st, clk)
	doctorService := doctor.NewService(engine, st, clk)
	displayService := display.NewService(st, clk, display.ExecNotifier{}, hub, cfg.AvgServiceMinutes)
	displayService.Start(time.Duration(cfg.DisplayRefreshSeconds)*time.Second, 10*time.Second)
	defer displayService.Stop()

	e := echo.New()
	e.HideBanner = true
	e.Validator = utils.NewRequestValidator()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	routes.Init(e, routes.Controllers{
		Staff:     staff.NewController(staffService),
		Reception: reception.NewController(receptionService, hub),
		Doctor:    doctor.NewController(doctorService, staffService, hub, defaultDoctorID),
		Display:   display.NewController(displayService),
		Hub:       hub,
	})

	log.Printf("Server listening on port %s...", cfg.Port)
	log.Fatal(e.Start(":" + cfg.Port))
}
