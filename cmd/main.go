package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "smoking_chamber/docs"
	"smoking_chamber/internal/catalog"
	"smoking_chamber/internal/config"
	"smoking_chamber/internal/display"
	"smoking_chamber/internal/handlers"
	"smoking_chamber/internal/hardware"
	"smoking_chamber/internal/input"
	"smoking_chamber/internal/logger"
	"smoking_chamber/internal/panel"
	"smoking_chamber/internal/repository"
	"smoking_chamber/internal/repository/db"
	"smoking_chamber/internal/runstate"
	"smoking_chamber/internal/server"
	"smoking_chamber/internal/service"
	"smoking_chamber/internal/ui"
)

const (
	configDir       = "configs"
	shutdownTimeout = 10 * time.Second
	recoverTimeout  = 5 * time.Second
)

// @title        Smoking Chamber API
// @version      1.0
// @description  Program management, chamber state and remote panel for the smoking chamber controller.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// load config.yml
	cfg, err := config.Load(configDir)
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(cfg.Log.Level)

	// open DB
	conn, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err, "path", cfg.DB.Path)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// hardware and the single run state shared by panel, controller and API
	gpio := hardware.NewSimGPIO()
	clock := hardware.SystemClock{}
	state := runstate.New(runstate.Network{
		Mode: runstate.ParseNetworkMode(cfg.Network.Mode),
		SSID: cfg.Network.SSID,
		IP:   cfg.Network.IP,
	})

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, service.Deps{
		State: state,
		GPIO:  gpio,
		Pins:  cfg.Pins,
		Clock: clock,
		Controller: service.ControllerConfig{
			MaxTempC:     cfg.Controller.MaxTempC,
			AmbientC:     cfg.Controller.AmbientC,
			MinHeaterOff: cfg.Controller.MinHeaterOff,
		},
		Auth: service.AuthConfig{
			SigningKey: cfg.Auth.SigningKey,
			TokenTTL:   cfg.Auth.TokenTTL,
		},
		Log: log.Named("controller"),
	})

	recoverSession(services.Session, log)

	loop, err := newPanel(cfg, gpio, clock, state, repos, services.Session, log)
	if err != nil {
		log.Fatalw("failed to init panel", "err", err)
	}
	services.Panel = loop

	if err := services.ControlLoop.Begin(); err != nil {
		log.Fatalw("failed to init outputs", "err", err)
	}

	// the session writer outlives both loops so their last records are kept
	writerCtx, stopWriter := context.WithCancel(context.Background())
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		services.Session.Run(writerCtx)
	}()

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		loop.Run(ctx, cfg.Panel.PollInterval)
	}()
	go func() {
		defer wg.Done()
		services.ControlLoop.Run(ctx, cfg.Controller.Tick)
	}()

	// start HTTP server
	apiHandler := handlers.NewHandler(services, log.Named("http"))
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)
	log.Infow("smoking chamber started", "port", cfg.Port, "network", cfg.Network.Mode, "ssid", cfg.Network.SSID)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
	wg.Wait()
	services.ControlLoop.Shutdown()
	stopWriter()
	<-writerDone
	log.Infow("outputs driven low; bye")
}

// recoverSession reports a run cut short by a power loss.
func recoverSession(session *service.SessionService, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), recoverTimeout)
	defer cancel()

	if _, err := session.RecoverInterrupted(ctx); err != nil {
		log.Errorw("session recovery failed", "err", err)
	}
}

// newPanel builds the buttons, display, catalog and navigator and returns
// the loop that owns them.
func newPanel(
	cfg config.Config,
	gpio hardware.GPIO,
	clock hardware.Clock,
	state *runstate.State,
	repos *repository.Repository,
	listener ui.Listener,
	log *logger.Logger,
) (*panel.Loop, error) {
	panelLog := log.Named("panel")

	buttons := input.NewButtons(gpio, clock, cfg.Pins, cfg.Panel.Debounce)
	if err := buttons.Begin(); err != nil {
		return nil, err
	}

	frame := display.NewTextFrame()
	nav := ui.NewNavigator(ui.Deps{
		State:    state,
		Catalog:  catalog.New(service.NewProgramLoader(repos.ProgramRepo, log.Named("catalog"))),
		Display:  frame,
		GPIO:     gpio,
		Pins:     cfg.Pins,
		Clock:    clock,
		Listener: listener,
		Log:      panelLog,
	}, cfg.Panel.RenderInterval)
	if err := nav.Begin(); err != nil {
		return nil, err
	}

	return panel.NewLoop(buttons, nav, frame, panelLog), nil
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
