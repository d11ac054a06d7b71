package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"clinic-booking-client/config"
	"clinic-booking-client/internal/api"
	"clinic-booking-client/internal/booking"
	"clinic-booking-client/internal/delivery/cli"
	"clinic-booking-client/internal/directory"
	"clinic-booking-client/internal/notify"
	"clinic-booking-client/internal/slots"
	"clinic-booking-client/pkg/validator"

	"github.com/sirupsen/logrus"
)

// App holds all dependencies for the client.
type App struct {
	Config    *config.Config
	Client    *api.Client
	Directory *directory.Cache
	SlotQuery *slots.Query
	Machine   *booking.Machine
	Notices   *notify.Queue
	Session   *cli.Session
}

// New creates an App instance with all dependencies initialized.
func New() (*App, error) {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	setupLogger(cfg)
	log := logrus.StandardLogger()
	log.Info("Configuration loaded successfully")

	// Initialize the API client
	client := api.NewClient(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithLogger(log),
	)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize core components
	notices := notify.NewQueue(cfg.Notify.VisibleDuration, log)
	cache := directory.NewCache(client, log)
	slotQuery := slots.NewQuery(client, log)
	machine := booking.NewMachine(client, customValidator, notices, log)

	// Initialize the interactive session
	session := cli.NewSession(client, cache, slotQuery, machine, notices, os.Stdin, os.Stdout, log).
		WithPrefill(cfg.Notify.PatientName, cfg.Notify.PatientEmail)

	return &App{
		Config:    cfg,
		Client:    client,
		Directory: cache,
		SlotQuery: slotQuery,
		Machine:   machine,
		Notices:   notices,
		Session:   session,
	}, nil
}

// setupLogger configures the logrus logger. Log lines go to stderr so
// they never interleave with the interactive output on stdout.
func setupLogger(cfg *config.Config) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// Run refreshes the doctor directory once, starts the interactive
// session and blocks until it ends or a termination signal arrives.
func (app *App) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The directory is fetched once at startup; a failure is not fatal,
	// the user can retry from the session.
	if _, err := app.Directory.Refresh(ctx); err != nil {
		app.Notices.Error("could not load the doctor list")
		logrus.Warnf("Startup doctor refresh failed: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- app.Session.Run(ctx)
	}()

	app.waitForShutdown(done)
}

// waitForShutdown blocks until the session ends or a signal is received.
func (app *App) waitForShutdown(done <-chan error) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-done:
		if err != nil {
			logrus.Errorf("Session ended with error: %v", err)
		}
	case <-quit:
		logrus.Info("Shutting down...")
	}

	app.Close()
	logrus.Info("Shutdown complete")
}

// Close releases everything that owns timers or connections.
func (app *App) Close() {
	if app.Notices != nil {
		app.Notices.Close()
	}
}
