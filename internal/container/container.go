// Package container wires the assistant's services using go.uber.org/dig.
package container

import (
	"fmt"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/afero"
	"go.uber.org/dig"
	"gorm.io/gorm"

	"shutdownassistant/internal/application/service"
	"shutdownassistant/internal/domain/repository"
	"shutdownassistant/internal/infrastructure/config"
	"shutdownassistant/internal/infrastructure/database/sqlite"
	lineClient "shutdownassistant/internal/infrastructure/line"
	"shutdownassistant/internal/infrastructure/scheduler"
	"shutdownassistant/internal/infrastructure/system"
	"shutdownassistant/internal/interfaces/api/handler"
	"shutdownassistant/internal/interfaces/api/router"
	"shutdownassistant/internal/pkg/logger"
)

// Options carries what the container cannot build by itself. The nil-able
// fields select the real implementation when left empty.
type Options struct {
	AppName  string
	Settings *config.Settings
	Logger   logger.Logger

	Actions system.Actions
	DB      *gorm.DB
	Fs      afero.Fs
}

// Container holds the resolved core services.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	d          *dig.Container
	settings   *config.Settings
	actions    system.Actions
	shutdown   service.ShutdownService
	preference service.PreferenceService
}

func (c *Container) Settings() *config.Settings                   { return c.settings }
func (c *Container) Actions() system.Actions                      { return c.actions }
func (c *Container) ShutdownService() service.ShutdownService     { return c.shutdown }
func (c *Container) PreferenceService() service.PreferenceService { return c.preference }

// New builds and wires the core services from opts. The HTTP surface and
// the cron jobs are only built by Server.
func New(opts Options) (*Container, error) {
	if opts.Settings == nil || opts.Logger == nil {
		return nil, fmt.Errorf("container: settings and logger are required")
	}
	d := dig.New()

	providers := []any{
		func() *config.Settings { return opts.Settings },
		func() logger.Logger { return opts.Logger },
		func() system.Actions {
			if opts.Actions != nil {
				return opts.Actions
			}
			return system.New(opts.AppName, system.ExecRunner, opts.Logger)
		},
		func() afero.Fs {
			if opts.Fs != nil {
				return opts.Fs
			}
			return afero.NewOsFs()
		},
		func(s *config.Settings) *gorm.DB {
			if opts.DB != nil {
				return opts.DB
			}
			path := s.DBPath
			if path == "" {
				path = sqlite.DefaultPath(opts.AppName)
			}
			return sqlite.NewDB(path)
		},
		sqlite.NewUserRepository,
		sqlite.NewScheduleRepository,
		newPreferenceStore,
		newLineClient,
		newNotifier,
		newShutdownService,
		service.NewPreferenceService,
		newUserService,
		newCronScheduler,
		service.NewSchedulerService,
		handler.NewShutdownHandler,
		newLineHandler,
		newRouter,
	}
	for _, p := range providers {
		if err := d.Provide(p); err != nil {
			return nil, err
		}
	}

	c := &Container{d: d}
	err := d.Invoke(func(
		settings *config.Settings,
		actions system.Actions,
		shutdown service.ShutdownService,
		preference service.PreferenceService,
	) {
		c.settings = settings
		c.actions = actions
		c.shutdown = shutdown
		c.preference = preference
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Server resolves the HTTP router and the background job service. Resolving
// starts the cron scheduler.
func (c *Container) Server() (*echo.Echo, service.SchedulerService, error) {
	var (
		e    *echo.Echo
		jobs service.SchedulerService
	)
	err := c.d.Invoke(func(r *echo.Echo, s service.SchedulerService) {
		e = r
		jobs = s
	})
	return e, jobs, err
}

func newPreferenceStore(fs afero.Fs, s *config.Settings, log logger.Logger) repository.PreferenceRepository {
	return config.NewPreferenceStore(fs, s.ConfigFile, log)
}

// newLineClient returns nil when no LINE channel is configured.
func newLineClient(log logger.Logger) *lineClient.Client {
	client, err := lineClient.NewClient(log)
	if err != nil {
		log.Warn(fmt.Sprintf("LINE disabled: %v", err))
		return nil
	}
	return client
}

// newNotifier pushes to MY_USER_ID when LINE is available.
func newNotifier(client *lineClient.Client) service.Notifier {
	adminID := os.Getenv("MY_USER_ID")
	if client == nil || adminID == "" {
		return nil
	}
	return lineClient.NewAdminNotifier(client, adminID)
}

func newShutdownService(
	scheduleRepo repository.ScheduleRepository,
	prefRepo repository.PreferenceRepository,
	actions system.Actions,
	notifier service.Notifier,
	log logger.Logger,
) service.ShutdownService {
	return service.NewShutdownService(scheduleRepo, prefRepo, actions, notifier, log)
}

func newUserService(userRepo repository.UserRepository, log logger.Logger) service.UserService {
	return service.NewUserService(userRepo, log)
}

func newCronScheduler(log logger.Logger) *scheduler.Scheduler {
	return scheduler.NewScheduler(time.Local, log)
}

func newLineHandler(
	client *lineClient.Client,
	users service.UserService,
	shutdown service.ShutdownService,
	preference service.PreferenceService,
	log logger.Logger,
) *handler.LineHandler {
	if client == nil {
		return nil
	}
	return handler.NewLineHandler(client, users, shutdown, preference, lineClient.OperatorIDs(), log)
}

func newRouter(
	s *config.Settings,
	shutdownHandler *handler.ShutdownHandler,
	lineHandler *handler.LineHandler,
	log logger.Logger,
) *echo.Echo {
	return router.NewRouter(&router.Config{
		ShutdownHandler: shutdownHandler,
		LineHandler:     lineHandler,
		Logger:          log,
		APIKey:          s.APIKey,
		AllowedOrigins:  s.AllowedOrigins,
	})
}
