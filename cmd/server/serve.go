package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/iliyamo/dorm-booking/internal/config"
	"github.com/iliyamo/dorm-booking/internal/database"
	"github.com/iliyamo/dorm-booking/internal/handler"
	"github.com/iliyamo/dorm-booking/internal/jobs"
	"github.com/iliyamo/dorm-booking/internal/media"
	"github.com/iliyamo/dorm-booking/internal/middleware"
	"github.com/iliyamo/dorm-booking/internal/queue"
	"github.com/iliyamo/dorm-booking/internal/repository"
	"github.com/iliyamo/dorm-booking/internal/router"
	"github.com/iliyamo/dorm-booking/internal/service"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the scheduled inventory audit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			lg := newLogger(cfg.Env)

			if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
				db, err := openDB(cfg)
				if err != nil {
					return err
				}
				applied, err := database.Migrate(cmd.Context(), db)
				_ = db.Close()
				if err != nil {
					return err
				}
				lg.Infof("migrations applied: %v", applied)
			}

			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			rdb := config.NewRedisClient()
			if rdb == nil {
				lg.Warn("redis unavailable: browse cache off, rate limiting per process")
			} else {
				defer rdb.Close()
			}
			cache := middleware.NewBrowseCache(config.LoadCacheConfig(), rdb)

			mcfg := config.LoadMediaConfig()
			store, err := media.New(cmd.Context(), mcfg)
			if err != nil {
				return err
			}

			deps := service.Deps{
				Store:  repository.NewMySQLStore(db),
				Logger: lg,
				Media:  store,
				Browse: cache,
				Policy: config.LoadBookingPolicy(),
			}
			if cfg.RabbitURL != "" {
				deps.Events = queue.NewPublisher(cfg.RabbitURL, cfg.RabbitDialTimeout)
			} else {
				lg.Warn("RABBITMQ_URL not set: booking events are not published")
			}

			if cfg.AuditSchedule != "" && cfg.AuditSchedule != "off" {
				c, err := jobs.StartAudit(cfg.AuditSchedule, deps)
				if err != nil {
					return err
				}
				defer c.Stop()
			}

			props := service.NewPropertyService(deps)
			e := echo.New()
			e.HideBanner = true
			e.Logger = lg
			e.JSONSerializer = handler.JSONSerializer{}
			e.Use(echomw.Recover())
			e.Use(requestLogger())
			router.Register(e, router.Handlers{
				DB:            db,
				JWTSecret:     cfg.JWTSecret,
				RateLimit:     middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
				BrowseCache:   cache,
				Properties:    handler.NewPropertyHandler(props),
				Bookings:      handler.NewBookingHandler(service.NewBookingService(deps)),
				Notifications: handler.NewNotificationHandler(service.NewNotificationService(deps)),
				Public:        handler.NewPublicHandler(props),
				Media:         handler.NewMediaHandler(store, mcfg.MaxUploadBytes),
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			addr := ":" + cfg.Port
			lg.Infof("listening on %s (env=%s)", addr, cfg.Env)
			errCh := make(chan error, 1)
			go func() { errCh <- e.Start(addr) }()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().Bool("migrate", false, "apply pending schema migrations before serving")
	return cmd
}

func requestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			if v.Error != nil {
				c.Logger().Errorf("%s %s %d %s: %v", v.Method, v.URI, v.Status, v.Latency, v.Error)
				return nil
			}
			c.Logger().Infof("%s %s %d %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	})
}
