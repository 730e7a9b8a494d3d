package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/patientor/patientor/internal/config"
	"github.com/patientor/patientor/internal/export"
	"github.com/patientor/patientor/internal/handler"
	"github.com/patientor/patientor/internal/platform/apiclient"
	"github.com/patientor/patientor/internal/platform/metrics"
	"github.com/patientor/patientor/internal/platform/middleware"
	"github.com/patientor/patientor/internal/render"
	"github.com/patientor/patientor/internal/session"
	"github.com/patientor/patientor/internal/state"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "patientor",
		Short: "Patient records front end for the patient API",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(patientsCmd())
	rootCmd.AddCommand(patientCmd())
	rootCmd.AddCommand(diagnosesCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func patientsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patients",
		Short: "List patients",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newCLIService()
			if err != nil {
				return err
			}
			if err := svc.Load(cmd.Context()); err != nil {
				return err
			}
			return writePatients(cmd.OutOrStdout(), svc.Store().State())
		},
	}
}

func patientCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patient <id>",
		Short: "Show a patient with all entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newCLIService()
			if err != nil {
				return err
			}
			// Diagnosis names are optional decoration; a failed load only
			// means codes are printed without names.
			_ = svc.Load(cmd.Context())

			p, err := svc.OpenPatient(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return render.WriteText(cmd.OutOrStdout(), render.Patient(p, svc.Store().State().Diagnoses))
		},
	}
}

func diagnosesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diagnoses",
		Short: "List known diagnoses",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newCLIService()
			if err != nil {
				return err
			}
			if err := svc.Load(cmd.Context()); err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, d := range svc.Store().State().DiagnosisList() {
				fmt.Fprintf(w, "%s\t%s\n", d.Code, d.Name)
			}
			return w.Flush()
		},
	}
}

func exportCmd() *cobra.Command {
	var out string
	var full bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write patients and entries to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newCLIService()
			if err != nil {
				return err
			}
			if err := svc.Load(cmd.Context()); err != nil {
				return err
			}
			if full {
				for _, p := range svc.Store().State().PatientList() {
					if _, err := svc.OpenPatient(cmd.Context(), p.ID); err != nil {
						return err
					}
				}
			}
			data, err := export.Workbook(svc.Store().State())
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "patients.xlsx", "output file")
	cmd.Flags().BoolVar(&full, "entries", true, "fetch every patient's entries before exporting")
	return cmd
}

func writePatients(out io.Writer, st state.State) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tGENDER\tOCCUPATION")
	for _, p := range st.PatientList() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Gender, p.Occupation)
	}
	return w.Flush()
}

// newLogger writes JSON to out, or human-readable lines in development.
func newLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	var logger zerolog.Logger
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out}).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(out).With().Timestamp().Logger()
	}
	return logger.Level(cfg.Level())
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newService(cfg *config.Config, logger zerolog.Logger) *session.Service {
	client := apiclient.New(apiclient.Config{
		BaseURL:    cfg.APIBaseURL,
		Timeout:    cfg.APITimeout,
		RetryCount: cfg.APIRetryCount,
	}, logger.With().Str("component", "apiclient").Logger())
	store := state.NewStore(state.New(), logger.With().Str("component", "store").Logger())
	return session.NewService(store, client, logger)
}

// newCLIService logs to stderr so command output on stdout stays clean.
func newCLIService() (*session.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newService(cfg, newLogger(cfg, os.Stderr)), nil
}

// newServer builds the echo instance with middleware and routes.
func newServer(cfg *config.Config, svc *session.Service, logger zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware. Recovery sits inside the access log and metrics so
	// a recovered panic is still logged and counted as a 500.
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		e.Use(metrics.New(reg).Middleware())
		metrics.ObserveStore(reg, svc.Store())
		e.GET("/metrics", metrics.Handler(reg))
	}
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Content-Type", middleware.RequestIDHeader},
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})

	api := e.Group("/api")
	handler.NewHandler(svc, logger).RegisterRoutes(api)

	return e
}

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stdout)
	svc := newService(cfg, logger)

	// Initial load. The server still starts when the patient API is down;
	// the lists simply stay empty until a patient is opened.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.APITimeout)
	if err := svc.Load(loadCtx); err != nil {
		logger.Warn().Err(err).Msg("initial load incomplete")
	} else {
		st := svc.Store().State()
		logger.Info().
			Int("patients", len(st.Patients)).
			Int("diagnoses", len(st.Diagnoses)).
			Msg("initial load complete")
	}
	cancelLoad()

	e := newServer(cfg, svc, logger)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("api", cfg.APIBaseURL).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
