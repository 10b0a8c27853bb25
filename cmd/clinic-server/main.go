package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cliniva/cliniva/internal/config"
	"github.com/cliniva/cliniva/internal/domain/backup"
	"github.com/cliniva/cliniva/internal/domain/doctor"
	"github.com/cliniva/cliniva/internal/domain/patient"
	"github.com/cliniva/cliniva/internal/domain/prescription"
	"github.com/cliniva/cliniva/internal/domain/stats"
	"github.com/cliniva/cliniva/internal/platform/auth"
	"github.com/cliniva/cliniva/internal/platform/db"
	"github.com/cliniva/cliniva/internal/platform/middleware"
	"github.com/cliniva/cliniva/internal/platform/upload"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "Clinic management API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(adminCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the clinic API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	client, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer client.Disconnect(ctx)
	logger.Info().Str("database", cfg.MongoDB).Msg("connected to database")

	cols := db.NewCollections(client, cfg.MongoDB)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Repositories
	doctorRepo := doctor.NewMongoRepo(cols.Doctors)
	patientRepo := patient.NewMongoRepo(cols.Patients)
	prescriptionRepo := prescription.NewMongoRepo(cols.Prescriptions)

	// Platform services
	tokens := auth.NewTokens([]byte(cfg.JWTSecret))
	uploads := upload.NewStore(cfg.UploadDir)

	// Domain services
	doctorSvc := doctor.NewService(doctorRepo, tokens, uploads)
	patientSvc := patient.NewService(patientRepo, prescriptionRepo, uploads)
	prescriptionSvc := prescription.NewService(prescriptionRepo, patientRepo, doctorRepo)
	statsSvc := stats.NewService(stats.NewMongoRepo(cols.Patients, cols.Prescriptions))
	backupEngine := backup.NewEngine(
		backup.NewMongoDoctorStore(cols.Doctors),
		backup.NewMongoPatientStore(cols.Patients),
		backup.NewMongoPrescriptionStore(cols.Prescriptions),
		logger,
	)

	// Routes: /api is public, everything behind the token check goes on the
	// same group wrapped with the auth middleware.
	api := e.Group("/api")
	authed := e.Group("/api", auth.Middleware(tokens, doctorRepo))

	doctor.NewHandler(doctorSvc).RegisterRoutes(api, authed)
	patient.NewHandler(patientSvc).RegisterRoutes(authed)
	prescription.NewHandler(prescriptionSvc, doctorRepo).RegisterRoutes(authed)
	stats.NewHandler(statsSvc).RegisterRoutes(authed)
	backup.NewHandler(backupEngine).RegisterRoutes(authed)

	api.GET("/health", db.HealthHandler(client, cfg.Env))
	e.Static("/uploads", cfg.UploadDir)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Operator tasks",
	}
	cmd.AddCommand(createDoctorCmd())
	cmd.AddCommand(resetPasswordCmd())
	return cmd
}

// withRepo loads config, connects, and hands the doctor repository to an
// operator task.
func withRepo(fn func(ctx context.Context, repo *doctor.MongoRepo) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	cols := db.NewCollections(client, cfg.MongoDB)
	return fn(ctx, doctor.NewMongoRepo(cols.Doctors))
}

func createDoctorCmd() *cobra.Command {
	var in doctor.RegisterInput

	cmd := &cobra.Command{
		Use:   "create-doctor",
		Short: "Create a doctor account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(func(ctx context.Context, repo *doctor.MongoRepo) error {
				svc := doctor.NewService(repo, auth.NewTokens(nil), nil)
				d, _, err := svc.Register(ctx, in)
				if err != nil {
					return err
				}
				fmt.Printf("created doctor %s (%s)\n", d.Username, d.ID.Hex())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&in.Username, "username", "", "login username")
	cmd.Flags().StringVar(&in.Password, "password", "", "initial password")
	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVar(&in.Specialization, "specialization", "", "medical specialization")
	cmd.Flags().StringVar(&in.LicenseNumber, "license", "", "license number")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&in.ClinicName, "clinic", "", "clinic name")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")
	return cmd
}

func resetPasswordCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Reset a doctor's password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(password) < 6 {
				return fmt.Errorf("password must be at least 6 characters")
			}
			return withRepo(func(ctx context.Context, repo *doctor.MongoRepo) error {
				d, err := repo.GetByUsername(ctx, username)
				if err != nil {
					return err
				}
				hashed, err := doctor.HashPassword(password)
				if err != nil {
					return err
				}
				d.Password = hashed
				d.RequirePasswordChange = true
				if err := repo.Update(ctx, d); err != nil {
					return err
				}
				fmt.Printf("password reset for %s, change required on next login\n", username)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "login username")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")
	return cmd
}
