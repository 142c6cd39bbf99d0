package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dimitrije/crowdfund-api/internal/cache"
	"github.com/dimitrije/crowdfund-api/internal/config"
	"github.com/dimitrije/crowdfund-api/internal/database"
	"github.com/dimitrije/crowdfund-api/internal/handlers"
	"github.com/dimitrije/crowdfund-api/internal/logger"
	authmw "github.com/dimitrije/crowdfund-api/internal/middleware"
	"github.com/dimitrije/crowdfund-api/internal/scheduler"
	"github.com/dimitrije/crowdfund-api/internal/services"
	"github.com/dimitrije/crowdfund-api/internal/storage"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env, cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	queryCache, err := openCache(ctx, cfg, log)
	if err != nil {
		return err
	}

	store, fileHandler, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	uploads := storage.NewService(store, storage.DefaultPolicy())
	if err := uploads.EnsureBuckets(ctx); err != nil {
		return fmt.Errorf("failed to ensure storage buckets: %w", err)
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	authService := services.NewAuthService(db)
	tokenService := services.NewTokenService(db)
	profileService := services.NewProfileService(db, queryCache)
	campaignService := services.NewCampaignService(db, queryCache)
	donationService := services.NewDonationService(db, queryCache)
	testimonialService := services.NewTestimonialService(db, queryCache)
	statsService := services.NewStatsService(db)
	emailService := services.NewEmailService(cfg.SMTP)

	verifier, err := newVerifier(ctx, cfg, jwtService)
	if err != nil {
		return err
	}

	authHandler := handlers.NewAuthHandler(ctx, cfg, authService, profileService, tokenService, jwtService)
	profileHandler := handlers.NewProfileHandler(profileService, uploads)
	campaignHandler := handlers.NewCampaignHandler(campaignService, donationService, profileService, uploads)
	donationHandler := handlers.NewDonationHandler(donationService, profileService)
	testimonialHandler := handlers.NewTestimonialHandler(testimonialService, profileService)
	adminHandler := handlers.NewAdminHandler(
		campaignService, donationService, testimonialService, profileService,
		statsService, authService, emailService, cfg.FrontendURL,
	)

	limiter := authmw.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(authmw.RequestID())
	app.Use(authmw.Logger(log))
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", authmw.RequestIDHeader},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Password and OAuth sign-in issue our own tokens, which the Firebase
	// verifier would not accept.
	if !cfg.UsesFirebase() {
		auth := api.Group("/auth")
		auth.Use(limiter.Middleware())
		auth.Post("/signup", authHandler.SignUp)
		auth.Post("/signin", authHandler.SignIn)
		auth.Get("/:provider/consent", authHandler.GetConsentURL)
		auth.Get("/:provider/callback", authHandler.Callback)
		auth.Post("/exchange", authHandler.ExchangeCode)
		auth.Post("/refresh", authHandler.RefreshToken)
		auth.Post("/logout", authHandler.Logout)
	}

	public := api.Group("")
	public.Use(authmw.OptionalAuth(verifier))
	public.Get("/campaigns", campaignHandler.ListActive)
	public.Get("/campaigns/:id", campaignHandler.Get)
	public.Get("/campaigns/:id/donations", campaignHandler.ListDonations)
	public.Get("/testimonials", testimonialHandler.ListFeatured)

	protected := api.Group("")
	protected.Use(authmw.Auth(verifier))

	if !cfg.UsesFirebase() {
		protected.Post("/auth/logout-all", authHandler.LogoutAll)
		protected.Post("/auth/password", authHandler.UpdatePassword)
	}

	protected.Get("/session", profileHandler.GetSession)
	protected.Get("/profiles/me", profileHandler.GetMe)
	protected.Patch("/profiles/me", profileHandler.UpdateMe)
	protected.Post("/profiles/me/avatar", profileHandler.UploadAvatar)

	protected.Post("/campaigns", campaignHandler.Create)
	protected.Post("/campaigns/:id/image", campaignHandler.UploadImage)
	protected.Post("/testimonials", testimonialHandler.Create)

	donate := api.Group("")
	donate.Use(limiter.Middleware())
	donate.Use(authmw.Auth(verifier))
	donate.Post("/donations", donationHandler.Submit)

	admin := api.Group("/admin")
	admin.Use(authmw.Auth(verifier))
	admin.Use(authmw.RequireAdmin(profileService))
	admin.Get("/stats", adminHandler.Stats)
	admin.Get("/campaigns", adminHandler.ListCampaigns)
	admin.Patch("/campaigns/:id/status", adminHandler.UpdateCampaignStatus)
	admin.Delete("/campaigns/:id", adminHandler.DeleteCampaign)
	admin.Get("/donations", adminHandler.ListRecentDonations)
	admin.Post("/donations/:id/complete", adminHandler.CompleteDonation)
	admin.Get("/testimonials", adminHandler.ListTestimonials)
	admin.Patch("/testimonials/:id/status", adminHandler.UpdateTestimonialStatus)
	admin.Patch("/testimonials/:id/featured", adminHandler.SetTestimonialFeatured)
	admin.Get("/profiles", adminHandler.ListProfiles)
	admin.Patch("/profiles/:id/admin", adminHandler.SetProfileAdmin)

	jobs := scheduler.New(log)
	if err := jobs.AddTokenCleanup(scheduler.HourlySpec, tokenService); err != nil {
		return fmt.Errorf("failed to schedule token cleanup: %w", err)
	}
	if err := jobs.AddLimiterPrune(scheduler.EveryTenMinutes, limiter); err != nil {
		return fmt.Errorf("failed to schedule limiter prune: %w", err)
	}
	jobs.Start()

	mux := http.NewServeMux()
	if fileHandler != nil {
		mux.Handle("/storage/", http.StripPrefix("/storage", fileHandler))
	}
	mux.Handle("/", app)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("auth", cfg.AuthProvider).Str("storage", cfg.Storage.Driver).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	jobs.Stop(shutdownCtx)
	return srv.Shutdown(shutdownCtx)
}

func openCache(ctx context.Context, cfg *config.Config, log zerolog.Logger) (cache.Cache, error) {
	if cfg.Redis.URL == "" {
		log.Info().Msg("REDIS_URL not set, query cache disabled")
		return cache.Noop{}, nil
	}

	client, err := cache.Connect(ctx, cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return cache.NewRedis(client, cfg.Redis.TTL), nil
}

// openStore picks the object store. Only the filesystem store needs this
// server to serve the uploaded files.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, http.Handler, error) {
	switch cfg.Storage.Driver {
	case "s3":
		store, err := storage.NewS3Store(ctx, cfg.Storage.S3Region, cfg.Storage.S3Prefix)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to init s3 storage: %w", err)
		}
		return store, nil, nil
	case "cloudinary":
		store, err := storage.NewCloudinaryStore(cfg.Storage.CloudinaryURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to init cloudinary storage: %w", err)
		}
		return store, nil, nil
	case "filesystem", "":
		fs := storage.NewFilesystem(cfg.Storage.Path, cfg.Storage.PublicURL)
		return fs, fs.Handler(), nil
	default:
		return nil, nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}
}

func newVerifier(ctx context.Context, cfg *config.Config, jwtService *services.JWTService) (authmw.TokenVerifier, error) {
	if cfg.UsesFirebase() {
		v, err := authmw.NewFirebaseVerifier(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
	return authmw.NewJWTVerifier(jwtService), nil
}
