package main

import (
	"database/sql"
	"log"
	"os"
	"strings"
	"time"

	"events-api/handlers"
	"events-api/middleware"
	"events-api/pkg/notify"
	"events-api/pkg/sheets"
	"events-api/repository"
	"events-api/websocket"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if len(jwtSecret) < 32 {
		log.Fatal("JWT_SECRET must be set and at least 32 characters")
	}

	passwordHash := os.Getenv("API_PASSWORD_HASH")
	if passwordHash == "" {
		log.Fatal("API_PASSWORD_HASH is not set (bcrypt hash of the service password)")
	}

	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("postgres", dbURL)
		if err == nil {
			err = db.Ping()
			if err == nil {
				break
			}
		}
		log.Printf("DB connection failed: %v, retrying in 2s...", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatal("Could not connect to database:", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatal("Migration driver error:", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		log.Fatal("Migration init error:", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal("Migration failed:", err)
	}

	eventsRepo := repository.NewEventsRepository(db)
	registrationsRepo := repository.NewRegistrationsRepository(db)
	attendeesRepo := repository.NewAttendeesRepository(db)

	// Sheet source: YAML file when SHEET_CONFIG is set, plain URL otherwise.
	var sheetCfg sheets.Config
	if path := os.Getenv("SHEET_CONFIG"); path != "" {
		sheetCfg, err = sheets.LoadConfig(path)
		if err != nil {
			log.Fatal("Invalid SHEET_CONFIG:", err)
		}
	} else {
		sheetCfg = sheets.Config{URL: os.Getenv("SHEET_URL")}
	}
	if sheetCfg.URL == "" {
		log.Fatal("Sheet source URL is not configured (SHEET_URL or SHEET_CONFIG)")
	}
	source := sheets.NewHTTPSource(sheetCfg)

	if os.Getenv("GIN_MODE") == "release" || strings.ToLower(os.Getenv("APP_ENV")) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Structured request ID and JSON access logs
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	// Panic recovery
	r.Use(gin.Recovery())

	// Configure trusted proxies for correct client IP handling in production
	trustedProxies := os.Getenv("TRUSTED_PROXIES")
	if trustedProxies != "" {
		parts := strings.Split(trustedProxies, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if err := r.SetTrustedProxies(parts); err != nil {
			log.Fatalf("Invalid TRUSTED_PROXIES: %v", err)
		}
	} else {
		// Default to loopback only; override via TRUSTED_PROXIES in production
		_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})
	}

	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RateLimitMiddleware())

	// Websocket hub for live seat counts, plus the confirmation webhook.
	hub := websocket.NewHub()
	statusNotifier := &notify.WSNotifier{Hub: hub}
	var confirmation notify.ConfirmationNotifier = notify.NopConfirmationNotifier{}
	if url := os.Getenv("CONFIRMATION_WEBHOOK_URL"); url != "" {
		confirmation = notify.NewWebhookNotifier(url, 10*time.Second)
	}

	authHandler := handlers.NewAuthHandler(jwtSecret, passwordHash)
	eventsHandler := handlers.NewEventsHandler(eventsRepo, attendeesRepo)
	registrationsHandler := handlers.NewRegistrationsHandler(eventsRepo, registrationsRepo, attendeesRepo).
		WithConfirmationNotifier(confirmation).
		WithStatusNotifier(statusNotifier)
	syncHandler := handlers.NewSyncHandler(source, eventsRepo).
		WithAfterSync(registrationsHandler.BroadcastStatus)

	// Public endpoints
	r.GET("/health", handlers.HealthCheck)
	r.GET("/api/events", eventsHandler.GetPublicEvents)
	r.GET("/api/events/status", registrationsHandler.GetEventStatus)
	r.GET("/ws", websocket.ServeWS(hub))

	// Submission endpoints with a stricter per-IP limit
	submit := r.Group("/", middleware.RateLimitSubmitMiddleware())
	submit.POST("/api/register", registrationsHandler.Register)
	submit.POST("/auth/token", authHandler.IssueToken)

	// Private endpoints: sync trigger and exact-address views
	auth := r.Group("/", handlers.AuthMiddleware(jwtSecret))
	{
		auth.POST("/api/sync", syncHandler.Sync)
		auth.GET("/api/events/:id", eventsHandler.GetEventDetails)
		auth.GET("/api/events/:id/attendees", eventsHandler.GetEventAttendees)
	}

	r.Run(":8080")
}
