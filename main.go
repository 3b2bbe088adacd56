package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"sunspec-gateway/internal/auth"
	"sunspec-gateway/internal/mapping/infrastructure/artifact"
	normapp "sunspec-gateway/internal/normalize/application"
	normpostgres "sunspec-gateway/internal/normalize/infrastructure/postgres"
	normhttp "sunspec-gateway/internal/normalize/interfaces/http"
	"sunspec-gateway/internal/observability/metrics"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	table, err := artifact.Load(cfg.ArtifactPath)
	if err != nil {
		logger.Fatalf("mapping artifact error: %v", err)
	}
	logger.Printf("mapping table loaded: %d entries", table.Len())

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("db open error: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatalf("db ping error: %v", err)
		}
	}

	metrics.Init(db, logger)
	metrics.SetMappingEntries(table.Len())

	transformer := normapp.NewTransformer(normapp.TransformConfig{
		TempImplausibleC: cfg.TempImplausibleC,
	})
	normalizer, err := normapp.NewNormalizer(table, transformer, logger)
	if err != nil {
		logger.Fatalf("normalizer error: %v", err)
	}

	var sink normhttp.Sink
	if db != nil {
		sink = normpostgres.NewSnapshotRepository(db)
	}
	normalizeHandler, err := normhttp.NewNormalizeHandler(normalizer, sink, logger)
	if err != nil {
		logger.Fatalf("normalize handler error: %v", err)
	}
	mappingsHandler, err := normhttp.NewMappingsHandler(table, logger)
	if err != nil {
		logger.Fatalf("mappings handler error: %v", err)
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/v1/normalize", normalizeHandler)
	mux.Handle("/v1/mappings", mappingsHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	ArtifactPath     string
	DatabaseURL      string
	HTTPAddr         string
	JWTSecret        string
	TempImplausibleC float64
}

func loadConfig() config {
	cfg := config{
		ArtifactPath:     getenvDefault("MAPPING_ARTIFACT", "var/mapping/point_mappings.json"),
		DatabaseURL:      getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:         getenvDefault("HTTP_ADDR", ":8080"),
		JWTSecret:        getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
		TempImplausibleC: getenvFloatDefault("TEMP_IMPLAUSIBLE_C", 70),
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvFloatDefault(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
