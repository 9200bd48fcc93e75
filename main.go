package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/CoderJeffrey/washsale-calculator/src/config"
	"github.com/CoderJeffrey/washsale-calculator/src/handlers"
	"github.com/CoderJeffrey/washsale-calculator/src/logger"
	"github.com/CoderJeffrey/washsale-calculator/src/parsers"
	"github.com/CoderJeffrey/washsale-calculator/src/processors"
	"github.com/CoderJeffrey/washsale-calculator/src/services"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	allowedOrigins := make(map[string]bool, len(config.Cfg.AllowedOrigins))
	for _, origin := range config.Cfg.AllowedOrigins {
		allowedOrigins[origin] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-Requested-With")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == http.MethodOptions {
			logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path, "origin", origin)
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Wash-sale calculator server starting...")

	logger.L.Info("Initializing report cache...")
	reportCache := cache.New(config.Cfg.ResultCacheExpiry, 2*config.Cfg.ResultCacheExpiry)

	logger.L.Info("Initializing services and handlers...")
	groupKey := processors.GroupKey
	if !config.Cfg.OptionGrouping {
		groupKey = processors.TickerKey
	}

	csvParser := parsers.NewCSVParser()
	tradeEventParser := parsers.NewTradeEventParser(groupKey)
	washSaleProcessor := processors.NewWashSaleProcessor(config.Cfg.ReferenceDate)

	uploadService := services.NewUploadService(
		csvParser, tradeEventParser, washSaleProcessor,
		reportCache, config.Cfg.ResultCacheExpiry,
	)
	uploadHandler := handlers.NewUploadHandler(uploadService)

	logger.L.Info("Configuring routes...")
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/upload", uploadHandler.HandleUpload)
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Wash-sale calculator backend is running"})
	})

	logger.L.Info("Applying global middleware...")
	finalHandler := enableCORS(rateLimitMiddleware(mux))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	}
	logger.L.Info("Server stopped gracefully.")
}
