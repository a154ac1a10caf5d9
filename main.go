package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"therapie-companion/actions"
	"therapie-companion/flows"
	"therapie-companion/llm"
	"therapie-companion/store"
	"therapie-companion/utils"
	"therapie-companion/web"
)

var (
	version = "0.1.0"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("Therapie Companion v%s\n", version)
		os.Exit(0)
	}

	// Load or create default configuration
	var config *utils.Config
	var actualConfigPath string
	var err error
	if *configPath != "" {
		actualConfigPath = *configPath
	} else {
		// Ensure default config exists
		actualConfigPath, err = utils.EnsureDefaultConfig()
		if err != nil {
			fmt.Printf("Failed to create default config: %v\n", err)
			os.Exit(1)
		}
	}
	config, err = utils.LoadConfig(actualConfigPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(config.LogMode)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting Therapie Companion", "version", version, "config", actualConfigPath)

	// Initialize storage
	kv, err := store.NewSQLiteKV(config.Data.DBPath)
	if err != nil {
		logger.Fatal("failed to initialize database", "error", err, "db_path", config.Data.DBPath)
	}
	defer kv.Close()

	if stats, err := kv.Stats(); err == nil {
		logger.Info("database initialized",
			"db_path", config.Data.DBPath,
			"records", stats.RecordCount,
			"size_bytes", stats.DBSizeBytes)
	}

	sessionStore := store.New(kv)

	// Initialize provider
	provider, err := llm.NewProvider(config.Provider.Kind, llm.Config{
		ProviderName: config.Provider.DisplayName,
		APIKey:       config.Provider.APIKey,
		BaseURL:      config.Provider.BaseURL,
		Model:        config.Provider.Model,
		MaxTokens:    config.Provider.MaxTokens,
		Temperature:  config.Provider.Temperature,
	})
	if err != nil {
		logger.Fatal("failed to initialize provider", "error", err)
	}
	if err := provider.ValidateConfig(); err != nil {
		logger.Warn("provider configuration incomplete", "provider", provider.Name(), "error", err)
	}

	var wired llm.Provider = provider
	if config.Privacy.AnonymizeSensitiveData {
		wired = llm.NewAnonymizingProvider(provider, llm.NewAnonymizer(true))
		logger.Info("transcript anonymization enabled")
	}

	svc := actions.NewService(sessionStore, flows.New(wired), logger)
	server := web.NewServer(logger, sessionStore, svc)

	if config.LogMode == "prod" || config.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpServer := &http.Server{
		Addr:    config.Server.Addr,
		Handler: server.Router(config.Server.AllowedOrigins),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("listening", "addr", config.Server.Addr, "provider", provider.Name())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}

	logger.Info("stopped")
}
