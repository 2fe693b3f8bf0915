// Package main provides the headless storefront client CLI. It wires the
// configuration, session storage, HTTP client stack, and controller together,
// then runs one of the session or catalog actions against the backend.
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

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/Leninfitfreak/leninkart-frontend/internal/client"
	"github.com/Leninfitfreak/leninkart-frontend/internal/client/storefront"
	"github.com/Leninfitfreak/leninkart-frontend/internal/config"
	"github.com/Leninfitfreak/leninkart-frontend/internal/controller"
	"github.com/Leninfitfreak/leninkart-frontend/internal/models"
	"github.com/Leninfitfreak/leninkart-frontend/internal/store"
	"github.com/Leninfitfreak/leninkart-frontend/pkg/logger"
)

func main() {
	var (
		action      = flag.String("action", "watch", "Action to perform: login, signup, logout, add, buy, watch")
		identifier  = flag.String("identifier", "", "Email or username for login")
		password    = flag.String("password", "", "Password for login/signup")
		confirm     = flag.String("confirm-password", "", "Password confirmation for signup")
		fullName    = flag.String("full-name", "", "Full name for signup")
		email       = flag.String("email", "", "Email for signup")
		productName = flag.String("product-name", "", "Product name for the add action")
		price       = flag.Float64("price", 0, "Product price for the add action")
		description = flag.String("description", "", "Product description for the add action")
		productID   = flag.String("product-id", "", "Product ID for the buy action")
	)
	flag.Parse()

	// Load .env.local file only in development (when GO_ENV is not set or set to "development")
	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" || goEnv == "development" {
		if err := godotenv.Load(".env.local"); err != nil {
			if !os.IsNotExist(err) {
				fmt.Fprintf(os.Stderr, "Warning: Error loading .env.local file: %v\n", err)
			}
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	log.WithFields(logrus.Fields{
		"backend": cfg.API.BaseURL,
		"storage": cfg.Storage.Backend,
		"action":  *action,
	}).Info("Starting storefront client")

	sessionStore := openStore(cfg, log)
	defer closeStore(sessionStore, log)

	tokens := controller.NewTokenKeeper()
	baseClient := client.NewBaseClient(cfg.API.BaseURL, cfg.API.Timeout, log)
	authClient := client.NewAuthClient(baseClient, tokens)
	api := storefront.NewClient(authClient, cfg.Endpoints, log)

	ctrl := controller.New(api, sessionStore, tokens, cfg, log)
	defer ctrl.Close()

	metricsServer := startMetrics(cfg, log)
	defer stopMetrics(metricsServer, log)

	if runErr := run(ctrl, cfg, log, *action, actionArgs{
		identifier:  *identifier,
		password:    *password,
		confirm:     *confirm,
		fullName:    *fullName,
		email:       *email,
		productName: *productName,
		price:       *price,
		description: *description,
		productID:   *productID,
	}); runErr != nil {
		log.WithError(runErr).Error("Action failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}

type actionArgs struct {
	identifier  string
	password    string
	confirm     string
	fullName    string
	email       string
	productName string
	price       float64
	description string
	productID   string
}

func run(
	ctrl *controller.Controller,
	cfg *config.Config,
	log *logrus.Logger,
	action string,
	args actionArgs,
) error {
	ctx := context.Background()

	switch action {
	case "login":
		if err := ctrl.Login(ctx, args.identifier, args.password); err != nil {
			return err
		}
		session := ctrl.Session()
		fmt.Printf("Logged in as %s (role %s)\n", session.UserID, session.Role)
		return nil

	case "signup":
		notice, err := ctrl.Signup(ctx, models.SignupRequest{
			FullName:        args.fullName,
			Email:           args.email,
			Password:        args.password,
			ConfirmPassword: args.confirm,
		})
		if err != nil {
			return err
		}
		fmt.Println(notice)
		return nil

	case "logout":
		ctrl.Restore(ctx)
		ctrl.Logout(ctx)
		fmt.Println("Logged out")
		return nil

	case "add":
		if !ctrl.Restore(ctx) {
			return errors.New("no active session, log in first")
		}
		if err := ctrl.CreateProduct(ctx, models.CreateProductRequest{
			Name:        args.productName,
			Price:       args.price,
			Description: args.description,
		}); err != nil {
			return err
		}
		fmt.Printf("Product added (%d in catalog)\n", len(ctrl.Products()))
		return nil

	case "buy":
		if !ctrl.Restore(ctx) {
			return errors.New("no active session, log in first")
		}
		if err := ctrl.PlaceOrder(ctx, args.productID); err != nil {
			return err
		}
		// Give the settle refetch time to land before reporting
		time.Sleep(cfg.Poll.OrderSettleDelay + 200*time.Millisecond)
		fmt.Printf("Order placed (%d orders visible)\n", len(ctrl.Orders()))
		return nil

	case "watch":
		return watch(ctx, ctrl, cfg, log, args)

	default:
		return fmt.Errorf("unknown action: %s", action)
	}
}

// watch runs the interactive view loop: restore or log in, then print the
// catalog and derived statistics every poll interval until interrupted.
func watch(
	ctx context.Context,
	ctrl *controller.Controller,
	cfg *config.Config,
	log *logrus.Logger,
	args actionArgs,
) error {
	if !ctrl.Restore(ctx) {
		if args.identifier == "" {
			return errors.New("no persisted session; pass -identifier and -password to log in")
		}
		if err := ctrl.Login(ctx, args.identifier, args.password); err != nil {
			return err
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Poll.OrdersInterval)
	defer ticker.Stop()

	printSnapshot(ctrl)
	for {
		select {
		case <-ticker.C:
			printSnapshot(ctrl)
		case <-quit:
			log.Info("Shutting down")
			return nil
		}
	}
}

func printSnapshot(ctrl *controller.Controller) {
	snapshot := ctrl.Stats()
	fmt.Printf("products=%d orders=%d users=%d", snapshot.TotalProducts, snapshot.TotalOrders, len(snapshot.Users))
	if err := ctrl.DataError(); err != nil {
		fmt.Printf(" [data stale: %v]", err)
	}
	fmt.Println()

	for _, top := range snapshot.TopUsers {
		fmt.Printf("  %-20s %3d orders  %10.2f spent\n", top.Name, top.OrderCount, top.TotalSpend)
	}
}

// openStore selects the session storage backend. A Redis connection failure
// falls back to the in-memory store so the client still runs, it just will
// not persist the session.
func openStore(cfg *config.Config, log *logrus.Logger) store.Store {
	switch cfg.Storage.Backend {
	case config.StorageRedis:
		redisStore, err := store.NewRedisStore(&cfg.Redis, log)
		if err != nil {
			log.WithError(err).Warn("Failed to connect to Redis, falling back to in-memory store")
			log.Warn("Note: In-memory store will not persist the session between runs")
			return store.NewMemoryStore(log)
		}
		return redisStore

	case config.StorageMemory:
		return store.NewMemoryStore(log)

	default:
		fileStore, err := store.NewFileStore(cfg.Storage.FilePath, log)
		if err != nil {
			log.WithError(err).Warn("Failed to open session file, falling back to in-memory store")
			return store.NewMemoryStore(log)
		}
		return fileStore
	}
}

func closeStore(s store.Store, log *logrus.Logger) {
	if err := s.Close(); err != nil {
		log.WithError(err).Error("Failed to close session store")
	}
}

// startMetrics exposes the Prometheus metrics endpoint when enabled.
func startMetrics(cfg *config.Config, log *logrus.Logger) *http.Server {
	if !cfg.Metrics.Enabled {
		return nil
	}

	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	server := &http.Server{
		Addr:         cfg.Metrics.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.Metrics.Addr).Info("Starting metrics endpoint")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Metrics endpoint failed")
		}
	}()

	return server
}

func stopMetrics(server *http.Server, log *logrus.Logger) {
	if server == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Metrics endpoint forced to shut down")
	}
}
