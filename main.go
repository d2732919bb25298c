package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travelbook/internal/cache"
	intconfig "travelbook/internal/config"
	"travelbook/internal/db"
	"travelbook/internal/events"
	router "travelbook/internal/http"
	"travelbook/internal/http/handlers"
	"travelbook/internal/jobs"
	"travelbook/internal/repositories"
	"travelbook/internal/repositories/memory"
	"travelbook/internal/services"
	"travelbook/internal/utils"
	"travelbook/internal/validation"

	"github.com/gin-gonic/gin"
)

func main() {
	env := intconfig.LoadEnv()
	utils.SetupLogger(env.Log.Level, env.Log.File)
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}
	if err := validation.RegisterGin(); err != nil {
		utils.Log.Fatalf("register validators: %v", err)
	}

	store := openStore(env)
	defer intconfig.CloseDB()

	rdb := intconfig.NewRedisClient(env.Redis)
	if rdb != nil {
		defer rdb.Close()
	}

	var publisher events.Publisher = events.Noop{}
	if env.AMQP.URL != "" {
		publisher = events.NewBreakerPublisher("amqp-publisher", events.NewAMQPPublisher(env.AMQP.URL, env.AMQP.Exchange))
	}

	auth := services.AuthService{
		Store:   store,
		Secret:  []byte(env.JWT.Secret),
		TTL:     env.JWT.TTL,
		Timeout: env.StoreTimeout,
	}
	bookings := services.BookingService{Store: store, Events: publisher, Timeout: env.StoreTimeout}
	reviews := services.ReviewService{Store: store, Timeout: env.StoreTimeout}
	if rdb != nil {
		reviews.Cache = cache.NewRatingCache(rdb, env.RatingCacheTTL)
	}

	if env.Admin.Username != "" && env.Admin.Password != "" {
		err := auth.EnsureAdmin(context.Background(), services.RegisterInput{
			Name:     "Administrator",
			Username: env.Admin.Username,
			Email:    env.Admin.Email,
			Password: env.Admin.Password,
		})
		if err != nil {
			utils.LogError("", "main", "ensure_admin", err)
		}
	}

	sched, err := jobs.NewScheduler()
	if err != nil {
		utils.Log.Fatalf("scheduler: %v", err)
	}
	if err := sched.ScheduleCompletion(bookings, env.CompletionInterval); err != nil {
		utils.Log.Fatalf("schedule completion job: %v", err)
	}
	sched.Start()

	r := router.NewRouter(env, router.Deps{
		Handlers: &handlers.Handlers{
			Bookings:     bookings,
			Inventory:    services.InventoryService{Store: store, Timeout: env.StoreTimeout},
			Destinations: services.DestinationService{Store: store, Timeout: env.StoreTimeout},
			Reviews:      reviews,
			Auth:         auth,
			Docs:         services.DocsService{Store: store, Timeout: env.StoreTimeout},
		},
		Store:  store,
		Tokens: auth,
		Redis:  rdb,
	})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		utils.LogEvent("", "main", "listen", "server running on http://localhost"+env.AppAddr+" store="+env.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	utils.LogEvent("", "main", "shutdown", "shutting down server")

	if err := sched.Shutdown(); err != nil {
		utils.LogWarn("", "main", "scheduler_shutdown", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		utils.Log.Fatalf("server shutdown failed: %v", err)
	}

	utils.LogEvent("", "main", "shutdown", "server stopped")
}

// openStore picks the persistence driver from STORE_DRIVER.
func openStore(env intconfig.Env) repositories.Store {
	if env.StoreDriver == "memory" {
		utils.LogEvent("", "main", "store", "using in-memory store")
		return memory.New()
	}

	conn, err := intconfig.ConnectDB(env.DB)
	if err != nil {
		utils.Log.Fatalf("connect database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Migrate(ctx, conn); err != nil {
		utils.Log.Fatalf("migrate schema: %v", err)
	}
	return repositories.NewMySQLStore(conn)
}
