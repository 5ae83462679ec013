package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	adminapp "github.com/wyfcoding/storefront/internal/admin/application"
	adminhttp "github.com/wyfcoding/storefront/internal/admin/interfaces/http"
	cartapp "github.com/wyfcoding/storefront/internal/cart/application"
	cartdomain "github.com/wyfcoding/storefront/internal/cart/domain"
	cartinfra "github.com/wyfcoding/storefront/internal/cart/infrastructure"
	cartmysql "github.com/wyfcoding/storefront/internal/cart/infrastructure/persistence/mysql"
	carthttp "github.com/wyfcoding/storefront/internal/cart/interfaces/http"
	catalogapp "github.com/wyfcoding/storefront/internal/catalog/application"
	catalogdomain "github.com/wyfcoding/storefront/internal/catalog/domain"
	catalogmysql "github.com/wyfcoding/storefront/internal/catalog/infrastructure/persistence/mysql"
	cataloghttp "github.com/wyfcoding/storefront/internal/catalog/interfaces/http"
	"github.com/wyfcoding/storefront/internal/notification"
	orderapp "github.com/wyfcoding/storefront/internal/order/application"
	orderdomain "github.com/wyfcoding/storefront/internal/order/domain"
	orderinfra "github.com/wyfcoding/storefront/internal/order/infrastructure"
	"github.com/wyfcoding/storefront/internal/order/infrastructure/messaging"
	ordermysql "github.com/wyfcoding/storefront/internal/order/infrastructure/persistence/mysql"
	orderhttp "github.com/wyfcoding/storefront/internal/order/interfaces/http"
	reviewapp "github.com/wyfcoding/storefront/internal/review/application"
	reviewdomain "github.com/wyfcoding/storefront/internal/review/domain"
	reviewinfra "github.com/wyfcoding/storefront/internal/review/infrastructure"
	reviewmysql "github.com/wyfcoding/storefront/internal/review/infrastructure/persistence/mysql"
	reviewhttp "github.com/wyfcoding/storefront/internal/review/interfaces/http"
	userapp "github.com/wyfcoding/storefront/internal/user/application"
	userdomain "github.com/wyfcoding/storefront/internal/user/domain"
	userinfra "github.com/wyfcoding/storefront/internal/user/infrastructure"
	usermysql "github.com/wyfcoding/storefront/internal/user/infrastructure/persistence/mysql"
	userhttp "github.com/wyfcoding/storefront/internal/user/interfaces/http"
	"github.com/wyfcoding/storefront/pkg/cache"
	"github.com/wyfcoding/storefront/pkg/config"
	"github.com/wyfcoding/storefront/pkg/db"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/metrics"
	"github.com/wyfcoding/storefront/pkg/middleware"
	"github.com/wyfcoding/storefront/pkg/mq"
	"github.com/wyfcoding/storefront/pkg/ratelimit"
)

var configPath = flag.String("config", "configs/config.toml", "config file path")

func main() {
	flag.Parse()

	// 1. 配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("invalid config: %v", err))
	}

	// 2. 日志
	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}
	ctx := context.Background()
	logger.Info(ctx, "starting service", "service", cfg.ServiceName, "version", cfg.Version, "environment", cfg.Environment)

	// 3. 指标
	m := metrics.New(cfg.ServiceName)
	if cfg.Metrics.Enabled {
		if err := m.Register(); err != nil {
			logger.Fatal(ctx, "failed to register metrics", "error", err)
		}
		go func() {
			if err := metrics.StartHTTPServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil && err != http.ErrServerClosed {
				logger.Error(ctx, "metrics server stopped", "error", err)
			}
		}()
	}

	// 4. 数据库
	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to connect database", "error", err)
	}
	defer database.Close()

	if cfg.Database.AutoMigrate {
		err := database.DB.AutoMigrate(
			&catalogdomain.Product{}, &catalogdomain.Brand{}, &catalogdomain.Category{},
			&cartdomain.Cart{}, &cartdomain.CartItem{},
			&orderdomain.Order{}, &orderdomain.OrderItem{},
			&reviewdomain.Review{},
			&userdomain.User{},
		)
		if err != nil {
			logger.Fatal(ctx, "failed to migrate database", "error", err)
		}
	}

	// 5. Redis
	redisCache, err := cache.New(cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ConnTimeout:  cfg.Redis.ConnTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to connect redis", "error", err)
	}
	defer redisCache.Close()

	// 6. Kafka（可选）
	var publisher *messaging.KafkaEventPublisher
	var notifier *notification.Notifier
	if cfg.Kafka.Enabled {
		producer, err := mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		if err != nil {
			logger.Fatal(ctx, "failed to create kafka producer", "error", err)
		}
		defer producer.Close()
		publisher = messaging.NewKafkaEventPublisher(producer, cfg.Kafka.Topic)

		consumer, err := mq.NewConsumer(mq.KafkaConfig{
			Brokers: cfg.Kafka.Brokers,
			GroupID: cfg.Kafka.GroupID,
		}, cfg.Kafka.Topic)
		if err != nil {
			logger.Fatal(ctx, "failed to create kafka consumer", "error", err)
		}
		notifier = notification.NewNotifier(consumer)
	}

	// 7. 仓储与应用服务
	productRepo := catalogmysql.NewProductRepository(database.DB)
	brandRepo := catalogmysql.NewBrandRepository(database.DB)
	categoryRepo := catalogmysql.NewCategoryRepository(database.DB)
	cartRepo := cartmysql.NewCartRepository(database.DB)
	orderRepo := ordermysql.NewOrderRepository(database.DB)
	reviewRepo := reviewmysql.NewReviewRepository(database.DB)
	userRepo := usermysql.NewUserRepository(database.DB)

	var catalogPublisher catalogdomain.EventPublisher
	var orderPublisher orderdomain.EventPublisher
	if publisher != nil {
		catalogPublisher = publisher
		orderPublisher = publisher
	}

	catalogService := catalogapp.NewService(
		catalogapp.NewCommandService(productRepo, brandRepo, categoryRepo, catalogPublisher),
		catalogapp.NewQueryService(productRepo, brandRepo, categoryRepo, redisCache),
	)
	cartService := cartapp.NewService(
		cartapp.NewCommandService(cartRepo, cartinfra.NewCatalogProductReader(catalogService), m),
		cartapp.NewQueryService(cartRepo),
	)
	orderService := orderapp.NewService(
		orderRepo,
		orderinfra.NewCartSnapshotReader(cartRepo),
		redisCache,
		catalogService,
		orderPublisher,
		m,
		cfg.Checkout,
	)
	reviewService := reviewapp.NewService(
		reviewRepo,
		reviewinfra.NewCatalogChecker(catalogService),
		reviewinfra.NewPurchaseChecker(database.DB),
		catalogService,
		m,
	)
	tokenManager := userinfra.NewTokenManager(cfg.JWT, cfg.ServiceName)
	userService := userapp.NewService(userRepo, tokenManager)
	dashboardService := adminapp.NewService(orderRepo, userRepo, productRepo)

	catalogHandler := cataloghttp.NewHandler(catalogService)
	cartHandler := carthttp.NewHandler(cartService)
	orderHandler := orderhttp.NewHandler(orderService)
	reviewHandler := reviewhttp.NewHandler(reviewService)
	userHandler := userhttp.NewHandler(userService)
	adminHandler := adminhttp.NewHandler(dashboardService)

	// 8. HTTP 路由
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.GinRecoveryMiddleware())
	router.Use(middleware.GinLoggingMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	if cfg.RateLimit.Enabled {
		limiter := ratelimit.NewRedisLimiter(redisCache.GetClient(), cfg.RateLimit.Rate, cfg.RateLimit.Burst)
		router.Use(middleware.RateLimitMiddleware(limiter))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.ServiceName, "version": cfg.Version})
	})

	api := router.Group("/api")
	catalogHandler.RegisterRoutes(api)
	reviewHandler.RegisterPublicRoutes(api)
	userHandler.RegisterAuthRoutes(api.Group("/auth"))

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(tokenManager))
	cartHandler.RegisterRoutes(authed.Group("/cart"))
	orderHandler.RegisterRoutes(authed.Group("/orders"))
	reviewHandler.RegisterRoutes(authed)
	userHandler.RegisterRoutes(authed.Group("/auth"))

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokenManager), middleware.RequireRole(userdomain.RoleAdmin))
	adminHandler.RegisterRoutes(admin)
	catalogHandler.RegisterAdminRoutes(admin)
	orderHandler.RegisterAdminRoutes(admin)
	userHandler.RegisterAdminRoutes(admin)

	// 9. 启动与优雅退出
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	consumerCtx, stopConsumer := context.WithCancel(ctx)
	if notifier != nil {
		go func() {
			if err := notifier.Start(consumerCtx); err != nil && consumerCtx.Err() == nil {
				logger.Error(ctx, "notification consumer stopped", "error", err)
			}
		}()
	}

	go func() {
		logger.Info(ctx, "http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "http server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "shutting down")

	stopConsumer()
	if notifier != nil {
		if err := notifier.Close(); err != nil {
			logger.Warn(ctx, "failed to close notifier", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "http server shutdown failed", "error", err)
	}
	logger.Info(ctx, "service stopped")
}
