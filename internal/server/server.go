package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shipbid/apiserver/config"
	"github.com/shipbid/apiserver/internal/db"
	"github.com/shipbid/apiserver/internal/handlers"
	"github.com/shipbid/apiserver/internal/metrics"
	"github.com/shipbid/apiserver/internal/mq"
	"github.com/shipbid/apiserver/internal/services"
	"github.com/shipbid/apiserver/internal/storage"
	"github.com/shipbid/apiserver/internal/store"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	broker     *mq.MQ
}

// New constructs a Server with all dependencies wired.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	objectStorage, err := newObjectStorage(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	broker, err := newBroker(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	shipperRepo := store.NewShipperRepository(dbConn)
	customerRepo := store.NewCustomerRepository(dbConn)
	adminRepo := store.NewAdminRepository(dbConn)
	postRepo := store.NewPostRepository(dbConn)
	auctionRepo := store.NewAuctionRepository(dbConn)
	orderRepo := store.NewOrderRepository(dbConn)
	discountRepo := store.NewDiscountRepository(dbConn)
	commentRepo := store.NewCommentRepository(dbConn)
	ratingRepo := store.NewRatingRepository(dbConn)

	var events services.EventPublisher
	if broker != nil {
		events = broker
	}

	userService := services.NewUserService(userRepo)
	shipperService := services.NewShipperService(shipperRepo, commentRepo, ratingRepo, objectStorage)
	customerService := services.NewCustomerService(customerRepo, objectStorage)
	adminService := services.NewAdminService(adminRepo, objectStorage)
	postService := services.NewPostService(postRepo, objectStorage)
	auctionService := services.NewAuctionService(auctionRepo, events)
	orderService := services.NewOrderService(orderRepo, events)
	discountService := services.NewDiscountService(discountRepo)

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		_ = dbConn.Close()
		if broker != nil {
			_ = broker.Close()
		}
		return nil, errors.New("JWT_SECRET is required")
	}

	authMiddleware := handlers.RequireAuth(jwtSecret)
	optionalAuthMiddleware := handlers.OptionalAuth(jwtSecret)

	serverMetrics := metrics.NewServerMetrics()

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
		serverMetrics.Middleware,
	)
	router.Get("/healthz", handlers.Healthz)
	router.Method(http.MethodGet, "/metrics", metrics.Handler())
	router.Get("/auth-info", handlers.AuthInfo(cfg.OAuth))
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, userService, jwtSecret)
	})
	router.Route("/users", func(r chi.Router) {
		handlers.UserRouter(r, userService, authMiddleware)
	})
	router.Route("/posts", func(r chi.Router) {
		handlers.PostRouter(r, postService, auctionService, userService, customerService, shipperService, authMiddleware)
	})
	router.Route("/auctions", func(r chi.Router) {
		handlers.AuctionRouter(r, auctionService, postService, userService, customerService, authMiddleware)
	})
	router.Route("/orders", func(r chi.Router) {
		handlers.OrderRouter(r, orderService, shipperService, customerService, authMiddleware)
	})
	router.Route("/discounts", func(r chi.Router) {
		handlers.DiscountRouter(r, discountService, userService, adminService, authMiddleware)
	})
	router.Route("/comments", func(r chi.Router) {
		handlers.CommentRouter(r, shipperService, customerService, authMiddleware)
	})
	router.Route("/shippers", func(r chi.Router) {
		handlers.ShipperRouter(r, shipperService, userService, customerService, authMiddleware, optionalAuthMiddleware)
	})
	router.Route("/customers", func(r chi.Router) {
		handlers.CustomerRouter(r, customerService, userService, authMiddleware)
	})
	router.Route("/admins", func(r chi.Router) {
		handlers.AdminRouter(r, adminService, userService, authMiddleware)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		broker:     broker,
	}, nil
}

// newObjectStorage builds the configured object storage backend. An empty
// backend disables image uploads without failing startup.
func newObjectStorage(ctx context.Context, cfg config.Config) (*storage.Storage, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Backend)) {
	case "":
		return nil, nil
	case "minio":
		client, err := storage.NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, err
		}
		st := storage.NewStorage(client)
		if err := st.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return st, nil
	case "gcs":
		client, err := storage.NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		st := storage.NewStorage(client)
		if err := st.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// newBroker builds the configured message broker. An empty backend disables
// order event publishing without failing startup.
func newBroker(ctx context.Context, cfg config.Config) (*mq.MQ, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.MQ.Backend)) {
	case "":
		return nil, nil
	case "rabbitmq":
		client, err := mq.NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return mq.New(client), nil
	case "pubsub":
		client, err := mq.NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return mq.New(client), nil
	default:
		return nil, fmt.Errorf("unknown mq backend %q", cfg.MQ.Backend)
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.broker != nil {
		_ = s.broker.Close()
	}
	return s.httpServer.Close()
}
