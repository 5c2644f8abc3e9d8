package api

import (
	"strconv"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/bookhive/bookstore-api/docs"
	"github.com/bookhive/bookstore-api/internal/api/handler"
	"github.com/bookhive/bookstore-api/internal/api/middleware"
	"github.com/bookhive/bookstore-api/internal/core/domain"
	"github.com/bookhive/bookstore-api/internal/core/ports"
)

// Deps carries everything the router wires into handlers and middleware.
type Deps struct {
	Auth        ports.AuthService
	Accounts    ports.AccountService
	Books       ports.BookService
	AccountRepo ports.AccountRepository
	Tokens      ports.TokenIssuer
	Denylist    ports.TokenDenylist // nil disables revocation checks
	Health      map[string]handler.Check
	Log         zerolog.Logger

	ExposeErrors   bool
	LoginRateLimit float64 // requests per second per IP; 0 disables
	MaxUploadBytes int64
	// Registerer/Gatherer for HTTP metrics; nil uses the Prometheus defaults.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, d.ExposeErrors)

	registerer := d.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.BodyLimit(bodyLimit(d.MaxUploadBytes)))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "bookstore",
		Registerer: registerer,
	}))

	// --- Operational endpoints (no auth required) ---
	health := handler.NewHealthHandler(d.Health)
	e.GET("/health", health.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", health.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth)
	accountHandler := handler.NewAccountHandler(d.Accounts)
	bookHandler := handler.NewBookHandler(d.Books)
	requireAuth := middleware.Auth(d.Tokens, d.Denylist, d.Log)
	sellerOnly := middleware.RequireRole(d.AccountRepo, domain.RoleSeller, d.Log)

	v1 := e.Group("/api/v1")

	// --- User routes ---
	user := v1.Group("/user")
	user.POST("/register", authHandler.Register)
	if d.LoginRateLimit > 0 {
		user.POST("/login", authHandler.Login, loginLimiter(d.LoginRateLimit))
	} else {
		user.POST("/login", authHandler.Login)
	}

	actions := user.Group("/actions", requireAuth)
	actions.POST("/logout", authHandler.Logout)
	actions.GET("/profile", accountHandler.Profile)
	actions.PUT("/update", accountHandler.UpdateProfile)
	actions.PUT("/updatepass", accountHandler.UpdatePassword)
	actions.PUT("/updatepic", accountHandler.UpdatePicture)
	actions.PUT("/updatestoreinfo", accountHandler.UpdateStoreInfo, sellerOnly)

	// --- Book routes ---
	book := v1.Group("/book")
	book.GET("/books", bookHandler.AllBooks)

	seller := book.Group("", requireAuth, sellerOnly)
	seller.POST("/addbook", bookHandler.AddBook)
	seller.PUT("/editbook/:id", bookHandler.EditBook)
	seller.DELETE("/deletebook/:id", bookHandler.DeleteBook)
	seller.GET("/mybooks", bookHandler.MyBooks)
	seller.PUT("/addstock/:id", bookHandler.AddStock)

	return e
}

// bodyLimit leaves 1 MiB of headroom above the largest accepted image for the
// other multipart fields.
func bodyLimit(maxUpload int64) string {
	if maxUpload <= 0 {
		maxUpload = 5 << 20
	}
	return strconv.FormatInt((maxUpload+(1<<20))/1024, 10) + "K"
}

func loginLimiter(perSecond float64) echo.MiddlewareFunc {
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     int(perSecond) + 1,
		ExpiresIn: 3 * time.Minute,
	})
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
	})
}
