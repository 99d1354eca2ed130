package api

import (
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"

	analysisAPI "fieldvoice/internal/app/server/api/http/analysis"
	healthAPI "fieldvoice/internal/app/server/api/http/health"
	"fieldvoice/internal/app/server/api/http/middleware"
	"fieldvoice/internal/app/server/api/http/middleware/auth"
	"fieldvoice/internal/app/server/api/http/middleware/logger"
	userAPI "fieldvoice/internal/app/server/api/http/user"
	"fieldvoice/internal/domain/session"
	"fieldvoice/internal/domain/user"
	"fieldvoice/internal/infrastructure/storage/postgres"
)

type Handlers struct {
	Health   *healthAPI.Handler
	User     *userAPI.Handler
	Analysis *analysisAPI.Handler
}

// ErrorResponse is the error body of every endpoint. The mobile client
// reads the message field, so errors keep that exact shape.
type ErrorResponse struct {
	status  int
	Message string `json:"message"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

func (e *ErrorResponse) GetStatus() int {
	return e.status
}

func init() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		for _, err := range errs {
			message = fmt.Sprintf("%s: %s", message, err.Error())
		}
		return &ErrorResponse{status: status, Message: message}
	}
}

// New builds the chi mux with all operations registered through huma,
// plus the raw multipart webhook route.
func New(storage *postgres.Storage, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("FieldVoice API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, config)

	h := handlers(storage, log)
	h.Health.SetupRoutes(API)
	h.User.SetupRoutes(API)
	h.Analysis.SetupRoutes(mux)

	return mux
}

func handlers(storage *postgres.Storage, log *slog.Logger) *Handlers {
	sessionRepo := postgres.NewSessionRepository(storage, log)
	sessionService := session.NewService(sessionRepo, log)
	authMW := auth.New(sessionService, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	userRepo := postgres.NewUserRepository(storage, log)
	otpRepo := postgres.NewOTPRepository(storage, log)
	notifier := user.LogNotifier{Log: log}
	userService := user.NewService(userRepo, otpRepo, notifier, user.NewCredentialsValidator(), log)

	middlewares.Add(loggerMW.Middleware())
	public := middlewares.GetAllAndClear()
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	authed := middlewares.GetAllAndClear()
	userHandler := userAPI.NewHandler(userService, sessionService, log, public, authed)

	analysisHandler := analysisAPI.NewHandler(log)

	return &Handlers{
		Health:   healthHandler,
		User:     userHandler,
		Analysis: analysisHandler,
	}
}
