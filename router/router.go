package router

import (
	"net/http"
	"sn-inventory-api/handler"
	"sn-inventory-api/token"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "sn-inventory-api/docs"
)

func NewRouter(authHandler *handler.AuthHandler, serverHandler *handler.ServerHandler, userHandler *handler.UserHandler, signer *token.Signer) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Auth routes are public; the login failure path must surface credential
	// errors directly, never the bearer-token protocol.
	mux.Handle("POST /api/auth/login", handler.ErrorHandlingMiddleware(authHandler.Login))
	mux.Handle("POST /api/auth/refresh", handler.ErrorHandlingMiddleware(authHandler.Refresh))
	mux.Handle("POST /api/auth/logout", handler.ErrorHandlingMiddleware(authHandler.Logout))

	authGuard := handler.AuthMiddleware(signer)

	mux.Handle("GET /api/sn/search", authGuard(handler.ErrorHandlingMiddleware(serverHandler.Search)))
	mux.Handle("GET /api/sn/{sn}", authGuard(handler.ErrorHandlingMiddleware(serverHandler.Detail)))

	mux.Handle("GET /api/users", authGuard(handler.AdminMiddleware(handler.ErrorHandlingMiddleware(userHandler.ListUsers))))

	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	return handler.RequestIDMiddleware(mux)
}
