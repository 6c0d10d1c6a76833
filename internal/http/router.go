package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/bivo/internal/auth"
	httpauth "github.com/MrJamesThe3rd/bivo/internal/http/auth"
	"github.com/MrJamesThe3rd/bivo/internal/http/category"
	"github.com/MrJamesThe3rd/bivo/internal/http/dashboard"
	"github.com/MrJamesThe3rd/bivo/internal/http/export"
	"github.com/MrJamesThe3rd/bivo/internal/http/importcsv"
	"github.com/MrJamesThe3rd/bivo/internal/http/rules"
	"github.com/MrJamesThe3rd/bivo/internal/http/session"
	"github.com/MrJamesThe3rd/bivo/internal/http/transaction"
	"github.com/MrJamesThe3rd/bivo/internal/http/user"
)

type Options struct {
	Tokens         *auth.Tokens
	AllowedOrigins []string
	Timeout        time.Duration
}

type Handlers struct {
	Auth         *httpauth.Handler
	Users        *user.Handler
	Categories   *category.Handler
	Transactions *transaction.Handler
	Dashboard    *dashboard.Handler
	Import       *importcsv.Handler
	Rules        *rules.Handler
	Export       *export.Handler
}

func New(opts Options, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", h.Auth.Routes)
		r.Route("/guest", h.Auth.GuestRoutes)

		r.Group(func(r chi.Router) {
			r.Use(session.Require(opts.Tokens))

			r.Route("/user", func(r chi.Router) {
				h.Users.Routes(r)
				h.Dashboard.StatsRoutes(r)
			})

			r.Route("/dashboard", h.Dashboard.Routes)

			r.Route("/categories", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Categories.Routes(r)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Transactions.Routes(r)
			})

			r.Route("/import", h.Import.Routes)
			r.Route("/rules", h.Rules.Routes)

			r.Route("/export", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Export.Routes(r)
			})
		})
	})

	return router
}
