// Package server wires handlers, sessions and permissions into the HTTP router.
package server

import (
	"log"
	"net/http"

	"github.com/diewo77/go-cotizaciones/auth"
	"github.com/diewo77/go-cotizaciones/gate"
	"github.com/diewo77/go-cotizaciones/httpx"
	"github.com/diewo77/go-cotizaciones/i18n"
	"github.com/diewo77/go-cotizaciones/internal/config"
	"github.com/diewo77/go-cotizaciones/internal/handlers"
	"github.com/diewo77/go-cotizaciones/internal/pdf"
	"github.com/diewo77/go-cotizaciones/internal/policy"
	"github.com/diewo77/go-cotizaciones/internal/remote"
	"github.com/diewo77/go-cotizaciones/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"gorm.io/gorm"
)

// NewRouter builds the application handler.
func NewRouter(cfg *config.Config, conn *gorm.DB, rc *remote.Client, sessions *services.SessionService) http.Handler {
	ag := policy.NewAuthGate()
	quotes := services.NewQuoteService(rc)
	importer := services.NewImporter(rc, cfg.Import.RowDelay, cfg.Import.UseBatch)
	images := services.NewImageDiscoverer(cfg.Images.BaseURL)

	ah := handlers.NewAuthHandler(sessions)
	hh := handlers.NewHomeHandler(quotes)
	ph := handlers.NewProductHandler(conn, rc, importer, images)
	ch := handlers.NewClientHandler(conn, rc, importer)
	qh := handlers.NewQuoteHandler(conn, rc, quotes, ag, pdf.New())
	dh := handlers.NewDraftHandler(conn, rc, quotes, ag)
	uh := handlers.NewUserHandler(services.NewUserService(rc))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
	}).Handler)
	r.Use(i18n.Middleware)
	r.Use(auth.Middleware)

	r.Get("/health", handlers.Health)
	r.Get("/healthz", handlers.Readiness(conn))
	r.Post("/auth/login", ah.Login)
	r.Post("/auth/logout", ah.Logout)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Use(loadSession(sessions))

		need := func(perm gate.Permission) func(http.Handler) http.Handler {
			return ag.RequirePermission(perm)
		}

		r.Get("/auth/me", ah.Me)
		r.With(need(policy.ViewHome)).Get("/home", hh.Dashboard)

		r.Route("/products", func(r chi.Router) {
			r.With(need(policy.ViewProducts)).Get("/", ph.List)
			r.With(need(policy.ViewProducts)).Post("/images/discover", ph.DiscoverImages)
			r.With(need(policy.ImportProducts)).Post("/import", ph.Import)
			r.With(need(policy.ManageProducts)).Post("/", ph.Create)
			r.With(need(policy.ManageProducts)).Put("/{id}", ph.Update)
			r.With(need(policy.ManageProducts)).Delete("/{id}", ph.Delete)
		})

		r.Route("/clients", func(r chi.Router) {
			r.With(need(policy.ViewClients)).Get("/", ch.List)
			r.With(need(policy.ViewClients)).Get("/groups", ch.Groups)
			r.With(need(policy.ImportClients)).Post("/import", ch.Import)
			r.With(need(policy.ManageClients)).Post("/", ch.Create)
			r.With(need(policy.ManageClients)).Put("/{rowID}", ch.Update)
			r.With(need(policy.ManageClients)).Delete("/{rowID}", ch.Delete)
		})

		r.Route("/quotes", func(r chi.Router) {
			r.Route("/draft", func(r chi.Router) {
				r.Use(need(policy.CreateQuote))
				r.Get("/", dh.Get)
				r.Delete("/", dh.Clear)
				r.Post("/open", dh.Open)
				r.Patch("/fields", dh.Fields)
				r.Post("/client", dh.SelectClient)
				r.Post("/items", dh.AddItem)
				r.Post("/manual", dh.AddManual)
				r.Patch("/items/{index}", dh.PatchItem)
				r.Delete("/items/{index}", dh.RemoveItem)
				r.Post("/pick", dh.Pick)
				r.Post("/submit", dh.Submit)
			})
			r.With(need(policy.ViewQuotes)).Get("/", qh.List)
			r.With(need(policy.CreateQuote)).Post("/", qh.Create)
			r.With(need(policy.ViewQuotes)).Get("/{id}", qh.Get)
			r.With(need(policy.ViewQuotes)).Get("/{id}/pdf", qh.PDF)
			r.With(need(policy.EditQuote)).Put("/{id}", qh.Update)
			r.With(need(policy.DeleteQuote)).Delete("/{id}", qh.Delete)
		})

		r.Route("/users", func(r chi.Router) {
			r.With(need(policy.ViewUsers)).Get("/", uh.List)
			r.With(need(policy.ManageUsers)).Post("/", uh.Create)
			r.With(need(policy.ManageUsers)).Put("/{id}", uh.Update)
			r.With(need(policy.ManageUsers)).Delete("/{id}", uh.Delete)
		})
	})

	return r
}

// loadSession attaches the session's user and remote token to the context.
func loadSession(sessions *services.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid, _ := auth.SessionIDFromContext(r.Context())
			user, token, err := sessions.Resolve(r.Context(), sid)
			if err != nil {
				log.Printf("[session] resolve %s: %v", sid, err)
				auth.ClearSession(w)
				httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}
			ctx := policy.WithUser(r.Context(), user)
			ctx = remote.WithToken(ctx, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
