package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"compta-billing-platform/internal/domain/model"
	"compta-billing-platform/internal/usecase"
)

type Server struct {
	userUC    usecase.UserUseCase
	companyUC usecase.CompanyUseCase
	subUC     usecase.SubscriptionUseCase
	planUC    usecase.PlanUseCase
	docUC     usecase.DocumentUseCase
	delUC     usecase.DeletionUseCase
	statsUC   usecase.StatsUseCase
	auth      *AuthManager
	log       *zerolog.Logger
}

func NewServer(
	userUC usecase.UserUseCase,
	companyUC usecase.CompanyUseCase,
	subUC usecase.SubscriptionUseCase,
	planUC usecase.PlanUseCase,
	docUC usecase.DocumentUseCase,
	delUC usecase.DeletionUseCase,
	statsUC usecase.StatsUseCase,
	auth *AuthManager,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		userUC:    userUC,
		companyUC: companyUC,
		subUC:     subUC,
		planUC:    planUC,
		docUC:     docUC,
		delUC:     delUC,
		statsUC:   statsUC,
		auth:      auth,
		log:       logger,
	}
}

// Router assembles the full route tree with the middleware chain applied.
func (s *Server) Router(corsOrigins []string, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Trace-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(TraceID(), RequestLog(s.log), Recover(s.log), Timeout(requestTimeout))

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)

		// Everything else requires a session.
		r.Group(func(r chi.Router) {
			r.Use(s.auth.RequireAuth())

			r.Get("/auth/me", s.handleMe)
			r.With(RequireRole(model.RoleAdmin)).Post("/users", s.handleUserCreate)

			r.Route("/plans", func(r chi.Router) {
				r.Get("/", s.handlePlanList)
				r.Get("/{id}", s.handlePlanGet)
				r.Group(func(r chi.Router) {
					r.Use(RequireRole(model.RoleAdmin))
					r.Post("/", s.handlePlanCreate)
					r.Put("/{id}", s.handlePlanUpdate)
					r.Delete("/{id}", s.handlePlanDelete)
				})
			})

			r.Route("/abonnements", func(r chi.Router) {
				r.Get("/", s.handleSubscriptionList)
				r.With(RequireRole(model.RoleAdmin, model.RoleAccountant)).
					Post("/", s.handleSubscriptionCreate)
				r.Get("/{id}", s.handleSubscriptionGet)
				r.With(RequireRole(model.RoleAdmin, model.RoleAccountant)).
					Put("/{id}", s.handleSubscriptionUpdate)
				r.With(RequireRole(model.RoleAdmin)).
					Delete("/{id}", s.handleSubscriptionDelete)
				r.Get("/{id}/quote", s.handleSubscriptionQuote)
				r.With(RequireRole(model.RoleAdmin)).
					Post("/{id}/valider", s.handleSubscriptionValidate)
				r.With(RequireRole(model.RoleAdmin)).
					Post("/{id}/reject", s.handleSubscriptionReject)
				r.Post("/{id}/justificatif", s.handleJustificatifUpload)
			})

			r.Route("/entreprises", func(r chi.Router) {
				r.Get("/", s.handleCompanyList)
				r.With(RequireRole(model.RoleAdmin, model.RoleAccountant)).
					Post("/", s.handleCompanyCreate)
				r.Get("/{id}", s.handleCompanyGet)
				r.Put("/{id}", s.handleCompanyUpdate)
				r.With(RequireRole(model.RoleAdmin)).
					Delete("/{id}", s.handleCompanyDelete)
				r.With(RequireRole(model.RoleAdmin)).
					Post("/{id}/valider", s.handleCompanyValidate)
				r.With(RequireRole(model.RoleAdmin)).
					Post("/{id}/reject", s.handleCompanyReject)
				r.Get("/{id}/abonnement", s.handleCompanyCurrentSubscription)
				r.Post("/{id}/deletion-requests", s.handleDeletionCreate)
			})

			r.Route("/documents", func(r chi.Router) {
				r.Get("/", s.handleDocumentList)
				r.Post("/", s.handleDocumentUpload)
				r.Get("/{id}", s.handleDocumentGet)
				r.Get("/{id}/download", s.handleDocumentDownload)
				r.Delete("/{id}", s.handleDocumentDelete)
			})

			r.Route("/deletion-requests", func(r chi.Router) {
				r.Use(RequireRole(model.RoleAdmin))
				r.Get("/", s.handleDeletionList)
				r.Post("/{id}/approve", s.handleDeletionApprove)
				r.Post("/{id}/refuse", s.handleDeletionRefuse)
			})

			r.With(RequireRole(model.RoleAdmin)).Get("/stats", s.handleStats)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
