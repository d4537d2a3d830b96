// Package httpapi is the gateway's HTTP surface: the access gate that
// authenticates and authorizes every request, and the resource router that
// dispatches capability requests to the upstream adapters.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/infra-neo/portal-api/internal/audit"
	"github.com/infra-neo/portal-api/internal/auth"
	"github.com/infra-neo/portal-api/internal/catalog"
	"github.com/infra-neo/portal-api/internal/config"
	"github.com/infra-neo/portal-api/internal/enrollment"
	"github.com/infra-neo/portal-api/internal/netbird"
	"github.com/infra-neo/portal-api/internal/obs"
	"github.com/infra-neo/portal-api/internal/zitadel"
)

// MeshService is the mesh control-plane capability set the router dispatches to.
type MeshService interface {
	ListPeers(ctx context.Context) ([]netbird.Peer, error)
	GetPeer(ctx context.Context, id string) (netbird.Peer, error)
	DeletePeer(ctx context.Context, id string) error
	UpdatePeerGroups(ctx context.Context, id string, groups []string) (netbird.Peer, error)
	ListGroups(ctx context.Context) ([]netbird.Group, error)
	CreateGroup(ctx context.Context, name string, peerIDs []string) (netbird.Group, error)
	ListPolicies(ctx context.Context) ([]netbird.Policy, error)
	CreateSetupKey(ctx context.Context, name string, autoGroups []string, expiresInDays, usageLimit int) (netbird.SetupKey, error)
}

// IdentityService is the identity-provider capability set.
type IdentityService interface {
	ListUsers(ctx context.Context) ([]zitadel.User, error)
	GetUser(ctx context.Context, id string) (zitadel.User, error)
	GetUserByEmail(ctx context.Context, email string) (zitadel.User, error)
	GetUserGroups(ctx context.Context, id string) ([]string, error)
	ExchangeCode(ctx context.Context, code, redirectURI string) (zitadel.TokenSet, error)
	UserInfo(ctx context.Context, accessToken string) (zitadel.Profile, error)
	Introspect(ctx context.Context, token string) (zitadel.Introspection, error)
}

// EnrollmentService issues device enrollment credentials.
type EnrollmentService interface {
	Enroll(ctx context.Context, actor auth.Identity, deviceName, deviceOS string) (enrollment.Result, error)
	Status(token string) (enrollment.Status, error)
}

// API is the HTTP layer. It holds no per-request state.
type API struct {
	cfg     *config.Config
	codec   *auth.Codec
	mesh    MeshService
	idp     IdentityService
	catalog *catalog.Catalog
	enroll  EnrollmentService
	audit   *audit.Log
	started time.Time
}

// New wires the gateway's HTTP layer.
func New(cfg *config.Config, codec *auth.Codec, mesh MeshService, idp IdentityService, cat *catalog.Catalog, enroll EnrollmentService, auditLog *audit.Log) *API {
	return &API{
		cfg:     cfg,
		codec:   codec,
		mesh:    mesh,
		idp:     idp,
		catalog: cat,
		enroll:  enroll,
		audit:   auditLog,
		started: time.Now().UTC(),
	}
}

// Handler builds the route tree wrapped in the ambient middleware stack.
func (a *API) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(Recovery)
	r.Use(LoggingJSON)
	r.Use(SecurityHeaders)
	r.Use(CORS(a.cfg.CORSOrigins()))
	r.Use(MaxBodyBytes(1 << 20))

	r.Get("/health", a.handleHealth)
	r.Method(http.MethodGet, "/metrics", obs.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			// Login attempts are throttled per client IP.
			r.Use(RateLimit(a.cfg.AuthRateBurst, a.cfg.AuthRatePerSec))
			r.Post("/auth/callback", a.handleAuthCallback)
		})
		r.Post("/auth/validate", a.handleAuthValidate)
		r.Get("/auth/config", a.handleAuthConfig)

		r.Group(func(r chi.Router) {
			r.Use(a.withAuth)

			r.Route("/netbird", func(r chi.Router) {
				r.Get("/peers", a.handleListPeers)
				r.Get("/peers/{peerID}", a.handleGetPeer)
				r.Delete("/peers/{peerID}", a.handleDeletePeer)
				r.Put("/peers/{peerID}/groups", a.handleUpdatePeerGroups)
				r.Get("/groups", a.handleListGroups)
				r.Get("/acls", a.handleListACLs)
				r.Post("/setup-keys", a.handleCreateSetupKey)
			})

			r.Route("/applications", func(r chi.Router) {
				r.Get("/", a.handleListApplications)
				r.Get("/{appID}", a.handleGetApplication)
			})

			r.Route("/enrollment", func(r chi.Router) {
				r.Post("/device", a.handleEnrollDevice)
				r.Get("/status/{token}", a.handleEnrollmentStatus)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(RequireRole("admin"))
				r.Get("/users", a.handleAdminListUsers)
				r.Get("/network/status", a.handleAdminNetworkStatus)
				r.Post("/groups", a.handleAdminCreateGroup)
				r.Get("/logs", a.handleAdminLogs)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "route not found")
	})

	return obs.Instrument(r)
}

type healthResponse struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
	Version   string  `json:"version"`
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(a.started).Seconds(),
		Version:   a.cfg.Version,
	})
}
