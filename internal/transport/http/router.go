// Package httptransport assembles the HTTP surface: middleware chain, route
// groups, and operational endpoints. It should stay free of business logic so
// transport concerns remain isolated.
package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	ballothandler "rollcall/internal/ballot/handler"
	electionhandler "rollcall/internal/election/handler"
	identityhandler "rollcall/internal/identity/handler"
	nominationhandler "rollcall/internal/nomination/handler"
	reporthandler "rollcall/internal/report/handler"
	voterrollhandler "rollcall/internal/voterroll/handler"
	id "rollcall/pkg/domain"
	"rollcall/pkg/platform/middleware/requestid"
	"rollcall/pkg/platform/middleware/requesttime"
)

// Deps carries everything the router mounts.
type Deps struct {
	Identity   *identityhandler.Handler
	Election   *electionhandler.Handler
	Nomination *nominationhandler.Handler
	Ballot     *ballothandler.Handler
	VoterRoll  *voterrollhandler.Handler
	Report     *reporthandler.Handler

	Auth        func(http.Handler) http.Handler
	RequireRole func(allowed ...id.Role) func(http.Handler) http.Handler

	Health http.HandlerFunc
}

// NewRouter builds the full route tree under /api plus the operational
// endpoints at the root.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)

	r.Get("/healthz", deps.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		deps.Identity.RegisterPublic(api)
		deps.Election.RegisterRead(api)

		api.Group(func(authed chi.Router) {
			authed.Use(deps.Auth)
			deps.Identity.RegisterProtected(authed)
			deps.Nomination.RegisterProtected(authed)
			deps.Ballot.Register(authed)

			authed.Group(func(officers chi.Router) {
				officers.Use(deps.RequireRole(id.RoleAdmin, id.RoleOfficer))
				deps.Nomination.RegisterDecisions(officers)
				deps.VoterRoll.Register(officers)
				deps.Report.Register(officers)
			})

			authed.Group(func(admins chi.Router) {
				admins.Use(deps.RequireRole(id.RoleAdmin))
				deps.Election.RegisterAdmin(admins)
			})
		})
	})
	return r
}
