package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/anurag24-26/openup/internal/bucket/service"
	"github.com/anurag24-26/openup/internal/bucket/store"
	"github.com/anurag24-26/openup/pkg/httpx"
	"github.com/anurag24-26/openup/pkg/jwtx"
	"github.com/anurag24-26/openup/pkg/slogx"

	_ "github.com/anurag24-26/openup/api" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	signer       *jwtx.EdDSASigner
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	SessionService *service.SessionService
	ItemService    *service.ItemService
}

func NewRouter(
	signer *jwtx.EdDSASigner,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		signer:       signer,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerItems()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
//
//	@title			OpenUp Bucket List API
//	@version		0.1.0
//	@description	Shared bucket-list service: register, log in, post dreams with optional images, mark them complete.
//	@description
//	@description				Session tokens are EdDSA-signed JWTs carried as a cookie or bearer header.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	SessionAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	registerHandler := &RegisterHandler{SessionService: r.SessionService}
	loginHandler := &LoginHandler{SessionService: r.SessionService}
	logoutHandler := &LogoutHandler{}
	meHandler := &MeHandler{SessionService: r.SessionService}

	// Credential endpoints get the strict limit. Login buckets on IP plus
	// the submitted name, so an attack on one account doesn't starve other
	// users behind the same NAT.
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIPAndBodyField(httpx.StrictLimit, "name"),
		),
	)
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(logoutHandler,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/auth/me",
		httpx.Chain(meHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerItems() {
	createHandler := &ItemCreateHandler{ItemService: r.ItemService}
	listHandler := &ItemListHandler{ItemService: r.ItemService}
	groupedHandler := &ItemGroupedHandler{ItemService: r.ItemService}
	completeHandler := &ItemCompleteHandler{ItemService: r.ItemService}

	// Creation is session-gated; the pipeline still resolves the owner
	// field itself.
	r.Mux.Handle("POST /v1/items",
		httpx.Chain(createHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /v1/items",
		httpx.Chain(listHandler,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/items/by-user",
		httpx.Chain(groupedHandler,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// No authorization on completion: any caller may complete any item.
	r.Mux.Handle("PATCH /v1/items/{id}/complete",
		httpx.Chain(completeHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.signer),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
