package http

import (
	"net/http"
	"time"

	"github.com/anurag24-26/openup/internal/bucket/store"
	"github.com/anurag24-26/openup/pkg/httpx"
	"github.com/anurag24-26/openup/pkg/jwtx"
	"github.com/anurag24-26/openup/pkg/slogx"
)

// LivezHandler godoc
//
//	@Summary		Liveness probe
//	@Description	Returns ok while the process is up. No dependency checks.
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, buildVersion string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: buildVersion,
		})
	})
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Checks the database and the session signing key. Returns 503 when either fails.
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Failure		503	{object}	HealthResponse
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, buildVersion string, st store.Store, signer *jwtx.EdDSASigner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := slogx.FromContext(ctx)

		checks := HealthChecks{Database: "ok", Signer: "ok"}
		status := http.StatusOK

		if err := st.Ping(ctx); err != nil {
			log.Error("readiness: database ping failed", "err", err)
			checks.Database = "unavailable"
			status = http.StatusServiceUnavailable
		}
		if err := signer.Validate(); err != nil {
			log.Error("readiness: signer check failed", "err", err)
			checks.Signer = "unavailable"
			status = http.StatusServiceUnavailable
		}

		body := HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: buildVersion,
			Checks:  &checks,
		}
		if status != http.StatusOK {
			body.Status = "degraded"
		}

		httpx.WriteJSON(w, status, body)
	})
}
