package http

import (
	"net/http"

	"github.com/anurag24-26/openup/pkg/httpx"
)

type LogoutHandler struct{}

// ServeHTTP godoc
//
//	@Summary		Log out
//	@Description	Clears the session cookie. Tokens are stateless, so there is nothing to revoke server-side; a caller holding the raw token simply discards it.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	map[string]string	"ok"
//	@Router			/v1/auth/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     httpx.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
