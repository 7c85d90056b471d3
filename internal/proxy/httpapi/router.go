// Package httpapi is the REST surface of the token exchange proxy.
package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/partusch-cms/internal/logging"
	"github.com/dmitrijs2005/partusch-cms/internal/proxy/auth"
)

// Credential is handed out for a verified ID token.
type Credential struct {
	AccessToken string `json:"accessToken"`
	SpaceID     string `json:"spaceId"`
}

func (c Credential) configured() bool {
	return c.AccessToken != "" && c.SpaceID != ""
}

type Handler struct {
	verifier auth.Verifier
	cred     Credential
	logger   logging.Logger
}

func NewHandler(v auth.Verifier, cred Credential, l logging.Logger) *Handler {
	if l == nil {
		l = logging.Nop()
	}
	return &Handler{verifier: v, cred: cred, logger: l.With("module", "http_api")}
}

// NewRouter wires the routes and middleware:
//
//	GET  /health      liveness
//	GET  /user/auth   exchange, token in the Authorization header
//	POST /user/auth   exchange, token in the header, a JSON body or a form
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, h.loggingMiddleware, h.recoverMiddleware)

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/user/auth", h.Exchange).Methods(http.MethodGet, http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}
