package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/partusch-cms/internal/common"
	"github.com/dmitrijs2005/partusch-cms/internal/logging"
)

const maxBodyBytes = 64 << 10

var errMissingToken = errors.New("missing id token")

type errorResponse struct {
	Error string `json:"error"`
}

type exchangeRequest struct {
	IDToken string `json:"idToken"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(common.ContentTypeHeaderName, common.MIMEJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if !h.cred.configured() {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

// Exchange verifies the ID token and answers with the CMS credential.
func (h *Handler) Exchange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.cred.configured() {
		h.logger.Error(ctx, "cms credential not configured")
		writeError(w, http.StatusServiceUnavailable, "proxy not configured")
		return
	}

	raw, err := idTokenFrom(w, r)
	if err != nil {
		w.Header().Set("WWW-Authenticate", `Bearer realm="partusch-cms"`)
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	claims, err := h.verifier.Verify(raw)
	if err != nil {
		h.logger.Warn(ctx, "id token rejected", "err", err, "token", logging.Fingerprint(raw))
		w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
		writeError(w, http.StatusUnauthorized, "invalid id token")
		return
	}

	h.logger.Info(ctx, "credential issued", "sub", claims.Subject, "space_id", h.cred.SpaceID)
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, h.cred)
}

// idTokenFrom reads the bearer header first, then a POST body.
func idTokenFrom(w http.ResponseWriter, r *http.Request) (string, error) {
	if v := r.Header.Get(common.AuthorizationHeaderName); v != "" {
		if !strings.HasPrefix(v, common.BearerPrefix) {
			return "", errors.New("invalid authorization header")
		}
		if tok := strings.TrimSpace(strings.TrimPrefix(v, common.BearerPrefix)); tok != "" {
			return tok, nil
		}
		return "", errMissingToken
	}

	if r.Method != http.MethodPost || r.Body == nil {
		return "", errMissingToken
	}

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	ct, _, _ := mime.ParseMediaType(r.Header.Get(common.ContentTypeHeaderName))

	var tok string
	switch ct {
	case "application/x-www-form-urlencoded":
		r.Body = body
		if err := r.ParseForm(); err != nil {
			return "", err
		}
		tok = r.PostForm.Get("id_token")
	default:
		var req exchangeRequest
		if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			return "", errors.New("invalid request body")
		}
		tok = req.IDToken
	}

	if tok = strings.TrimSpace(tok); tok == "" {
		return "", errMissingToken
	}
	return tok, nil
}
