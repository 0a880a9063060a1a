package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/p-n-ai/syllabus-plus/internal/auth"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.deps.Verifier == nil || s.deps.Sessions == nil {
		http.NotFound(w, r)
		return
	}

	token := r.PostFormValue("id_token")
	if token == "" {
		http.Error(w, "id_token is required", http.StatusBadRequest)
		return
	}

	u, err := s.deps.Verifier.Verify(r.Context(), token)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		slog.Error("token verification failed", "error", err)
		http.Error(w, "sign-in unavailable", http.StatusBadGateway)
		return
	}

	value, err := s.deps.Sessions.Encode(u)
	if err != nil {
		slog.Error("session encode failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   int(s.deps.Sessions.TTL().Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	slog.Info("user signed in", "user_id", u.ID)
	http.Redirect(w, r, safeReturn(r.PostFormValue("return"), link("/", s.locale(r))), http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, safeReturn(r.PostFormValue("return"), link("/", s.locale(r))), http.StatusSeeOther)
}
