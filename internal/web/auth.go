package web

import (
	"log"
	"net/http"

	"farmops/internal/auth"
	"farmops/internal/errors"
)

type loginView struct {
	Email string
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	data := s.page(r, "", "Sign in", loginView{})
	if r.URL.Query().Get("expired") != "" {
		data.Flash = "Your session has expired. Please sign in again."
	}
	s.render(w, http.StatusOK, "login", data)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	principal, err := auth.Login(r.Context(), s.opts.API, email, r.FormValue("password"))
	if err != nil {
		data := s.page(r, "", "Sign in", loginView{Email: email})
		data.Error = errors.Message(err, "Sign in failed")
		s.render(w, http.StatusUnauthorized, "login", data)
		return
	}

	sess := s.newSession(*principal)
	setCookie(w, sess)
	log.Printf("✓ %s signed in as %s", principal.Email, s.opts.Authz.Resolve(principal.Role))
	http.Redirect(w, r, s.opts.Authz.Landing(), http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		s.sessions.Delete(c.Value)
	}
	clearCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
