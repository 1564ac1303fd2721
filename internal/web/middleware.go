package web

import (
	"context"
	"log"
	"net/http"

	"farmops/internal/errors"
)

type ctxKey struct{}

func sessionFrom(ctx context.Context) *Session {
	sess, _ := ctx.Value(ctxKey{}).(*Session)
	return sess
}

// requireSession loads the operator's session or sends them to /login.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(sessionCookie)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		sess, ok := s.sessions.Get(c.Value)
		if !ok {
			clearCookie(w)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, sess)))
	})
}

// requirePage redirects to the landing page unless the operator's role may
// open page. Navigation is built from the same table, so a hidden link is
// always a denied route.
func (s *Server) requirePage(page string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := sessionFrom(r.Context())
			if sess == nil || !s.opts.Authz.Allowed(sess.Principal.Role, page) {
				if sess != nil {
					log.Printf("  ⚠️  %s (%s) denied %s", sess.Principal.Email, sess.Principal.Role, r.URL.Path)
					sess.Flash("You do not have access to that page")
				}
				http.Redirect(w, r, s.opts.Authz.Landing(), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// expired ends the session when err says the API token is no longer valid.
// It reports whether it wrote the response.
func (s *Server) expired(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.IsSessionExpired(err) {
		return false
	}
	if sess := sessionFrom(r.Context()); sess != nil {
		log.Printf("  🔐 Session for %s expired, signing out", sess.Principal.Email)
		s.sessions.Delete(sess.ID)
	}
	clearCookie(w)
	http.Redirect(w, r, "/login?expired=1", http.StatusSeeOther)
	return true
}

func setCookie(w http.ResponseWriter, sess *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
