package route

import (
	"context"
	"guestlist/src-server/identity"
	"guestlist/src-server/utils"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type GuestSessionCtxKeyType string

const (
	GuestSessionCtxKey     GuestSessionCtxKeyType = "guest-session"
	GuestSessionCookieName string                 = "guest-session"
)

// GuestSession is the per-request view of the guest's capability set.
type GuestSession struct {
	Key     string
	Set     *identity.Set
	backend identity.Backend
}

// Save writes the set back if it changed. Handlers call it before
// responding; the middleware calls it again afterwards as a fallback.
func (g *GuestSession) Save(ctx context.Context) error {
	if !g.Set.Dirty() {
		return nil
	}
	return g.backend.Save(ctx, g.Key, g.Set)
}

func guestSessionFromCtx(ctx context.Context) (*GuestSession, bool) {
	session, ok := ctx.Value(GuestSessionCtxKey).(*GuestSession)
	return session, ok
}

// GuestSessionMiddleware makes sure every guest carries a session cookie and
// loads the guest's capability set once per request.
func GuestSessionMiddleware(as *utils.AppState, backend identity.Backend, next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		key := func() string {
			cookie, err := r.Cookie(GuestSessionCookieName)
			if err != nil {
				return ""
			}
			value := strings.TrimSpace(cookie.Value)
			if _, err := uuid.Parse(value); err != nil {
				return ""
			}
			return value
		}()
		if key == "" {
			key = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     GuestSessionCookieName,
				Value:    key,
				Path:     "/",
				MaxAge:   int(as.Config.GetGuestSessionMaxAge().Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		startTimer := time.Now()
		set, err := backend.Load(r.Context(), key)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't load guest session"))
			slog.Error("can't load guest session", "error", err)
			return
		}
		as.MetricChans.ObserveDatabaseRead(startTimer)

		session := &GuestSession{Key: key, Set: set, backend: backend}
		next(w, r.WithContext(context.WithValue(r.Context(), GuestSessionCtxKey, session)))

		if err := session.Save(r.Context()); err != nil {
			slog.Error("can't save guest session", "error", err)
		}
	}
}
