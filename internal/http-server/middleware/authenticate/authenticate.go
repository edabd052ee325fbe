package authenticate

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"bonuspoint/entity"
	"bonuspoint/lib/api/cont"
	"bonuspoint/lib/sl"
)

// CookieName carries the session token between requests.
const CookieName = "session"

type Authenticate interface {
	AuthenticateByToken(ctx context.Context, token string) (*entity.Mentor, error)
}

// New resolves the session cookie into the acting mentor and logs every
// request. Requests without a valid session are sent back to the login
// page without detail.
func New(log *slog.Logger, auth Authenticate) func(next http.Handler) http.Handler {
	mod := sl.Module("middleware.authenticate")
	log.With(mod).Info("authenticate middleware initialized")

	return func(next http.Handler) http.Handler {

		fn := func(w http.ResponseWriter, r *http.Request) {
			id := middleware.GetReqID(r.Context())
			remote := r.RemoteAddr
			// if the request is coming from a proxy, use the X-Forwarded-For header
			xRemote := r.Header.Get("X-Forwarded-For")
			if xRemote != "" {
				remote = xRemote
			}
			logger := log.With(
				mod,
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", remote),
				slog.String("request_id", id),
			)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			t1 := time.Now()
			defer func() {
				logger.With(
					slog.Int("status", ww.Status()),
					slog.Int("size", ww.BytesWritten()),
					slog.Float64("duration", time.Since(t1).Seconds()),
				).Info("incoming request")
			}()

			cookie, err := r.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				authFailed(ww, r)
				return
			}
			logger = logger.With(sl.Secret("token", cookie.Value))

			if auth == nil {
				authFailed(ww, r)
				return
			}

			mentor, err := auth.AuthenticateByToken(r.Context(), cookie.Value)
			if err != nil {
				logger = logger.With(sl.Err(err))
				authFailed(ww, r)
				return
			}
			logger = logger.With(sl.Mentor(mentor.Username))
			ctx := cont.PutMentor(r.Context(), mentor)

			ww.Header().Set("X-Request-ID", id)
			next.ServeHTTP(ww, r.WithContext(ctx))
		}

		return http.HandlerFunc(fn)
	}
}

func authFailed(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}
