package requireaccess

import (
	"log/slog"
	"net/http"

	"bonuspoint/entity"
	"bonuspoint/lib/api/cont"
	"bonuspoint/lib/sl"
)

// New gates a route subtree behind a minimum access level. A caller
// below the threshold is silently redirected to the landing page; the
// response never says the route exists.
func New(log *slog.Logger, threshold entity.AccessLevel) func(next http.Handler) http.Handler {
	mod := sl.Module("middleware.requireaccess")

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			mentor := cont.GetMentor(r.Context())
			if !mentor.AccessLevel.AtLeast(threshold) {
				log.With(mod,
					sl.Mentor(mentor.Username),
					slog.String("path", r.URL.Path),
				).Info("access denied")
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
