package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"bonuspoint/entity"
	"bonuspoint/internal/http-server/middleware/authenticate"
	"bonuspoint/lib/api/response"
	"bonuspoint/lib/sl"
)

type Core interface {
	Login(ctx context.Context, form *entity.LoginForm) (*entity.Session, *entity.Mentor, error)
	Logout(ctx context.Context, token string) error
}

// Login verifies credentials and sets the session cookie. Wrong
// credentials always come back as the same 401.
func Login(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.auth")
		log := logger.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		form := &entity.LoginForm{}
		if err := render.Bind(r, form); err != nil {
			log.Warn("invalid login form", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid form"))
			return
		}

		session, mentor, err := handler.Login(r.Context(), form)
		if err != nil {
			log.Warn("login rejected", slog.String("username", form.Username), sl.Err(err))
			render.Status(r, 401)
			render.JSON(w, r, response.Error("Неверное имя пользователя или пароль"))
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     authenticate.CookieName,
			Value:    session.Token,
			Path:     "/",
			Expires:  session.ExpiresAt,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		log.Info("login", sl.Mentor(mentor.Username))
		render.JSON(w, r, response.Ok(mentor))
	}
}

// Logout drops the session and clears the cookie.
func Logout(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.auth")
		log := logger.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if cookie, err := r.Cookie(authenticate.CookieName); err == nil && cookie.Value != "" {
			if err = handler.Logout(r.Context(), cookie.Value); err != nil {
				log.Debug("logout", sl.Err(err))
			}
		}
		http.SetCookie(w, &http.Cookie{
			Name:     authenticate.CookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		})
		render.JSON(w, r, response.Ok(nil))
	}
}
