// Package disciplines serves subject and theme administration.
package disciplines

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"bonuspoint/entity"
	"bonuspoint/internal/http-server/handlers/errors"
	"bonuspoint/lib/api/cont"
	"bonuspoint/lib/api/response"
	"bonuspoint/lib/sl"
)

type Core interface {
	Disciplines(ctx context.Context) ([]*entity.Discipline, error)
	DisciplineByID(ctx context.Context, id int64) (*entity.Discipline, error)
	CreateDiscipline(ctx context.Context, actor *entity.Mentor, form *entity.DisciplineForm) (*entity.Discipline, error)
	DeleteDiscipline(ctx context.Context, actor *entity.Mentor, id int64) error
	Themes(ctx context.Context, disciplineID int64) ([]*entity.Theme, error)
	CreateTheme(ctx context.Context, actor *entity.Mentor, disciplineID int64, form *entity.ThemeForm) (*entity.Theme, error)
	DeleteTheme(ctx context.Context, actor *entity.Mentor, id int64) error
}

func List(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)

		disciplines, err := handler.Disciplines(r.Context())
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		render.JSON(w, r, response.Ok(disciplines))
	}
}

func Create(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())

		form := &entity.DisciplineForm{}
		if err := render.Bind(r, form); err != nil {
			log.Warn("invalid discipline form", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid form"))
			return
		}
		discipline, err := handler.CreateDiscipline(r.Context(), actor, form)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		log.Info("discipline created", slog.Int64("id", discipline.Id))
		render.Status(r, 201)
		render.JSON(w, r, response.Ok(discipline))
	}
}

// Page returns one discipline with its themes.
func Page(logger *slog.Logger, handler Core) http.HandlerFunc {
	type pageData struct {
		Discipline *entity.Discipline `json:"discipline"`
		Themes     []*entity.Theme    `json:"themes"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)

		id, err := disciplineID(r)
		if err != nil {
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid discipline id"))
			return
		}
		discipline, err := handler.DisciplineByID(r.Context(), id)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		themes, err := handler.Themes(r.Context(), discipline.Id)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		render.JSON(w, r, response.Ok(pageData{Discipline: discipline, Themes: themes}))
	}
}

// Remove refuses to delete a discipline that still owns themes.
func Remove(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())

		id, err := disciplineID(r)
		if err != nil {
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid discipline id"))
			return
		}
		if err = handler.DeleteDiscipline(r.Context(), actor, id); err != nil {
			errors.Render(log, w, r, err)
			return
		}
		log.Info("discipline removed", slog.Int64("id", id))
		render.JSON(w, r, response.Ok(nil))
	}
}

func CreateTheme(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())

		id, err := disciplineID(r)
		if err != nil {
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid discipline id"))
			return
		}
		form := &entity.ThemeForm{}
		if err = render.Bind(r, form); err != nil {
			log.Warn("invalid theme form", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid form"))
			return
		}
		theme, err := handler.CreateTheme(r.Context(), actor, id, form)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		log.Info("theme created", slog.Int64("id", theme.Id))
		render.Status(r, 201)
		render.JSON(w, r, response.Ok(theme))
	}
}

func RemoveTheme(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())

		themeID, err := strconv.ParseInt(chi.URLParam(r, "theme_id"), 10, 64)
		if err != nil {
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid theme id"))
			return
		}
		if err = handler.DeleteTheme(r.Context(), actor, themeID); err != nil {
			errors.Render(log, w, r, err)
			return
		}
		render.JSON(w, r, response.Ok(nil))
	}
}

func disciplineID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "discipline_id"), 10, 64)
}

func requestLog(logger *slog.Logger, r *http.Request) *slog.Logger {
	return logger.With(
		sl.Module("http.handlers.disciplines"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}
