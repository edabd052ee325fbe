// Package groups serves the cohort pages and the role-based landing
// redirect. Listing is scope-aware: plain mentors see only their own
// groups, up-mentors their discipline, everyone else the whole set.
package groups

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
	Groups(ctx context.Context, actor *entity.Mentor, page, perPage int) ([]*entity.Group, error)
	GroupByID(ctx context.Context, actor *entity.Mentor, groupID int64) (*entity.Group, error)
	GroupStudents(ctx context.Context, actor *entity.Mentor, groupID int64) ([]*entity.Student, error)
	CreateGroup(ctx context.Context, actor *entity.Mentor, form *entity.GroupForm) (*entity.Group, error)
	UpdateGroup(ctx context.Context, actor *entity.Mentor, groupID int64, form *entity.GroupForm) (*entity.Group, error)
	DeleteGroup(ctx context.Context, actor *entity.Mentor, groupID int64) error
}

// Landing redirects an authenticated caller to their working page:
// hawks live in the student roster, everyone else in the group list.
func Landing(_ *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mentor := cont.GetMentor(r.Context())
		if mentor.AccessLevel == entity.AccessHawk {
			http.Redirect(w, r, "/students/list", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/main/group_list", http.StatusSeeOther)
	}
}

func List(logger *slog.Logger, handler Core, perPage int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 {
			page = 1
		}
		groups, err := handler.Groups(r.Context(), actor, page, perPage)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		render.JSON(w, r, response.Paged(groups, page, perPage))
	}
}

func Create(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())

		form := &entity.GroupForm{}
		if err := render.Bind(r, form); err != nil {
			log.Warn("invalid group form", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid form"))
			return
		}
		group, err := handler.CreateGroup(r.Context(), actor, form)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		log.Info("group created", slog.Int64("id", group.Id))
		render.Status(r, 201)
		render.JSON(w, r, response.Ok(group))
	}
}

// Page returns one group with its members.
func Page(logger *slog.Logger, handler Core) http.HandlerFunc {
	type pageData struct {
		Group    *entity.Group     `json:"group"`
		Students []*entity.Student `json:"students"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())

		id, err := groupID(r)
		if err != nil {
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid group id"))
			return
		}
		group, err := handler.GroupByID(r.Context(), actor, id)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		students, err := handler.GroupStudents(r.Context(), actor, group.Id)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		render.JSON(w, r, response.Ok(pageData{Group: group, Students: students}))
	}
}

func Update(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())

		id, err := groupID(r)
		if err != nil {
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid group id"))
			return
		}
		form := &entity.GroupForm{}
		if err = render.Bind(r, form); err != nil {
			log.Warn("invalid group form", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid form"))
			return
		}
		group, err := handler.UpdateGroup(r.Context(), actor, id, form)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		render.JSON(w, r, response.Ok(group))
	}
}

func Remove(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())

		id, err := groupID(r)
		if err != nil {
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid group id"))
			return
		}
		if err = handler.DeleteGroup(r.Context(), actor, id); err != nil {
			errors.Render(log, w, r, err)
			return
		}
		log.Info("group removed", slog.Int64("id", id))
		render.JSON(w, r, response.Ok(nil))
	}
}

func groupID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "group_id"), 10, 64)
}

func requestLog(logger *slog.Logger, r *http.Request) *slog.Logger {
	return logger.With(
		sl.Module("http.handlers.groups"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}
