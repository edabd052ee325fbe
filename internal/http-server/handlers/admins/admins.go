// Package admins serves the staff roster pages. The whole subtree is
// gated Admin and above; within it a caller only ever sees accounts
// below their own level.
package admins

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
	Mentors(ctx context.Context, actor *entity.Mentor, page, perPage int) ([]*entity.Mentor, error)
	MentorByUsername(ctx context.Context, actor *entity.Mentor, username string) (*entity.Mentor, error)
	CreateMentor(ctx context.Context, actor *entity.Mentor, form *entity.MentorForm) (*entity.Mentor, error)
	UpdateMentor(ctx context.Context, actor *entity.Mentor, username string, form *entity.MentorForm) (*entity.Mentor, error)
	DeleteMentor(ctx context.Context, actor *entity.Mentor, username string) error
	MentorGroups(ctx context.Context, mentorID int64) ([]*entity.Group, error)
	AssignMentorGroup(ctx context.Context, actor *entity.Mentor, username string, groupID int64) error
	UnassignMentorGroup(ctx context.Context, actor *entity.Mentor, username string, groupID int64) error
}

func List(logger *slog.Logger, handler Core, perPage int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 {
			page = 1
		}
		mentors, err := handler.Mentors(r.Context(), actor, page, perPage)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		render.JSON(w, r, response.Paged(mentors, page, perPage))
	}
}

func Create(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())

		form := &entity.MentorForm{}
		if err := render.Bind(r, form); err != nil {
			log.Warn("invalid mentor form", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid form"))
			return
		}
		mentor, err := handler.CreateMentor(r.Context(), actor, form)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		log.Info("mentor created", sl.Mentor(mentor.Username))
		render.Status(r, 201)
		render.JSON(w, r, response.Ok(mentor))
	}
}

// Page returns one roster entry together with its group assignments.
func Page(logger *slog.Logger, handler Core) http.HandlerFunc {
	type pageData struct {
		Mentor *entity.Mentor  `json:"mentor"`
		Groups []*entity.Group `json:"groups"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())
		username := chi.URLParam(r, "username")

		mentor, err := handler.MentorByUsername(r.Context(), actor, username)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		groups, err := handler.MentorGroups(r.Context(), mentor.Id)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		render.JSON(w, r, response.Ok(pageData{Mentor: mentor, Groups: groups}))
	}
}

func Update(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())
		username := chi.URLParam(r, "username")

		form := &entity.MentorForm{}
		if err := render.Bind(r, form); err != nil {
			log.Warn("invalid mentor form", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid form"))
			return
		}
		mentor, err := handler.UpdateMentor(r.Context(), actor, username, form)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		log.Info("mentor updated", sl.Mentor(mentor.Username))
		render.JSON(w, r, response.Ok(mentor))
	}
}

func Remove(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())
		username := chi.URLParam(r, "username")

		if err := handler.DeleteMentor(r.Context(), actor, username); err != nil {
			errors.Render(log, w, r, err)
			return
		}
		log.Info("mentor removed", slog.String("username", username))
		render.JSON(w, r, response.Ok(nil))
	}
}

func AssignGroup(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())
		username := chi.URLParam(r, "username")

		form := &entity.MembershipForm{}
		if err := render.Bind(r, form); err != nil {
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid form"))
			return
		}
		if err := handler.AssignMentorGroup(r.Context(), actor, username, form.GroupID); err != nil {
			errors.Render(log, w, r, err)
			return
		}
		render.JSON(w, r, response.Ok(nil))
	}
}

func UnassignGroup(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())
		username := chi.URLParam(r, "username")

		groupID, err := strconv.ParseInt(chi.URLParam(r, "group_id"), 10, 64)
		if err != nil {
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid group id"))
			return
		}
		if err = handler.UnassignMentorGroup(r.Context(), actor, username, groupID); err != nil {
			errors.Render(log, w, r, err)
			return
		}
		render.JSON(w, r, response.Ok(nil))
	}
}

func requestLog(logger *slog.Logger, r *http.Request) *slog.Logger {
	return logger.With(
		sl.Module("http.handlers.admins"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}
