// Package students serves the participant roster: listing with search,
// single-student pages with the derived balance, bulk import and group
// membership.
package students

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
	Students(ctx context.Context, filter entity.StudentFilter, page, perPage int) ([]*entity.Student, error)
	StudentByID(ctx context.Context, id int64) (*entity.Student, error)
	TotalPoints(ctx context.Context, studentID int64) (int, error)
	StudentGroups(ctx context.Context, studentID int64) ([]*entity.Group, error)
	CreateStudent(ctx context.Context, actor *entity.Mentor, form *entity.StudentForm) (*entity.Student, error)
	UpdateStudent(ctx context.Context, actor *entity.Mentor, id int64, form *entity.StudentForm) (*entity.Student, error)
	DeleteStudent(ctx context.Context, actor *entity.Mentor, id int64) error
	MultipleAdd(ctx context.Context, actor *entity.Mentor, vkIDs []int64) (added []*entity.Student, skipped []int64, err error)
	AddStudentGroup(ctx context.Context, actor *entity.Mentor, studentID, groupID int64) error
	RemoveStudentGroup(ctx context.Context, actor *entity.Mentor, studentID, groupID int64) error
}

// List supports searching by name parts and external id via query
// parameters; empty filters list everyone. Scoped roles work through
// their groups and are sent to the group list instead of the roster.
func List(logger *slog.Logger, handler Core, perPage int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		if redirectScoped(w, r) {
			return
		}

		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))
		if page < 1 {
			page = 1
		}
		vkID, _ := strconv.ParseInt(q.Get("vk_id"), 10, 64)
		filter := entity.StudentFilter{
			FirstName: q.Get("first_name"),
			LastName:  q.Get("last_name"),
			VkID:      vkID,
		}

		students, err := handler.Students(r.Context(), filter, page, perPage)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		render.JSON(w, r, response.Paged(students, page, perPage))
	}
}

func Create(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())

		form := &entity.StudentForm{}
		if err := render.Bind(r, form); err != nil {
			log.Warn("invalid student form", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid form"))
			return
		}
		student, err := handler.CreateStudent(r.Context(), actor, form)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		log.Info("student created", slog.Int64("id", student.Id))
		render.Status(r, 201)
		render.JSON(w, r, response.Ok(student))
	}
}

// Page returns one student with the live balance and group memberships.
func Page(logger *slog.Logger, handler Core) http.HandlerFunc {
	type pageData struct {
		Student *entity.Student `json:"student"`
		Points  int             `json:"points"`
		Groups  []*entity.Group `json:"groups"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		if redirectScoped(w, r) {
			return
		}

		id, err := studentID(r)
		if err != nil {
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid student id"))
			return
		}
		student, err := handler.StudentByID(r.Context(), id)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		points, err := handler.TotalPoints(r.Context(), student.Id)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		groups, err := handler.StudentGroups(r.Context(), student.Id)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		render.JSON(w, r, response.Ok(pageData{Student: student, Points: points, Groups: groups}))
	}
}

func Update(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())

		id, err := studentID(r)
		if err != nil {
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid student id"))
			return
		}
		form := &entity.StudentForm{}
		if err = render.Bind(r, form); err != nil {
			log.Warn("invalid student form", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid form"))
			return
		}
		student, err := handler.UpdateStudent(r.Context(), actor, id, form)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		render.JSON(w, r, response.Ok(student))
	}
}

func Remove(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())

		id, err := studentID(r)
		if err != nil {
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid student id"))
			return
		}
		if err = handler.DeleteStudent(r.Context(), actor, id); err != nil {
			errors.Render(log, w, r, err)
			return
		}
		log.Info("student removed", slog.Int64("id", id))
		render.JSON(w, r, response.Ok(nil))
	}
}

// MultipleAdd imports a batch of external ids; ids already registered
// are reported back in the response, not treated as an error.
func MultipleAdd(logger *slog.Logger, handler Core) http.HandlerFunc {
	type result struct {
		Added   []*entity.Student `json:"added"`
		Skipped []int64           `json:"skipped,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())

		form := &entity.MultipleAddForm{}
		if err := render.Bind(r, form); err != nil {
			log.Warn("invalid multiple add form", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid form"))
			return
		}
		added, skipped, err := handler.MultipleAdd(r.Context(), actor, form.VkIDs)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		log.Info("students imported",
			slog.Int("added", len(added)), slog.Int("skipped", len(skipped)))
		render.JSON(w, r, response.Ok(result{Added: added, Skipped: skipped}))
	}
}

func AddGroup(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())

		id, err := studentID(r)
		if err != nil {
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid student id"))
			return
		}
		form := &entity.MembershipForm{}
		if err = render.Bind(r, form); err != nil {
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid form"))
			return
		}
		if err = handler.AddStudentGroup(r.Context(), actor, id, form.GroupID); err != nil {
			errors.Render(log, w, r, err)
			return
		}
		render.JSON(w, r, response.Ok(nil))
	}
}

func RemoveGroup(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())

		id, err := studentID(r)
		if err != nil {
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid student id"))
			return
		}
		groupID, err := strconv.ParseInt(chi.URLParam(r, "group_id"), 10, 64)
		if err != nil {
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid group id"))
			return
		}
		if err = handler.RemoveStudentGroup(r.Context(), actor, id, groupID); err != nil {
			errors.Render(log, w, r, err)
			return
		}
		render.JSON(w, r, response.Ok(nil))
	}
}

// redirectScoped sends mentors and up-mentors to the group list; they
// only see students through their own groups.
func redirectScoped(w http.ResponseWriter, r *http.Request) bool {
	if !cont.GetMentor(r.Context()).AccessLevel.Scoped() {
		return false
	}
	http.Redirect(w, r, "/main/group_list", http.StatusSeeOther)
	return true
}

func studentID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "student_id"), 10, 64)
}

func requestLog(logger *slog.Logger, r *http.Request) *slog.Logger {
	return logger.With(
		sl.Module("http.handlers.students"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}
