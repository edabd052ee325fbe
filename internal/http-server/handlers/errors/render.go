package errors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"bonuspoint/impl/core"
	"bonuspoint/lib/api/response"
	"bonuspoint/lib/sl"
)

// Render translates a core error into the HTTP error policy.
// Access violations redirect to the landing page with no detail, so an
// under-privileged caller cannot probe which routes and records exist.
// Expected domain failures keep their message; anything else is hidden
// behind a generic 500.
func Render(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrForbidden):
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, core.ErrNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("Requested resource not found"))
	case errors.Is(err, core.ErrDuplicate),
		errors.Is(err, core.ErrValidation),
		errors.Is(err, core.ErrInsufficientPoints),
		errors.Is(err, core.ErrHasDependents),
		errors.Is(err, core.ErrConflict):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
	default:
		log.Error("request failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Internal error"))
	}
}
