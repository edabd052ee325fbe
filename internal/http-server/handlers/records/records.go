// Package records serves the three per-student ledger tables: theme
// points, referral points and reward redemptions. Every table carries
// the live balance so the pages never show a stale total.
package records

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
	TotalPoints(ctx context.Context, studentID int64) (int, error)
	DisciplineRecords(ctx context.Context, actor *entity.Mentor, studentID int64, page, perPage int) ([]*entity.DisciplinePointRecord, error)
	AddDisciplineRecord(ctx context.Context, actor *entity.Mentor, studentID int64, form *entity.DisciplineRecordForm) (*entity.DisciplinePointRecord, error)
	DeleteDisciplineRecord(ctx context.Context, actor *entity.Mentor, recordID int64) error
	ReferRecords(ctx context.Context, studentID int64, page, perPage int) ([]*entity.ReferPointRecord, error)
	AddReferRecord(ctx context.Context, actor *entity.Mentor, studentID int64, form *entity.ReferRecordForm) (*entity.ReferPointRecord, error)
	DeleteReferRecord(ctx context.Context, actor *entity.Mentor, recordID int64) error
	OrderRecords(ctx context.Context, studentID int64, page, perPage int) ([]*entity.OrderRecord, error)
	RedeemOrder(ctx context.Context, actor *entity.Mentor, studentID int64, form *entity.OrderRecordForm) (*entity.OrderRecord, error)
	AdvanceOrderStatus(ctx context.Context, actor *entity.Mentor, recordID int64) (*entity.OrderRecord, error)
	DeleteOrderRecord(ctx context.Context, actor *entity.Mentor, recordID int64) error
}

type table struct {
	Items   interface{} `json:"items"`
	Points  int         `json:"points"`
	Page    int         `json:"page"`
	PerPage int         `json:"per_page"`
}

func DisciplineTable(logger *slog.Logger, handler Core, perPage int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())

		id, page, err := tableParams(r)
		if err != nil {
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid student id"))
			return
		}
		items, err := handler.DisciplineRecords(r.Context(), actor, id, page, perPage)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		points, err := handler.TotalPoints(r.Context(), id)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		render.JSON(w, r, response.Ok(table{Items: items, Points: points, Page: page, PerPage: perPage}))
	}
}

func AddDiscipline(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())

		id, _, err := tableParams(r)
		if err != nil {
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid student id"))
			return
		}
		form := &entity.DisciplineRecordForm{}
		if err = render.Bind(r, form); err != nil {
			log.Warn("invalid record form", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid form"))
			return
		}
		record, err := handler.AddDisciplineRecord(r.Context(), actor, id, form)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		log.Info("discipline points added",
			slog.Int64("student", id), slog.Int("amount", record.Amount))
		render.Status(r, 201)
		render.JSON(w, r, response.Ok(record))
	}
}

func RemoveDiscipline(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())

		recordID, err := recordID(r)
		if err != nil {
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid record id"))
			return
		}
		if err = handler.DeleteDisciplineRecord(r.Context(), actor, recordID); err != nil {
			errors.Render(log, w, r, err)
			return
		}
		render.JSON(w, r, response.Ok(nil))
	}
}

func ReferTable(logger *slog.Logger, handler Core, perPage int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)

		id, page, err := tableParams(r)
		if err != nil {
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid student id"))
			return
		}
		items, err := handler.ReferRecords(r.Context(), id, page, perPage)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		points, err := handler.TotalPoints(r.Context(), id)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		render.JSON(w, r, response.Ok(table{Items: items, Points: points, Page: page, PerPage: perPage}))
	}
}

func AddRefer(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())

		id, _, err := tableParams(r)
		if err != nil {
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid student id"))
			return
		}
		form := &entity.ReferRecordForm{}
		if err = render.Bind(r, form); err != nil {
			log.Warn("invalid record form", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid form"))
			return
		}
		record, err := handler.AddReferRecord(r.Context(), actor, id, form)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		log.Info("referral points added",
			slog.Int64("student", id), slog.Int("amount", record.Amount))
		render.Status(r, 201)
		render.JSON(w, r, response.Ok(record))
	}
}

func RemoveRefer(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())

		recordID, err := recordID(r)
		if err != nil {
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid record id"))
			return
		}
		if err = handler.DeleteReferRecord(r.Context(), actor, recordID); err != nil {
			errors.Render(log, w, r, err)
			return
		}
		render.JSON(w, r, response.Ok(nil))
	}
}

// OrderTable lists redemptions with human status labels resolved per
// order type.
func OrderTable(logger *slog.Logger, handler Core, perPage int) http.HandlerFunc {
	type row struct {
		*entity.OrderRecord
		StatusLabel string `json:"status_label"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)

		id, page, err := tableParams(r)
		if err != nil {
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid student id"))
			return
		}
		items, err := handler.OrderRecords(r.Context(), id, page, perPage)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		points, err := handler.TotalPoints(r.Context(), id)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		rows := make([]row, 0, len(items))
		for _, item := range items {
			rows = append(rows, row{
				OrderRecord: item,
				StatusLabel: entity.StatusLabel(item.OrderType, item.Status),
			})
		}
		render.JSON(w, r, response.Ok(table{Items: rows, Points: points, Page: page, PerPage: perPage}))
	}
}

func Redeem(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())

		id, _, err := tableParams(r)
		if err != nil {
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid student id"))
			return
		}
		form := &entity.OrderRecordForm{}
		if err = render.Bind(r, form); err != nil {
			log.Warn("invalid redeem form", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid form"))
			return
		}
		record, err := handler.RedeemOrder(r.Context(), actor, id, form)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		log.Info("order redeemed",
			slog.Int64("student", id), slog.Int64("order", record.OrderID), slog.Int("cost", record.Cost))
		render.Status(r, 201)
		render.JSON(w, r, response.Ok(record))
	}
}

func AdvanceStatus(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())

		recordID, err := recordID(r)
		if err != nil {
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid record id"))
			return
		}
		record, err := handler.AdvanceOrderStatus(r.Context(), actor, recordID)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		render.JSON(w, r, response.Ok(record))
	}
}

func RemoveOrder(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())

		recordID, err := recordID(r)
		if err != nil {
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid record id"))
			return
		}
		if err = handler.DeleteOrderRecord(r.Context(), actor, recordID); err != nil {
			errors.Render(log, w, r, err)
			return
		}
		render.JSON(w, r, response.Ok(nil))
	}
}

func tableParams(r *http.Request) (studentID int64, page int, err error) {
	studentID, err = strconv.ParseInt(chi.URLParam(r, "student_id"), 10, 64)
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	return studentID, page, err
}

func recordID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "record_id"), 10, 64)
}

func requestLog(logger *slog.Logger, r *http.Request) *slog.Logger {
	return logger.With(
		sl.Module("http.handlers.records"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}
