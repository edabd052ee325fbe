// Package orders serves the reward catalog administration.
package orders

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
	Orders(ctx context.Context, page, perPage int) ([]*entity.Order, error)
	CreateOrder(ctx context.Context, actor *entity.Mentor, form *entity.OrderForm) (*entity.Order, error)
	UpdateOrder(ctx context.Context, actor *entity.Mentor, id int64, form *entity.OrderForm) (*entity.Order, error)
	DeleteOrder(ctx context.Context, actor *entity.Mentor, id int64) error
}

func List(logger *slog.Logger, handler Core, perPage int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 {
			page = 1
		}
		orders, err := handler.Orders(r.Context(), page, perPage)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		render.JSON(w, r, response.Paged(orders, page, perPage))
	}
}

func Create(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())

		form := &entity.OrderForm{}
		if err := render.Bind(r, form); err != nil {
			log.Warn("invalid order form", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid form"))
			return
		}
		order, err := handler.CreateOrder(r.Context(), actor, form)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		log.Info("order created", slog.Int64("id", order.Id))
		render.Status(r, 201)
		render.JSON(w, r, response.Ok(order))
	}
}

func Update(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())

		id, err := orderID(r)
		if err != nil {
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid order id"))
			return
		}
		form := &entity.OrderForm{}
		if err = render.Bind(r, form); err != nil {
			log.Warn("invalid order form", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid form"))
			return
		}
		order, err := handler.UpdateOrder(r.Context(), actor, id, form)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		render.JSON(w, r, response.Ok(order))
	}
}

func Remove(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())

		id, err := orderID(r)
		if err != nil {
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid order id"))
			return
		}
		if err = handler.DeleteOrder(r.Context(), actor, id); err != nil {
			errors.Render(log, w, r, err)
			return
		}
		log.Info("order removed", slog.Int64("id", id))
		render.JSON(w, r, response.Ok(nil))
	}
}

func orderID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "order_id"), 10, 64)
}

func requestLog(logger *slog.Logger, r *http.Request) *slog.Logger {
	return logger.With(
		sl.Module("http.handlers.orders"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}
