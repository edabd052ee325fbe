// Package communities serves community administration and the callback
// webhook. The webhook endpoint speaks the platform protocol: it always
// answers HTTP 200 with a small plain-text body, never JSON.
package communities

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"bonuspoint/entity"
	"bonuspoint/impl/core"
	"bonuspoint/internal/http-server/handlers/errors"
	"bonuspoint/internal/metrics"
	"bonuspoint/lib/api/cont"
	"bonuspoint/lib/api/response"
	"bonuspoint/lib/sl"
)

type Core interface {
	Communities(ctx context.Context) ([]*entity.Community, error)
	CommunityByID(ctx context.Context, id int64) (*entity.Community, error)
	RegisterCommunity(ctx context.Context, actor *entity.Mentor, form *entity.CommunityForm) (*entity.Community, error)
	UpdateCommunityMessage(ctx context.Context, actor *entity.Mentor, id int64, form *entity.CommunityMessageForm) (*entity.Community, error)
	DeleteCommunity(ctx context.Context, actor *entity.Mentor, id int64) error
	HandleCallback(ctx context.Context, event *entity.CallbackEvent) string
}

func List(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)

		communities, err := handler.Communities(r.Context())
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		render.JSON(w, r, response.Ok(communities))
	}
}

func Register(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())

		form := &entity.CommunityForm{}
		if err := render.Bind(r, form); err != nil {
			log.Warn("invalid community form", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid form"))
			return
		}
		community, err := handler.RegisterCommunity(r.Context(), actor, form)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		log.Info("community registered", slog.Int64("vk_id", community.VkID))
		render.Status(r, 201)
		render.JSON(w, r, response.Ok(community))
	}
}

func Page(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)

		id, err := communityID(r)
		if err != nil {
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid community id"))
			return
		}
		community, err := handler.CommunityByID(r.Context(), id)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		render.JSON(w, r, response.Ok(community))
	}
}

func UpdateMessage(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())

		id, err := communityID(r)
		if err != nil {
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid community id"))
			return
		}
		form := &entity.CommunityMessageForm{}
		if err = render.Bind(r, form); err != nil {
			log.Warn("invalid message form", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid form"))
			return
		}
		community, err := handler.UpdateCommunityMessage(r.Context(), actor, id, form)
		if err != nil {
			errors.Render(log, w, r, err)
			return
		}
		render.JSON(w, r, response.Ok(community))
	}
}

func Remove(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)
		actor := cont.GetMentor(r.Context())

		id, err := communityID(r)
		if err != nil {
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid community id"))
			return
		}
		if err = handler.DeleteCommunity(r.Context(), actor, id); err != nil {
			errors.Render(log, w, r, err)
			return
		}
		render.JSON(w, r, response.Ok(nil))
	}
}

// Bot is the callback webhook. The platform retries any non-200
// response, so the answer is always 200 with the protocol body.
func Bot(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLog(logger, r)

		event := &entity.CallbackEvent{}
		if err := json.NewDecoder(r.Body).Decode(event); err != nil {
			log.Warn("undecodable callback", sl.Err(err))
			event = nil
		}

		answer := handler.HandleCallback(r.Context(), event)
		outcome := "accepted"
		if answer == core.CallbackRejected {
			outcome = "rejected"
		}
		metrics.WebhookEvents.WithLabelValues(outcome).Inc()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(answer))
	}
}

func communityID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "community_id"), 10, 64)
}

func requestLog(logger *slog.Logger, r *http.Request) *slog.Logger {
	return logger.With(
		sl.Module("http.handlers.communities"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}
