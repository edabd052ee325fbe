package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"bonuspoint/entity"
	"bonuspoint/lib/sl"
)

// Callback answers the platform expects as the webhook body.
const (
	CallbackOk       = "ok"
	CallbackRejected = "not ok"
)

func (c *Core) Communities(ctx context.Context) ([]*entity.Community, error) {
	return c.db.Communities(ctx)
}

func (c *Core) CommunityByID(ctx context.Context, id int64) (*entity.Community, error) {
	community, err := c.db.CommunityByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if community == nil {
		return nil, ErrNotFound
	}
	return community, nil
}

// RegisterCommunity connects a community page to the bridge: fetches the
// handshake confirmation code, registers this service as the callback
// server with a fresh secret and enables new-message events.
func (c *Core) RegisterCommunity(ctx context.Context, actor *entity.Mentor, form *entity.CommunityForm) (*entity.Community, error) {
	if c.vk == nil {
		return nil, fmt.Errorf("vk service not connected")
	}
	existing, err := c.db.CommunityByVkID(ctx, form.VkID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("сообщество %d уже подключено: %w", form.VkID, ErrDuplicate)
	}

	confirmation, err := c.vk.GetCallbackConfirmationCode(ctx, form.Token, form.VkID)
	if err != nil {
		return nil, fmt.Errorf("проверьте токен сообщества: %w", ErrValidation)
	}
	secret := uuid.NewString()
	serverID, err := c.vk.AddCallbackServer(ctx, form.Token, form.VkID, c.botURL, "bonuspoint", secret)
	if err != nil {
		return nil, fmt.Errorf("не удалось зарегистрировать сервер обратных вызовов: %w", err)
	}
	if err = c.vk.SetCallbackSettings(ctx, form.Token, form.VkID, serverID); err != nil {
		return nil, fmt.Errorf("не удалось включить события сообщений: %w", err)
	}

	community := &entity.Community{
		VkID:            form.VkID,
		Token:           form.Token,
		ConfirmationKey: confirmation,
		SecretKey:       secret,
		Message:         entity.DefaultCommunityMessage,
	}
	community.Id, err = c.db.CreateCommunity(ctx, community)
	if err != nil {
		return nil, err
	}
	c.audit(actor, entity.AuditCreate, "community", community.Id,
		fmt.Sprintf("vk_id=%d", community.VkID))
	return community, nil
}

func (c *Core) UpdateCommunityMessage(ctx context.Context, actor *entity.Mentor, id int64, form *entity.CommunityMessageForm) (*entity.Community, error) {
	community, err := c.CommunityByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = c.db.UpdateCommunityMessage(ctx, community.Id, form.Message); err != nil {
		return nil, err
	}
	community.Message = form.Message
	c.audit(actor, entity.AuditUpdate, "community", community.Id, "message")
	return community, nil
}

func (c *Core) DeleteCommunity(ctx context.Context, actor *entity.Mentor, id int64) error {
	community, err := c.CommunityByID(ctx, id)
	if err != nil {
		return err
	}
	if err = c.db.DeleteCommunity(ctx, community.Id); err != nil {
		return err
	}
	c.audit(actor, entity.AuditDelete, "community", community.Id,
		fmt.Sprintf("vk_id=%d", community.VkID))
	return nil
}

// HandleCallback processes one webhook delivery and returns the plain
// text body the platform expects. The reply is always one of: the
// confirmation key during the handshake, "ok" for accepted events, and
// "not ok" for anything the bridge refuses. Delivery problems on our
// side are only logged so the platform does not retry forever.
func (c *Core) HandleCallback(ctx context.Context, event *entity.CallbackEvent) string {
	if event == nil || event.Type == "" || event.GroupID == 0 {
		return CallbackRejected
	}
	community, err := c.db.CommunityByVkID(ctx, event.GroupID)
	if err != nil {
		c.log.Error("resolve community", slog.Int64("group_id", event.GroupID), sl.Err(err))
		return CallbackRejected
	}
	if community == nil {
		return CallbackRejected
	}

	// the secret gates every event type, the handshake included
	if event.Secret != community.SecretKey {
		c.recordWebhook(event, false)
		return CallbackRejected
	}

	if event.Type == "confirmation" {
		c.recordWebhook(event, true)
		return community.ConfirmationKey
	}

	if event.Type == "message_new" {
		c.answerMessage(ctx, community, event)
	}
	c.recordWebhook(event, true)
	return CallbackOk
}

// answerMessage replies to a community message with the sender's
// balance, or with a fixed line when the sender is not a student.
func (c *Core) answerMessage(ctx context.Context, community *entity.Community, event *entity.CallbackEvent) {
	sender := event.Sender()
	if sender <= 0 {
		return
	}
	student, err := c.db.StudentByVkID(ctx, sender)
	if err != nil {
		c.log.Error("resolve student", slog.Int64("vk_id", sender), sl.Err(err))
		return
	}

	reply := entity.NotStudentReply
	if student != nil {
		points, err := c.TotalPoints(ctx, student.Id)
		if err != nil {
			c.log.Error("count points", slog.Int64("student", student.Id), sl.Err(err))
			return
		}
		reply = community.Answer(student.FullName(), points)
	}
	if err = c.vk.SendMessage(ctx, community.Token, sender, reply); err != nil {
		c.log.Error("send reply", slog.Int64("vk_id", sender), sl.Err(err))
	}
}

func (c *Core) recordWebhook(event *entity.CallbackEvent, accepted bool) {
	if c.sink == nil {
		return
	}
	saved := &entity.WebhookEvent{
		GroupID:  event.GroupID,
		Type:     event.Type,
		FromID:   event.Sender(),
		Accepted: accepted,
	}
	if err := c.sink.SaveWebhookEvent(saved); err != nil {
		c.log.Debug("save webhook event", sl.Err(err))
	}
}
