package core

import (
	"context"
	"testing"

	"bonuspoint/entity"
)

func seedCommunity(store *memStore) *entity.Community {
	community := &entity.Community{
		VkID:            123,
		Token:           "community-token",
		ConfirmationKey: "conf-key",
		SecretKey:       "s3cret",
	}
	community.Id, _ = store.CreateCommunity(context.Background(), community)
	return community
}

func TestHandleCallbackConfirmation(t *testing.T) {
	c, store, _ := newTestCore(t)
	community := seedCommunity(store)

	answer := c.HandleCallback(context.Background(), &entity.CallbackEvent{
		Type:    "confirmation",
		GroupID: community.VkID,
		Secret:  community.SecretKey,
	})
	if answer != community.ConfirmationKey {
		t.Errorf("confirmation answer = %q, want %q", answer, community.ConfirmationKey)
	}
}

func TestHandleCallbackConfirmationWithoutSecret(t *testing.T) {
	c, store, _ := newTestCore(t)
	community := seedCommunity(store)

	answer := c.HandleCallback(context.Background(), &entity.CallbackEvent{
		Type:    "confirmation",
		GroupID: community.VkID,
	})
	if answer != CallbackRejected {
		t.Errorf("unsigned confirmation answer = %q, want %q", answer, CallbackRejected)
	}
}

func TestHandleCallbackRejectsBadSecret(t *testing.T) {
	c, store, vkClient := newTestCore(t)
	community := seedCommunity(store)

	answer := c.HandleCallback(context.Background(), &entity.CallbackEvent{
		Type:    "message_new",
		GroupID: community.VkID,
		Secret:  "wrong",
		Object:  entity.CallbackObject{Message: entity.CallbackMessage{FromID: 42}},
	})
	if answer != CallbackRejected {
		t.Errorf("bad secret answer = %q, want %q", answer, CallbackRejected)
	}
	if len(vkClient.sentMessages) != 0 {
		t.Error("no reply may be sent on a rejected event")
	}
}

func TestHandleCallbackUnknownCommunity(t *testing.T) {
	c, _, _ := newTestCore(t)
	answer := c.HandleCallback(context.Background(), &entity.CallbackEvent{
		Type:    "confirmation",
		GroupID: 999,
	})
	if answer != CallbackRejected {
		t.Errorf("unknown community answer = %q, want %q", answer, CallbackRejected)
	}
}

func TestHandleCallbackMessageFromStudent(t *testing.T) {
	c, store, vkClient := newTestCore(t)
	ctx := context.Background()
	community := seedCommunity(store)
	student := seedStudent(store, 42)
	theme := seedTheme(store, "Математика", "Логика", 35)
	if _, err := c.AddDisciplineRecord(ctx, superAdmin(), student.Id,
		&entity.DisciplineRecordForm{ThemeID: theme.Id, Amount: 35}); err != nil {
		t.Fatalf("seed points: %v", err)
	}

	answer := c.HandleCallback(ctx, &entity.CallbackEvent{
		Type:    "message_new",
		GroupID: community.VkID,
		Secret:  community.SecretKey,
		Object:  entity.CallbackObject{Message: entity.CallbackMessage{FromID: 42}},
	})
	if answer != CallbackOk {
		t.Fatalf("answer = %q, want %q", answer, CallbackOk)
	}
	if len(vkClient.sentMessages) != 1 {
		t.Fatalf("sent %d messages, want 1", len(vkClient.sentMessages))
	}
	want := "Привет, Иванов Иван. У тебя 35 баллов"
	if vkClient.sentMessages[0] != want {
		t.Errorf("reply = %q, want %q", vkClient.sentMessages[0], want)
	}
	if vkClient.sentPeers[0] != 42 {
		t.Errorf("reply peer = %d, want 42", vkClient.sentPeers[0])
	}
}

func TestHandleCallbackMessageFromStranger(t *testing.T) {
	c, store, vkClient := newTestCore(t)
	community := seedCommunity(store)

	answer := c.HandleCallback(context.Background(), &entity.CallbackEvent{
		Type:    "message_new",
		GroupID: community.VkID,
		Secret:  community.SecretKey,
		Object:  entity.CallbackObject{Message: entity.CallbackMessage{FromID: 77}},
	})
	if answer != CallbackOk {
		t.Fatalf("answer = %q, want %q", answer, CallbackOk)
	}
	if len(vkClient.sentMessages) != 1 || vkClient.sentMessages[0] != entity.NotStudentReply {
		t.Errorf("stranger reply = %v, want %q", vkClient.sentMessages, entity.NotStudentReply)
	}
}

func TestRegisterCommunityProvisionsCallback(t *testing.T) {
	c, store, _ := newTestCore(t)
	ctx := context.Background()

	community, err := c.RegisterCommunity(ctx, superAdmin(), &entity.CommunityForm{
		VkID:  321,
		Token: "new-token",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if community.ConfirmationKey != "confirm-code" {
		t.Errorf("confirmation key = %q", community.ConfirmationKey)
	}
	if community.SecretKey == "" {
		t.Error("secret key must be generated")
	}
	if community.Message != entity.DefaultCommunityMessage {
		t.Errorf("default message = %q", community.Message)
	}
	if _, ok := store.communities[community.Id]; !ok {
		t.Error("community not stored")
	}
}
