package entity

import (
	"net/http"
	"strconv"
	"strings"

	"bonuspoint/lib/validate"
)

// DefaultCommunityMessage greets a student asking the community bot for
// their balance. Placeholders: {username}, {points}.
const DefaultCommunityMessage = "Привет, {username}. У тебя {points} баллов"

// NotStudentReply is sent to senders whose external id matches no student.
const NotStudentReply = "Ты не из наших студентов"

// Community is a connected social-network community page. The bridge
// answers its callback webhook with ConfirmationKey during the platform
// handshake and verifies every later payload against SecretKey.
type Community struct {
	Id              int64  `json:"id"`
	VkID            int64  `json:"vk_id"`
	Token           string `json:"-"`
	ConfirmationKey string `json:"-"`
	SecretKey       string `json:"-"`
	Message         string `json:"message"`
}

// Answer formats the community reply for a resolved student.
func (c *Community) Answer(name string, points int) string {
	message := c.Message
	if message == "" {
		message = DefaultCommunityMessage
	}
	message = strings.ReplaceAll(message, "{username}", name)
	message = strings.ReplaceAll(message, "{points}", strconv.Itoa(points))
	return message
}

type CommunityForm struct {
	VkID  int64  `json:"vk_id" validate:"required,gt=0"`
	Token string `json:"token" validate:"required"`
}

func (f *CommunityForm) Bind(_ *http.Request) error {
	return validate.Struct(f)
}

type CommunityMessageForm struct {
	Message string `json:"message" validate:"required,max=255"`
}

func (f *CommunityMessageForm) Bind(_ *http.Request) error {
	return validate.Struct(f)
}

// CallbackEvent is the inbound webhook payload of the messaging platform.
// Object stays raw-ish: only the fields the bridge reads are declared.
type CallbackEvent struct {
	Type    string         `json:"type"`
	GroupID int64          `json:"group_id"`
	Secret  string         `json:"secret"`
	Object  CallbackObject `json:"object"`
}

type CallbackObject struct {
	Message CallbackMessage `json:"message"`
	// Older callback versions put from_id at the object top level.
	FromID int64 `json:"from_id"`
}

type CallbackMessage struct {
	FromID int64  `json:"from_id"`
	Text   string `json:"text"`
}

// Sender returns the external id of the message author regardless of
// the callback API version shape.
func (e *CallbackEvent) Sender() int64 {
	if e.Object.Message.FromID != 0 {
		return e.Object.Message.FromID
	}
	return e.Object.FromID
}
