package entity

import "testing"

func TestCommunityAnswer(t *testing.T) {
	community := &Community{Message: "Салют, {username}! Баланс: {points}"}
	got := community.Answer("Иванов Иван", 42)
	want := "Салют, Иванов Иван! Баланс: 42"
	if got != want {
		t.Errorf("Answer() = %q, want %q", got, want)
	}
}

func TestCommunityAnswerDefaultsWhenEmpty(t *testing.T) {
	community := &Community{}
	got := community.Answer("Петров Пётр", 0)
	want := "Привет, Петров Пётр. У тебя 0 баллов"
	if got != want {
		t.Errorf("Answer() = %q, want %q", got, want)
	}
}

func TestCallbackEventSender(t *testing.T) {
	nested := &CallbackEvent{Object: CallbackObject{Message: CallbackMessage{FromID: 101}}}
	if got := nested.Sender(); got != 101 {
		t.Errorf("nested sender = %d, want 101", got)
	}
	flat := &CallbackEvent{Object: CallbackObject{FromID: 202}}
	if got := flat.Sender(); got != 202 {
		t.Errorf("flat sender = %d, want 202", got)
	}
}
