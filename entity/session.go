package entity

import "time"

// Session binds a cookie token to a mentor account.
type Session struct {
	Token     string    `json:"token"`
	MentorID  int64     `json:"mentor_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
