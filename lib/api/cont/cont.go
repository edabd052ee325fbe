package cont

import (
	"context"

	"bonuspoint/entity"
)

type ctxKey string

const UserDataKey ctxKey = "userData"

// PutMentor stores the authenticated caller in the request context.
func PutMentor(c context.Context, mentor *entity.Mentor) context.Context {
	return context.WithValue(c, UserDataKey, *mentor)
}

// GetMentor returns the authenticated caller, or an empty account when
// the request never passed the authenticate middleware.
func GetMentor(c context.Context) *entity.Mentor {
	mentor, ok := c.Value(UserDataKey).(entity.Mentor)
	if !ok {
		return &entity.Mentor{}
	}
	return &mentor
}
