package entity

import (
	"net/http"

	"bonuspoint/lib/validate"
)

// Group is a cohort of students taught within exactly one discipline.
// Membership of students and mentors is many-to-many.
type Group struct {
	Id           int64  `json:"id"`
	Name         string `json:"name"`
	DisciplineID int64  `json:"discipline_id"`
}

type GroupForm struct {
	Name       string `json:"name" validate:"required,max=32"`
	Discipline int64  `json:"discipline_id" validate:"required,gt=0"`
}

func (f *GroupForm) Bind(_ *http.Request) error {
	return validate.Struct(f)
}

// MembershipForm attaches an existing group to a student or mentor.
type MembershipForm struct {
	GroupID int64 `json:"group_id" validate:"required,gt=0"`
}

func (f *MembershipForm) Bind(_ *http.Request) error {
	return validate.Struct(f)
}
