package entity

import (
	"net/http"
	"time"

	"bonuspoint/lib/validate"
)

// DisciplinePointRecord awards points for a theme. At most one record
// may exist per (student, theme) pair; the rule is enforced by the
// application, not by a database constraint.
type DisciplinePointRecord struct {
	Id        int64     `json:"id"`
	StudentID int64     `json:"student_id"`
	ThemeID   int64     `json:"theme_id"`
	MentorID  int64     `json:"mentor_id"`
	Amount    int       `json:"amount"`
	Timestamp time.Time `json:"timestamp"`

	// ThemeName is filled on listing queries for display purposes.
	ThemeName string `json:"theme_name,omitempty"`
}

// ReferPointRecord awards points for bringing a new person in.
// ReferVkID may be claimed by only one student across the whole table.
type ReferPointRecord struct {
	Id        int64     `json:"id"`
	StudentID int64     `json:"student_id"`
	ReferVkID int64     `json:"refer_vk_id"`
	MentorID  int64     `json:"mentor_id"`
	Amount    int       `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// DisciplineRecordForm submits points for a theme. A zero or
// over-the-cap amount is clamped to the theme's maximum.
type DisciplineRecordForm struct {
	ThemeID int64 `json:"theme_id" validate:"required,gt=0"`
	Amount  int   `json:"amount"`
}

func (f *DisciplineRecordForm) Bind(_ *http.Request) error {
	return validate.Struct(f)
}

type ReferRecordForm struct {
	ReferVkID int64 `json:"refer_vk_id" validate:"required,gt=0"`
	Amount    int   `json:"amount" validate:"required,gt=0"`
}

func (f *ReferRecordForm) Bind(_ *http.Request) error {
	return validate.Struct(f)
}
