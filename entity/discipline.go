package entity

import (
	"net/http"

	"bonuspoint/lib/validate"
)

// Discipline is a subject area; it owns groups, themes and the mentors
// assigned to teach it.
type Discipline struct {
	Id   int64  `json:"id"`
	Name string `json:"name"`
}

// Theme is a scored unit within a discipline. MaxPoints caps the amount
// of any discipline point record written against it.
type Theme struct {
	Id           int64  `json:"id"`
	Name         string `json:"name"`
	MaxPoints    int    `json:"max_points"`
	DisciplineID int64  `json:"discipline_id"`
}

type DisciplineForm struct {
	Name string `json:"name" validate:"required,max=32"`
}

func (f *DisciplineForm) Bind(_ *http.Request) error {
	return validate.Struct(f)
}

type ThemeForm struct {
	Name      string `json:"name" validate:"required,max=64"`
	MaxPoints int    `json:"max_points" validate:"required,gt=0"`
}

func (f *ThemeForm) Bind(_ *http.Request) error {
	return validate.Struct(f)
}
