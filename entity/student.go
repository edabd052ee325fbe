package entity

import (
	"net/http"
	"strings"

	"bonuspoint/lib/validate"
)

// Student is a program participant. VkID is the external messaging
// identifier and is unique across the roster.
type Student struct {
	Id        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	VkID      int64  `json:"vk_id"`
}

func (s *Student) FullName() string {
	return strings.TrimSpace(s.LastName + " " + s.FirstName)
}

type StudentForm struct {
	FirstName string `json:"first_name" validate:"required,max=32"`
	LastName  string `json:"last_name" validate:"required,max=32"`
	VkID      int64  `json:"vk_id" validate:"required,gt=0"`
}

func (f *StudentForm) Bind(_ *http.Request) error {
	return validate.Struct(f)
}

// StudentFilter narrows the roster listing; empty fields are ignored.
type StudentFilter struct {
	FirstName string
	LastName  string
	VkID      int64
}

// MultipleAddForm carries a batch of external ids for bulk import;
// profile names are resolved through the messaging platform API.
type MultipleAddForm struct {
	VkIDs []int64 `json:"vk_ids" validate:"required,min=1,dive,gt=0"`
}

func (f *MultipleAddForm) Bind(_ *http.Request) error {
	return validate.Struct(f)
}
