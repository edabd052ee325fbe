package entity

import (
	"net/http"
	"strings"

	"bonuspoint/lib/validate"

	"golang.org/x/crypto/bcrypt"
)

// Mentor is a staff account. DisciplineID is set only for scoped levels
// (Mentor, UpMentor); for everyone else it stays zero.
type Mentor struct {
	Id           int64       `json:"id"`
	Username     string      `json:"username"`
	PasswordHash string      `json:"-"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	AccessLevel  AccessLevel `json:"access_level"`
	DisciplineID int64       `json:"discipline_id,omitempty"`
}

func (m *Mentor) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	m.PasswordHash = string(hash)
	return nil
}

func (m *Mentor) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(password)) == nil
}

func (m *Mentor) FullName() string {
	name := strings.TrimSpace(m.FirstName + " " + m.LastName)
	if name == "" {
		return m.Username
	}
	return name
}

// MentorForm is the create/edit payload for the roster pages.
// Password fields are optional on edit; AccessLevel and Discipline are
// ignored entirely when a mentor edits their own account.
type MentorForm struct {
	Username    string      `json:"username" validate:"required,max=64"`
	Password    string      `json:"password" validate:"omitempty,min=6"`
	Password2   string      `json:"password2" validate:"eqfield=Password"`
	FirstName   string      `json:"first_name" validate:"required,max=64"`
	LastName    string      `json:"last_name" validate:"required,max=64"`
	AccessLevel AccessLevel `json:"access_level" validate:"omitempty,min=1,max=6"`
	Discipline  int64       `json:"discipline_id" validate:"omitempty"`
}

func (f *MentorForm) Bind(_ *http.Request) error {
	return validate.Struct(f)
}

// LoginForm is the credentials payload for /auth/login.
type LoginForm struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (f *LoginForm) Bind(_ *http.Request) error {
	return validate.Struct(f)
}
