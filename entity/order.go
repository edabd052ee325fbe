package entity

import (
	"net/http"
	"time"

	"bonuspoint/lib/validate"
)

// OrderType splits the reward catalog into physical sets and discounts.
// The type only affects status wording on redemption records.
type OrderType int

const (
	OrderTypeSet OrderType = iota + 1
	OrderTypeDiscount
)

// OrderStatus is the redemption lifecycle. Transitions are one-way:
// Ordered -> Sent -> Done.
type OrderStatus int

const (
	StatusOrdered OrderStatus = iota + 1
	StatusSent
	StatusDone
)

var statusLabels = [2][3]string{
	{"Не отправлен", "Отправлен", "Получен"},
	{"Не отправлена", "Отправлена", "Использована"},
}

// StatusLabel renders a redemption status for a given order type.
func StatusLabel(t OrderType, s OrderStatus) string {
	if t < OrderTypeSet || t > OrderTypeDiscount || s < StatusOrdered || s > StatusDone {
		return "?"
	}
	return statusLabels[t-1][s-1]
}

// Order is a reward catalog item.
type Order struct {
	Id          int64     `json:"id"`
	Name        string    `json:"name"`
	Cost        int       `json:"cost"`
	Description string    `json:"description"`
	Type        OrderType `json:"type"`
}

// OrderRecord is one redemption. Cost is snapshotted from the catalog
// at creation time so later price edits do not rewrite history.
type OrderRecord struct {
	Id         int64       `json:"id"`
	StudentID  int64       `json:"student_id"`
	OrderID    int64       `json:"order_id"`
	Cost       int         `json:"cost"`
	Status     OrderStatus `json:"status"`
	Commentary string      `json:"commentary"`
	Timestamp  time.Time   `json:"timestamp"`

	OrderName string    `json:"order_name,omitempty"`
	OrderType OrderType `json:"order_type,omitempty"`
}

type OrderForm struct {
	Name        string    `json:"name" validate:"required,max=64"`
	Cost        int       `json:"cost" validate:"required,gt=0"`
	Description string    `json:"description" validate:"max=255"`
	Type        OrderType `json:"type" validate:"required,min=1,max=2"`
}

func (f *OrderForm) Bind(_ *http.Request) error {
	return validate.Struct(f)
}

type OrderRecordForm struct {
	OrderID    int64  `json:"order_id" validate:"required,gt=0"`
	Commentary string `json:"commentary" validate:"max=255"`
}

func (f *OrderRecordForm) Bind(_ *http.Request) error {
	return validate.Struct(f)
}
