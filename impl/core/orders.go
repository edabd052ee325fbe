package core

import (
	"context"
	"fmt"
	"time"

	"bonuspoint/entity"
)

func (c *Core) Orders(ctx context.Context, page, perPage int) ([]*entity.Order, error) {
	return c.db.Orders(ctx, page, perPage)
}

func (c *Core) CreateOrder(ctx context.Context, actor *entity.Mentor, form *entity.OrderForm) (*entity.Order, error) {
	existing, err := c.db.OrderByName(ctx, form.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("подарок %q уже существует: %w", form.Name, ErrDuplicate)
	}

	order := &entity.Order{
		Name:        form.Name,
		Cost:        form.Cost,
		Description: form.Description,
		Type:        form.Type,
	}
	order.Id, err = c.db.CreateOrder(ctx, order)
	if err != nil {
		return nil, err
	}
	c.audit(actor, entity.AuditCreate, "order", order.Id, order.Name)
	return order, nil
}

func (c *Core) UpdateOrder(ctx context.Context, actor *entity.Mentor, id int64, form *entity.OrderForm) (*entity.Order, error) {
	order, err := c.db.OrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	if form.Name != order.Name {
		existing, err := c.db.OrderByName(ctx, form.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("подарок %q уже существует: %w", form.Name, ErrDuplicate)
		}
	}

	order.Name = form.Name
	order.Cost = form.Cost
	order.Description = form.Description
	order.Type = form.Type
	if err = c.db.UpdateOrder(ctx, order); err != nil {
		return nil, err
	}
	c.audit(actor, entity.AuditUpdate, "order", order.Id, order.Name)
	return order, nil
}

// DeleteOrder removes a catalog entry. An entry with redemption history
// stays: the records reference it and keep it on the balance sheet.
func (c *Core) DeleteOrder(ctx context.Context, actor *entity.Mentor, id int64) error {
	order, err := c.db.OrderByID(ctx, id)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrNotFound
	}
	count, err := c.db.CountOrderRecords(ctx, order.Id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("удаление заблокировано пока по подарку есть заказы: %w", ErrHasDependents)
	}
	if err = c.db.DeleteOrder(ctx, order.Id); err != nil {
		return err
	}
	c.audit(actor, entity.AuditDelete, "order", order.Id, order.Name)
	return nil
}

func (c *Core) OrderRecords(ctx context.Context, studentID int64, page, perPage int) ([]*entity.OrderRecord, error) {
	return c.db.OrderRecords(ctx, studentID, page, perPage)
}

// RedeemOrder creates a redemption after re-reading the live balance.
// The catalog cost is snapshotted into the record so later price edits
// leave history untouched. The check-then-insert pair is deliberately
// not atomic; see DESIGN.md.
func (c *Core) RedeemOrder(ctx context.Context, actor *entity.Mentor, studentID int64, form *entity.OrderRecordForm) (*entity.OrderRecord, error) {
	student, err := c.db.StudentByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, ErrNotFound
	}
	order, err := c.db.OrderByID(ctx, form.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("подарок не найден: %w", ErrNotFound)
	}

	balance, err := c.TotalPoints(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if balance < order.Cost {
		return nil, fmt.Errorf("у студента %s только %d баллов, нужно %d: %w",
			student.FullName(), balance, order.Cost, ErrInsufficientPoints)
	}

	record := &entity.OrderRecord{
		StudentID:  studentID,
		OrderID:    order.Id,
		Cost:       order.Cost,
		Status:     entity.StatusOrdered,
		Commentary: form.Commentary,
		Timestamp:  time.Now().UTC(),
		OrderName:  order.Name,
		OrderType:  order.Type,
	}
	record.Id, err = c.db.CreateOrderRecord(ctx, record)
	if err != nil {
		return nil, err
	}
	c.audit(actor, entity.AuditRedeem, "order_record", record.Id,
		fmt.Sprintf("student=%d order=%d cost=%d", studentID, order.Id, order.Cost))
	return record, nil
}

// AdvanceOrderStatus moves a redemption one step forward. The lifecycle
// is strictly Ordered -> Sent -> Done; a completed record cannot be
// advanced again.
func (c *Core) AdvanceOrderStatus(ctx context.Context, actor *entity.Mentor, recordID int64) (*entity.OrderRecord, error) {
	record, err := c.db.OrderRecordByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrNotFound
	}
	if record.Status >= entity.StatusDone {
		return nil, fmt.Errorf("заказ уже получен: %w", ErrConflict)
	}

	record.Status++
	if err = c.db.UpdateOrderRecordStatus(ctx, record.Id, record.Status); err != nil {
		return nil, err
	}
	c.audit(actor, entity.AuditUpdate, "order_record", record.Id,
		fmt.Sprintf("status=%d", record.Status))
	return record, nil
}

func (c *Core) DeleteOrderRecord(ctx context.Context, actor *entity.Mentor, recordID int64) error {
	if err := c.db.DeleteOrderRecord(ctx, recordID); err != nil {
		return err
	}
	c.audit(actor, entity.AuditDelete, "order_record", recordID, "")
	return nil
}
