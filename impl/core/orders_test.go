package core

import (
	"context"
	"errors"
	"testing"

	"bonuspoint/entity"
)

func seedBalance(t *testing.T, c *Core, store *memStore, student *entity.Student, amount int) {
	t.Helper()
	theme := seedTheme(store, "Баланс", "Старт", amount)
	if _, err := c.AddDisciplineRecord(context.Background(), superAdmin(), student.Id,
		&entity.DisciplineRecordForm{ThemeID: theme.Id, Amount: amount}); err != nil {
		t.Fatalf("seed balance: %v", err)
	}
}

func TestRedeemOrderInsufficientBalanceLeavesNoRecord(t *testing.T) {
	c, store, _ := newTestCore(t)
	ctx := context.Background()
	student := seedStudent(store, 700)
	seedBalance(t, c, store, student, 30)

	order := &entity.Order{Name: "Кружка", Cost: 50, Type: entity.OrderTypeSet}
	order.Id, _ = store.CreateOrder(ctx, order)

	_, err := c.RedeemOrder(ctx, superAdmin(), student.Id, &entity.OrderRecordForm{OrderID: order.Id})
	if !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("redeem error = %v, want ErrInsufficientPoints", err)
	}
	if len(store.orderRecords) != 0 {
		t.Errorf("failed redemption must not write a record, found %d", len(store.orderRecords))
	}
	if points, _ := c.TotalPoints(ctx, student.Id); points != 30 {
		t.Errorf("balance changed to %d after failed redemption", points)
	}
}

func TestRedeemOrderSnapshotsCost(t *testing.T) {
	c, store, _ := newTestCore(t)
	ctx := context.Background()
	actor := superAdmin()
	student := seedStudent(store, 701)
	seedBalance(t, c, store, student, 100)

	order := &entity.Order{Name: "Скидка", Cost: 60, Type: entity.OrderTypeDiscount}
	order.Id, _ = store.CreateOrder(ctx, order)

	record, err := c.RedeemOrder(ctx, actor, student.Id, &entity.OrderRecordForm{OrderID: order.Id})
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}

	// a later price edit must not change the recorded cost
	order.Cost = 999
	if _, err = c.UpdateOrder(ctx, actor, order.Id, &entity.OrderForm{
		Name: order.Name, Cost: 999, Type: order.Type,
	}); err != nil {
		t.Fatalf("update order: %v", err)
	}

	stored := store.orderRecords[record.Id]
	if stored.Cost != 60 {
		t.Errorf("snapshot cost = %d, want 60", stored.Cost)
	}
	if points, _ := c.TotalPoints(ctx, student.Id); points != 40 {
		t.Errorf("balance = %d, want 40", points)
	}
}

func TestAdvanceOrderStatusOneWay(t *testing.T) {
	c, store, _ := newTestCore(t)
	ctx := context.Background()
	actor := superAdmin()
	student := seedStudent(store, 702)
	seedBalance(t, c, store, student, 100)

	order := &entity.Order{Name: "Значок", Cost: 10, Type: entity.OrderTypeSet}
	order.Id, _ = store.CreateOrder(ctx, order)
	record, err := c.RedeemOrder(ctx, actor, student.Id, &entity.OrderRecordForm{OrderID: order.Id})
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if record.Status != entity.StatusOrdered {
		t.Fatalf("fresh redemption status = %d, want %d", record.Status, entity.StatusOrdered)
	}

	record, err = c.AdvanceOrderStatus(ctx, actor, record.Id)
	if err != nil || record.Status != entity.StatusSent {
		t.Fatalf("first advance: status=%d err=%v", record.Status, err)
	}
	record, err = c.AdvanceOrderStatus(ctx, actor, record.Id)
	if err != nil || record.Status != entity.StatusDone {
		t.Fatalf("second advance: status=%d err=%v", record.Status, err)
	}

	_, err = c.AdvanceOrderStatus(ctx, actor, record.Id)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("advance past done error = %v, want ErrConflict", err)
	}
	if store.orderRecords[record.Id].Status != entity.StatusDone {
		t.Errorf("status moved past done")
	}
}

func TestDeleteOrderBlockedByRedemptions(t *testing.T) {
	c, store, _ := newTestCore(t)
	ctx := context.Background()
	actor := superAdmin()
	student := seedStudent(store, 703)
	seedBalance(t, c, store, student, 100)

	order := &entity.Order{Name: "Блокнот", Cost: 20, Type: entity.OrderTypeSet}
	order.Id, _ = store.CreateOrder(ctx, order)
	record, err := c.RedeemOrder(ctx, actor, student.Id, &entity.OrderRecordForm{OrderID: order.Id})
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}

	if err = c.DeleteOrder(ctx, actor, order.Id); !errors.Is(err, ErrHasDependents) {
		t.Fatalf("delete error = %v, want ErrHasDependents", err)
	}
	if _, ok := store.orders[order.Id]; !ok {
		t.Error("catalog entry removed despite history")
	}

	// with the history gone the entry can be removed
	if err = c.DeleteOrderRecord(ctx, actor, record.Id); err != nil {
		t.Fatalf("delete record: %v", err)
	}
	if err = c.DeleteOrder(ctx, actor, order.Id); err != nil {
		t.Fatalf("delete after history cleared: %v", err)
	}
}

func TestCreateOrderRejectsDuplicateName(t *testing.T) {
	c, _, _ := newTestCore(t)
	ctx := context.Background()
	actor := superAdmin()

	form := &entity.OrderForm{Name: "Футболка", Cost: 100, Type: entity.OrderTypeSet}
	if _, err := c.CreateOrder(ctx, actor, form); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := c.CreateOrder(ctx, actor, form); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate create error = %v, want ErrDuplicate", err)
	}
}
