package database

import (
	"context"
	"database/sql"
	"errors"

	"bonuspoint/entity"
)

func (s *MySql) OrderByID(ctx context.Context, id int64) (*entity.Order, error) {
	stmt, err := s.prepareStmt("selectOrderByID",
		`SELECT id, name, cost, description, type FROM `+"`order`"+` WHERE id = ?`)
	if err != nil {
		return nil, err
	}
	var o entity.Order
	err = stmt.QueryRowContext(ctx, id).Scan(&o.Id, &o.Name, &o.Cost, &o.Description, &o.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *MySql) OrderByName(ctx context.Context, name string) (*entity.Order, error) {
	stmt, err := s.prepareStmt("selectOrderByName",
		`SELECT id, name, cost, description, type FROM `+"`order`"+` WHERE name = ?`)
	if err != nil {
		return nil, err
	}
	var o entity.Order
	err = stmt.QueryRowContext(ctx, name).Scan(&o.Id, &o.Name, &o.Cost, &o.Description, &o.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *MySql) Orders(ctx context.Context, page, perPage int) ([]*entity.Order, error) {
	stmt, err := s.prepareStmt("selectOrders",
		`SELECT id, name, cost, description, type FROM `+"`order`"+` ORDER BY name LIMIT ? OFFSET ?`)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, perPage, offset(page, perPage))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*entity.Order
	for rows.Next() {
		var o entity.Order
		if err = rows.Scan(&o.Id, &o.Name, &o.Cost, &o.Description, &o.Type); err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}
	return orders, rows.Err()
}

func (s *MySql) CreateOrder(ctx context.Context, o *entity.Order) (int64, error) {
	stmt, err := s.prepareStmt("insertOrder",
		`INSERT INTO `+"`order`"+` (name, cost, description, type) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	res, err := stmt.ExecContext(ctx, o.Name, o.Cost, o.Description, int(o.Type))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *MySql) UpdateOrder(ctx context.Context, o *entity.Order) error {
	stmt, err := s.prepareStmt("updateOrder",
		`UPDATE `+"`order`"+` SET name = ?, cost = ?, description = ?, type = ? WHERE id = ?`)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx, o.Name, o.Cost, o.Description, int(o.Type), o.Id)
	return err
}

func (s *MySql) DeleteOrder(ctx context.Context, id int64) error {
	stmt, err := s.prepareStmt("deleteOrder", `DELETE FROM `+"`order`"+` WHERE id = ?`)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx, id)
	return err
}

func (s *MySql) CountOrderRecords(ctx context.Context, orderID int64) (int, error) {
	stmt, err := s.prepareStmt("countOrderRecords",
		`SELECT COUNT(*) FROM order_record WHERE order_id = ?`)
	if err != nil {
		return 0, err
	}
	var count int
	if err = stmt.QueryRowContext(ctx, orderID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *MySql) OrderRecordByID(ctx context.Context, id int64) (*entity.OrderRecord, error) {
	stmt, err := s.prepareStmt("selectOrderRecordByID",
		`SELECT r.id, r.student_id, r.order_id, r.cost, r.status, r.commentary, r.timestamp, o.name, o.type
		 FROM order_record r JOIN `+"`order`"+` o ON o.id = r.order_id WHERE r.id = ?`)
	if err != nil {
		return nil, err
	}
	var r entity.OrderRecord
	err = stmt.QueryRowContext(ctx, id).Scan(&r.Id, &r.StudentID, &r.OrderID, &r.Cost,
		&r.Status, &r.Commentary, &r.Timestamp, &r.OrderName, &r.OrderType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *MySql) OrderRecords(ctx context.Context, studentID int64, page, perPage int) ([]*entity.OrderRecord, error) {
	stmt, err := s.prepareStmt("selectOrderRecords",
		`SELECT r.id, r.student_id, r.order_id, r.cost, r.status, r.commentary, r.timestamp, o.name, o.type
		 FROM order_record r JOIN `+"`order`"+` o ON o.id = r.order_id
		 WHERE r.student_id = ? ORDER BY r.timestamp DESC LIMIT ? OFFSET ?`)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, studentID, perPage, offset(page, perPage))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*entity.OrderRecord
	for rows.Next() {
		var r entity.OrderRecord
		if err = rows.Scan(&r.Id, &r.StudentID, &r.OrderID, &r.Cost, &r.Status,
			&r.Commentary, &r.Timestamp, &r.OrderName, &r.OrderType); err != nil {
			return nil, err
		}
		records = append(records, &r)
	}
	return records, rows.Err()
}

func (s *MySql) CreateOrderRecord(ctx context.Context, r *entity.OrderRecord) (int64, error) {
	stmt, err := s.prepareStmt("insertOrderRecord",
		`INSERT INTO order_record (student_id, order_id, cost, status, commentary, `+"`timestamp`"+`)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	res, err := stmt.ExecContext(ctx, r.StudentID, r.OrderID, r.Cost, int(r.Status), r.Commentary, r.Timestamp)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *MySql) UpdateOrderRecordStatus(ctx context.Context, id int64, status entity.OrderStatus) error {
	stmt, err := s.prepareStmt("updateOrderRecordStatus",
		`UPDATE order_record SET status = ? WHERE id = ?`)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx, int(status), id)
	return err
}

func (s *MySql) DeleteOrderRecord(ctx context.Context, id int64) error {
	stmt, err := s.prepareStmt("deleteOrderRecord", `DELETE FROM order_record WHERE id = ?`)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx, id)
	return err
}
