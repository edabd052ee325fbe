package database

import (
	"context"
	"database/sql"
	"errors"

	"bonuspoint/entity"
)

func (s *MySql) DisciplineRecordExists(ctx context.Context, studentID, themeID int64) (bool, error) {
	stmt, err := s.prepareStmt("selectDisciplineRecordExists",
		`SELECT COUNT(*) FROM discipline_point_record WHERE student_id = ? AND theme_id = ?`)
	if err != nil {
		return false, err
	}
	var count int
	if err = stmt.QueryRowContext(ctx, studentID, themeID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// DisciplineRecords lists a student's theme records, newest first. When
// disciplineID is set only records of that discipline's themes are
// returned (scoped mentor view).
func (s *MySql) DisciplineRecords(ctx context.Context, studentID, disciplineID int64, page, perPage int) ([]*entity.DisciplinePointRecord, error) {
	query := `SELECT r.id, r.student_id, r.theme_id, COALESCE(r.mentor_id, 0), r.amount, r.timestamp, t.name
		 FROM discipline_point_record r
		 JOIN theme t ON t.id = r.theme_id
		 WHERE r.student_id = ?`
	name := "selectDisciplineRecords"
	args := []interface{}{studentID}
	if disciplineID != 0 {
		query += ` AND t.discipline_id = ?`
		name = "selectDisciplineRecordsScoped"
		args = append(args, disciplineID)
	}
	query += ` ORDER BY r.timestamp DESC LIMIT ? OFFSET ?`
	args = append(args, perPage, offset(page, perPage))

	stmt, err := s.prepareStmt(name, query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*entity.DisciplinePointRecord
	for rows.Next() {
		var r entity.DisciplinePointRecord
		if err = rows.Scan(&r.Id, &r.StudentID, &r.ThemeID, &r.MentorID, &r.Amount, &r.Timestamp, &r.ThemeName); err != nil {
			return nil, err
		}
		records = append(records, &r)
	}
	return records, rows.Err()
}

func (s *MySql) CreateDisciplineRecord(ctx context.Context, r *entity.DisciplinePointRecord) (int64, error) {
	stmt, err := s.prepareStmt("insertDisciplineRecord",
		`INSERT INTO discipline_point_record (student_id, theme_id, mentor_id, amount, `+"`timestamp`"+`)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	res, err := stmt.ExecContext(ctx, r.StudentID, r.ThemeID, nullableID(r.MentorID), r.Amount, r.Timestamp)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *MySql) DeleteDisciplineRecord(ctx context.Context, id int64) error {
	stmt, err := s.prepareStmt("deleteDisciplineRecord",
		`DELETE FROM discipline_point_record WHERE id = ?`)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx, id)
	return err
}

// ReferClaimant returns the student who already claimed a referral id,
// or nil when the id is still free.
func (s *MySql) ReferClaimant(ctx context.Context, referVkID int64) (*entity.Student, error) {
	stmt, err := s.prepareStmt("selectReferClaimant",
		`SELECT s.id, s.first_name, s.last_name, s.vk_id
		 FROM refer_point_record r JOIN student s ON s.id = r.student_id
		 WHERE r.refer_vk_id = ?`)
	if err != nil {
		return nil, err
	}
	var st entity.Student
	err = stmt.QueryRowContext(ctx, referVkID).Scan(&st.Id, &st.FirstName, &st.LastName, &st.VkID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *MySql) ReferRecords(ctx context.Context, studentID int64, page, perPage int) ([]*entity.ReferPointRecord, error) {
	stmt, err := s.prepareStmt("selectReferRecords",
		`SELECT id, student_id, refer_vk_id, COALESCE(mentor_id, 0), amount, `+"`timestamp`"+`
		 FROM refer_point_record WHERE student_id = ?
		 ORDER BY `+"`timestamp`"+` DESC LIMIT ? OFFSET ?`)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, studentID, perPage, offset(page, perPage))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*entity.ReferPointRecord
	for rows.Next() {
		var r entity.ReferPointRecord
		if err = rows.Scan(&r.Id, &r.StudentID, &r.ReferVkID, &r.MentorID, &r.Amount, &r.Timestamp); err != nil {
			return nil, err
		}
		records = append(records, &r)
	}
	return records, rows.Err()
}

func (s *MySql) CreateReferRecord(ctx context.Context, r *entity.ReferPointRecord) (int64, error) {
	stmt, err := s.prepareStmt("insertReferRecord",
		`INSERT INTO refer_point_record (student_id, refer_vk_id, mentor_id, amount, `+"`timestamp`"+`)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	res, err := stmt.ExecContext(ctx, r.StudentID, r.ReferVkID, nullableID(r.MentorID), r.Amount, r.Timestamp)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *MySql) DeleteReferRecord(ctx context.Context, id int64) error {
	stmt, err := s.prepareStmt("deleteReferRecord",
		`DELETE FROM refer_point_record WHERE id = ?`)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx, id)
	return err
}

// Balance sums: discipline points plus referral points minus redeemed
// order costs, always recomputed from the rows themselves.

func (s *MySql) SumDisciplinePoints(ctx context.Context, studentID int64) (int, error) {
	stmt, err := s.prepareStmt("sumDisciplinePoints",
		`SELECT COALESCE(SUM(amount), 0) FROM discipline_point_record WHERE student_id = ?`)
	if err != nil {
		return 0, err
	}
	var sum int
	err = stmt.QueryRowContext(ctx, studentID).Scan(&sum)
	return sum, err
}

func (s *MySql) SumReferPoints(ctx context.Context, studentID int64) (int, error) {
	stmt, err := s.prepareStmt("sumReferPoints",
		`SELECT COALESCE(SUM(amount), 0) FROM refer_point_record WHERE student_id = ?`)
	if err != nil {
		return 0, err
	}
	var sum int
	err = stmt.QueryRowContext(ctx, studentID).Scan(&sum)
	return sum, err
}

func (s *MySql) SumOrderCosts(ctx context.Context, studentID int64) (int, error) {
	stmt, err := s.prepareStmt("sumOrderCosts",
		`SELECT COALESCE(SUM(cost), 0) FROM order_record WHERE student_id = ?`)
	if err != nil {
		return 0, err
	}
	var sum int
	err = stmt.QueryRowContext(ctx, studentID).Scan(&sum)
	return sum, err
}
