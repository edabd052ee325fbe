package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"bonuspoint/entity"
)

func (s *MySql) StudentByID(ctx context.Context, id int64) (*entity.Student, error) {
	stmt, err := s.prepareStmt("selectStudentByID",
		`SELECT id, first_name, last_name, vk_id FROM student WHERE id = ?`)
	if err != nil {
		return nil, err
	}
	var st entity.Student
	err = stmt.QueryRowContext(ctx, id).Scan(&st.Id, &st.FirstName, &st.LastName, &st.VkID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *MySql) StudentByVkID(ctx context.Context, vkID int64) (*entity.Student, error) {
	stmt, err := s.prepareStmt("selectStudentByVkID",
		`SELECT id, first_name, last_name, vk_id FROM student WHERE vk_id = ?`)
	if err != nil {
		return nil, err
	}
	var st entity.Student
	err = stmt.QueryRowContext(ctx, vkID).Scan(&st.Id, &st.FirstName, &st.LastName, &st.VkID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// Students lists the roster ordered by name. The filter is assembled
// dynamically, so this query bypasses the statement cache.
func (s *MySql) Students(ctx context.Context, filter entity.StudentFilter, page, perPage int) ([]*entity.Student, error) {
	query := `SELECT id, first_name, last_name, vk_id FROM student`
	var conds []string
	var args []interface{}
	if filter.FirstName != "" {
		conds = append(conds, "first_name = ?")
		args = append(args, strings.ReplaceAll(filter.FirstName, " ", ""))
	}
	if filter.LastName != "" {
		conds = append(conds, "last_name = ?")
		args = append(args, strings.ReplaceAll(filter.LastName, " ", ""))
	}
	if filter.VkID != 0 {
		conds = append(conds, "vk_id = ?")
		args = append(args, filter.VkID)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY last_name, first_name LIMIT ? OFFSET ?"
	args = append(args, perPage, offset(page, perPage))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*entity.Student
	for rows.Next() {
		var st entity.Student
		if err = rows.Scan(&st.Id, &st.FirstName, &st.LastName, &st.VkID); err != nil {
			return nil, err
		}
		students = append(students, &st)
	}
	return students, rows.Err()
}

func (s *MySql) CreateStudent(ctx context.Context, st *entity.Student) (int64, error) {
	stmt, err := s.prepareStmt("insertStudent",
		`INSERT INTO student (first_name, last_name, vk_id) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	res, err := stmt.ExecContext(ctx, st.FirstName, st.LastName, st.VkID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *MySql) UpdateStudent(ctx context.Context, st *entity.Student) error {
	stmt, err := s.prepareStmt("updateStudent",
		`UPDATE student SET first_name = ?, last_name = ?, vk_id = ? WHERE id = ?`)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx, st.FirstName, st.LastName, st.VkID, st.Id)
	return err
}

func (s *MySql) DeleteStudent(ctx context.Context, id int64) error {
	stmt, err := s.prepareStmt("deleteStudent", `DELETE FROM student WHERE id = ?`)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx, id)
	return err
}

func (s *MySql) StudentGroups(ctx context.Context, studentID int64) ([]*entity.Group, error) {
	stmt, err := s.prepareStmt("selectStudentGroups",
		`SELECT g.id, g.name, g.discipline_id FROM `+"`group`"+` g
		 JOIN group_students gs ON gs.group_id = g.id
		 WHERE gs.student_id = ? ORDER BY g.name`)
	if err != nil {
		return nil, err
	}
	return s.queryGroups(ctx, stmt, studentID)
}

func (s *MySql) StudentInGroup(ctx context.Context, studentID, groupID int64) (bool, error) {
	stmt, err := s.prepareStmt("selectStudentInGroup",
		`SELECT COUNT(*) FROM group_students WHERE student_id = ? AND group_id = ?`)
	if err != nil {
		return false, err
	}
	var count int
	if err = stmt.QueryRowContext(ctx, studentID, groupID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *MySql) AddStudentToGroup(ctx context.Context, studentID, groupID int64) error {
	stmt, err := s.prepareStmt("insertStudentGroup",
		`INSERT IGNORE INTO group_students (group_id, student_id) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx, groupID, studentID)
	return err
}

func (s *MySql) RemoveStudentFromGroup(ctx context.Context, studentID, groupID int64) error {
	stmt, err := s.prepareStmt("deleteStudentGroup",
		`DELETE FROM group_students WHERE group_id = ? AND student_id = ?`)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx, groupID, studentID)
	return err
}
