package database

import (
	"context"
	"database/sql"
	"errors"

	"bonuspoint/entity"
)

func (s *MySql) queryGroups(ctx context.Context, stmt *sql.Stmt, arg interface{}) ([]*entity.Group, error) {
	rows, err := stmt.QueryContext(ctx, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []*entity.Group
	for rows.Next() {
		var g entity.Group
		if err = rows.Scan(&g.Id, &g.Name, &g.DisciplineID); err != nil {
			return nil, err
		}
		groups = append(groups, &g)
	}
	return groups, rows.Err()
}

func (s *MySql) GroupByID(ctx context.Context, id int64) (*entity.Group, error) {
	stmt, err := s.prepareStmt("selectGroupByID",
		`SELECT id, name, discipline_id FROM `+"`group`"+` WHERE id = ?`)
	if err != nil {
		return nil, err
	}
	var g entity.Group
	err = stmt.QueryRowContext(ctx, id).Scan(&g.Id, &g.Name, &g.DisciplineID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *MySql) GroupByName(ctx context.Context, name string) (*entity.Group, error) {
	stmt, err := s.prepareStmt("selectGroupByName",
		`SELECT id, name, discipline_id FROM `+"`group`"+` WHERE name = ?`)
	if err != nil {
		return nil, err
	}
	var g entity.Group
	err = stmt.QueryRowContext(ctx, name).Scan(&g.Id, &g.Name, &g.DisciplineID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Groups lists all groups, or only one discipline's when disciplineID is set.
func (s *MySql) Groups(ctx context.Context, disciplineID int64, page, perPage int) ([]*entity.Group, error) {
	if disciplineID != 0 {
		stmt, err := s.prepareStmt("selectGroupsByDiscipline",
			`SELECT id, name, discipline_id FROM `+"`group`"+`
			 WHERE discipline_id = ? ORDER BY name LIMIT ? OFFSET ?`)
		if err != nil {
			return nil, err
		}
		return s.queryGroupsPaged(ctx, stmt, page, perPage, disciplineID)
	}
	stmt, err := s.prepareStmt("selectGroups",
		`SELECT id, name, discipline_id FROM `+"`group`"+` ORDER BY name LIMIT ? OFFSET ?`)
	if err != nil {
		return nil, err
	}
	return s.queryGroupsPaged(ctx, stmt, page, perPage)
}

func (s *MySql) queryGroupsPaged(ctx context.Context, stmt *sql.Stmt, page, perPage int, args ...interface{}) ([]*entity.Group, error) {
	args = append(args, perPage, offset(page, perPage))
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []*entity.Group
	for rows.Next() {
		var g entity.Group
		if err = rows.Scan(&g.Id, &g.Name, &g.DisciplineID); err != nil {
			return nil, err
		}
		groups = append(groups, &g)
	}
	return groups, rows.Err()
}

func (s *MySql) CreateGroup(ctx context.Context, g *entity.Group) (int64, error) {
	stmt, err := s.prepareStmt("insertGroup",
		`INSERT INTO `+"`group`"+` (name, discipline_id) VALUES (?, ?)`)
	if err != nil {
		return 0, err
	}
	res, err := stmt.ExecContext(ctx, g.Name, g.DisciplineID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *MySql) UpdateGroup(ctx context.Context, g *entity.Group) error {
	stmt, err := s.prepareStmt("updateGroup",
		`UPDATE `+"`group`"+` SET name = ?, discipline_id = ? WHERE id = ?`)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx, g.Name, g.DisciplineID, g.Id)
	return err
}

func (s *MySql) DeleteGroup(ctx context.Context, id int64) error {
	stmt, err := s.prepareStmt("deleteGroup", `DELETE FROM `+"`group`"+` WHERE id = ?`)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx, id)
	return err
}

func (s *MySql) GroupStudents(ctx context.Context, groupID int64) ([]*entity.Student, error) {
	stmt, err := s.prepareStmt("selectGroupStudents",
		`SELECT s.id, s.first_name, s.last_name, s.vk_id FROM student s
		 JOIN group_students gs ON gs.student_id = s.id
		 WHERE gs.group_id = ? ORDER BY s.last_name, s.first_name`)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, groupID)
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
