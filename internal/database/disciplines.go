package database

import (
	"context"
	"database/sql"
	"errors"

	"bonuspoint/entity"
)

func (s *MySql) DisciplineByID(ctx context.Context, id int64) (*entity.Discipline, error) {
	stmt, err := s.prepareStmt("selectDisciplineByID",
		`SELECT id, name FROM discipline WHERE id = ?`)
	if err != nil {
		return nil, err
	}
	var d entity.Discipline
	err = stmt.QueryRowContext(ctx, id).Scan(&d.Id, &d.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *MySql) DisciplineByName(ctx context.Context, name string) (*entity.Discipline, error) {
	stmt, err := s.prepareStmt("selectDisciplineByName",
		`SELECT id, name FROM discipline WHERE name = ?`)
	if err != nil {
		return nil, err
	}
	var d entity.Discipline
	err = stmt.QueryRowContext(ctx, name).Scan(&d.Id, &d.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *MySql) Disciplines(ctx context.Context) ([]*entity.Discipline, error) {
	stmt, err := s.prepareStmt("selectDisciplines",
		`SELECT id, name FROM discipline ORDER BY name`)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var disciplines []*entity.Discipline
	for rows.Next() {
		var d entity.Discipline
		if err = rows.Scan(&d.Id, &d.Name); err != nil {
			return nil, err
		}
		disciplines = append(disciplines, &d)
	}
	return disciplines, rows.Err()
}

func (s *MySql) CreateDiscipline(ctx context.Context, d *entity.Discipline) (int64, error) {
	stmt, err := s.prepareStmt("insertDiscipline", `INSERT INTO discipline (name) VALUES (?)`)
	if err != nil {
		return 0, err
	}
	res, err := stmt.ExecContext(ctx, d.Name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *MySql) DeleteDiscipline(ctx context.Context, id int64) error {
	stmt, err := s.prepareStmt("deleteDiscipline", `DELETE FROM discipline WHERE id = ?`)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx, id)
	return err
}

// CountThemes backs the dependents guard on discipline removal.
func (s *MySql) CountThemes(ctx context.Context, disciplineID int64) (int, error) {
	stmt, err := s.prepareStmt("countThemes",
		`SELECT COUNT(*) FROM theme WHERE discipline_id = ?`)
	if err != nil {
		return 0, err
	}
	var count int
	err = stmt.QueryRowContext(ctx, disciplineID).Scan(&count)
	return count, err
}

func (s *MySql) ThemeByID(ctx context.Context, id int64) (*entity.Theme, error) {
	stmt, err := s.prepareStmt("selectThemeByID",
		`SELECT id, name, max_points, discipline_id FROM theme WHERE id = ?`)
	if err != nil {
		return nil, err
	}
	var t entity.Theme
	err = stmt.QueryRowContext(ctx, id).Scan(&t.Id, &t.Name, &t.MaxPoints, &t.DisciplineID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *MySql) ThemeByName(ctx context.Context, disciplineID int64, name string) (*entity.Theme, error) {
	stmt, err := s.prepareStmt("selectThemeByName",
		`SELECT id, name, max_points, discipline_id FROM theme WHERE discipline_id = ? AND name = ?`)
	if err != nil {
		return nil, err
	}
	var t entity.Theme
	err = stmt.QueryRowContext(ctx, disciplineID, name).Scan(&t.Id, &t.Name, &t.MaxPoints, &t.DisciplineID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *MySql) ThemesByDiscipline(ctx context.Context, disciplineID int64) ([]*entity.Theme, error) {
	stmt, err := s.prepareStmt("selectThemes",
		`SELECT id, name, max_points, discipline_id FROM theme WHERE discipline_id = ? ORDER BY name`)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, disciplineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var themes []*entity.Theme
	for rows.Next() {
		var t entity.Theme
		if err = rows.Scan(&t.Id, &t.Name, &t.MaxPoints, &t.DisciplineID); err != nil {
			return nil, err
		}
		themes = append(themes, &t)
	}
	return themes, rows.Err()
}

func (s *MySql) CreateTheme(ctx context.Context, t *entity.Theme) (int64, error) {
	stmt, err := s.prepareStmt("insertTheme",
		`INSERT INTO theme (name, max_points, discipline_id) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	res, err := stmt.ExecContext(ctx, t.Name, t.MaxPoints, t.DisciplineID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *MySql) DeleteTheme(ctx context.Context, id int64) error {
	stmt, err := s.prepareStmt("deleteTheme", `DELETE FROM theme WHERE id = ?`)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx, id)
	return err
}
