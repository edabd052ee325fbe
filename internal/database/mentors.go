package database

import (
	"context"
	"database/sql"
	"errors"

	"bonuspoint/entity"
)

func scanMentor(row interface{ Scan(...interface{}) error }) (*entity.Mentor, error) {
	var m entity.Mentor
	var discipline sql.NullInt64
	err := row.Scan(&m.Id, &m.Username, &m.PasswordHash, &m.FirstName, &m.LastName, &m.AccessLevel, &discipline)
	if err != nil {
		return nil, err
	}
	if discipline.Valid {
		m.DisciplineID = discipline.Int64
	}
	return &m, nil
}

func (s *MySql) MentorByUsername(ctx context.Context, username string) (*entity.Mentor, error) {
	stmt, err := s.prepareStmt("selectMentorByUsername",
		`SELECT id, username, password_hash, first_name, last_name, access_level, discipline_id
		 FROM mentor WHERE username = ?`)
	if err != nil {
		return nil, err
	}
	mentor, err := scanMentor(stmt.QueryRowContext(ctx, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return mentor, err
}

func (s *MySql) MentorByID(ctx context.Context, id int64) (*entity.Mentor, error) {
	stmt, err := s.prepareStmt("selectMentorByID",
		`SELECT id, username, password_hash, first_name, last_name, access_level, discipline_id
		 FROM mentor WHERE id = ?`)
	if err != nil {
		return nil, err
	}
	mentor, err := scanMentor(stmt.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return mentor, err
}

// Mentors lists accounts with access level strictly below maxLevel,
// ordered by username. The roster never shows peers or superiors.
func (s *MySql) Mentors(ctx context.Context, maxLevel entity.AccessLevel, page, perPage int) ([]*entity.Mentor, error) {
	stmt, err := s.prepareStmt("selectMentors",
		`SELECT id, username, password_hash, first_name, last_name, access_level, discipline_id
		 FROM mentor WHERE access_level < ? ORDER BY username LIMIT ? OFFSET ?`)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, int(maxLevel), perPage, offset(page, perPage))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mentors []*entity.Mentor
	for rows.Next() {
		mentor, err := scanMentor(rows)
		if err != nil {
			return nil, err
		}
		mentors = append(mentors, mentor)
	}
	return mentors, rows.Err()
}

func (s *MySql) CreateMentor(ctx context.Context, m *entity.Mentor) (int64, error) {
	stmt, err := s.prepareStmt("insertMentor",
		`INSERT INTO mentor (username, password_hash, first_name, last_name, access_level, discipline_id)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	res, err := stmt.ExecContext(ctx, m.Username, m.PasswordHash, m.FirstName, m.LastName,
		int(m.AccessLevel), nullableID(m.DisciplineID))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *MySql) UpdateMentor(ctx context.Context, m *entity.Mentor) error {
	stmt, err := s.prepareStmt("updateMentor",
		`UPDATE mentor SET username = ?, password_hash = ?, first_name = ?, last_name = ?,
		 access_level = ?, discipline_id = ? WHERE id = ?`)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx, m.Username, m.PasswordHash, m.FirstName, m.LastName,
		int(m.AccessLevel), nullableID(m.DisciplineID), m.Id)
	return err
}

func (s *MySql) DeleteMentor(ctx context.Context, id int64) error {
	stmt, err := s.prepareStmt("deleteMentor", `DELETE FROM mentor WHERE id = ?`)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx, id)
	return err
}

func (s *MySql) MentorGroups(ctx context.Context, mentorID int64) ([]*entity.Group, error) {
	stmt, err := s.prepareStmt("selectMentorGroups",
		`SELECT g.id, g.name, g.discipline_id FROM `+"`group`"+` g
		 JOIN group_mentors gm ON gm.group_id = g.id
		 WHERE gm.mentor_id = ? ORDER BY g.name`)
	if err != nil {
		return nil, err
	}
	return s.queryGroups(ctx, stmt, mentorID)
}

func (s *MySql) MentorInGroup(ctx context.Context, mentorID, groupID int64) (bool, error) {
	stmt, err := s.prepareStmt("selectMentorInGroup",
		`SELECT COUNT(*) FROM group_mentors WHERE mentor_id = ? AND group_id = ?`)
	if err != nil {
		return false, err
	}
	var count int
	if err = stmt.QueryRowContext(ctx, mentorID, groupID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *MySql) AddMentorToGroup(ctx context.Context, mentorID, groupID int64) error {
	stmt, err := s.prepareStmt("insertMentorGroup",
		`INSERT IGNORE INTO group_mentors (group_id, mentor_id) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx, groupID, mentorID)
	return err
}

func (s *MySql) RemoveMentorFromGroup(ctx context.Context, mentorID, groupID int64) error {
	stmt, err := s.prepareStmt("deleteMentorGroup",
		`DELETE FROM group_mentors WHERE group_id = ? AND mentor_id = ?`)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx, groupID, mentorID)
	return err
}

func nullableID(id int64) interface{} {
	if id == 0 {
		return nil
	}
	return id
}
