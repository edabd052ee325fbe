package database

import (
	"context"
	"database/sql"
	"errors"

	"bonuspoint/entity"
)

func scanCommunity(row interface{ Scan(...interface{}) error }) (*entity.Community, error) {
	var c entity.Community
	err := row.Scan(&c.Id, &c.VkID, &c.Token, &c.ConfirmationKey, &c.SecretKey, &c.Message)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *MySql) CommunityByID(ctx context.Context, id int64) (*entity.Community, error) {
	stmt, err := s.prepareStmt("selectCommunityByID",
		`SELECT id, vk_id, token, confirmation_key, secret_key, message FROM community WHERE id = ?`)
	if err != nil {
		return nil, err
	}
	community, err := scanCommunity(stmt.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return community, err
}

func (s *MySql) CommunityByVkID(ctx context.Context, vkID int64) (*entity.Community, error) {
	stmt, err := s.prepareStmt("selectCommunityByVkID",
		`SELECT id, vk_id, token, confirmation_key, secret_key, message FROM community WHERE vk_id = ?`)
	if err != nil {
		return nil, err
	}
	community, err := scanCommunity(stmt.QueryRowContext(ctx, vkID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return community, err
}

func (s *MySql) Communities(ctx context.Context) ([]*entity.Community, error) {
	stmt, err := s.prepareStmt("selectCommunities",
		`SELECT id, vk_id, token, confirmation_key, secret_key, message FROM community ORDER BY id`)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var communities []*entity.Community
	for rows.Next() {
		community, err := scanCommunity(rows)
		if err != nil {
			return nil, err
		}
		communities = append(communities, community)
	}
	return communities, rows.Err()
}

func (s *MySql) CreateCommunity(ctx context.Context, c *entity.Community) (int64, error) {
	stmt, err := s.prepareStmt("insertCommunity",
		`INSERT INTO community (vk_id, token, confirmation_key, secret_key, message)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	res, err := stmt.ExecContext(ctx, c.VkID, c.Token, c.ConfirmationKey, c.SecretKey, c.Message)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *MySql) UpdateCommunityMessage(ctx context.Context, id int64, message string) error {
	stmt, err := s.prepareStmt("updateCommunityMessage",
		`UPDATE community SET message = ? WHERE id = ?`)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx, message, id)
	return err
}

func (s *MySql) DeleteCommunity(ctx context.Context, id int64) error {
	stmt, err := s.prepareStmt("deleteCommunity", `DELETE FROM community WHERE id = ?`)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx, id)
	return err
}
