package core

import (
	"context"
	"fmt"

	"bonuspoint/entity"
)

// CanActOnGroup applies the discipline/group scope rules:
// Admin and above (and the unscoped mid tiers) see every group,
// an UpMentor only groups of their own discipline, a Mentor only
// groups of their discipline they are a member of.
func (c *Core) CanActOnGroup(ctx context.Context, mentor *entity.Mentor, group *entity.Group) (bool, error) {
	if group == nil {
		return false, nil
	}
	if !mentor.AccessLevel.Scoped() {
		return true, nil
	}
	if mentor.DisciplineID != group.DisciplineID {
		return false, nil
	}
	if mentor.AccessLevel == entity.AccessUpMentor {
		return true, nil
	}
	return c.db.MentorInGroup(ctx, mentor.Id, group.Id)
}

// requireGroupScope resolves a group and verifies the caller may act on
// it. Scope violations surface as ErrForbidden, which handlers turn
// into the silent landing-page redirect.
func (c *Core) requireGroupScope(ctx context.Context, mentor *entity.Mentor, groupID int64) (*entity.Group, error) {
	group, err := c.db.GroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrNotFound
	}
	ok, err := c.CanActOnGroup(ctx, mentor, group)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("group %d out of scope: %w", groupID, ErrForbidden)
	}
	return group, nil
}
