package core

import (
	"context"
	"fmt"

	"bonuspoint/entity"
)

// Groups lists the cohorts visible to the caller: everything for
// unscoped levels, only the caller's discipline (and membership, for
// plain mentors) otherwise.
func (c *Core) Groups(ctx context.Context, actor *entity.Mentor, page, perPage int) ([]*entity.Group, error) {
	if !actor.AccessLevel.Scoped() {
		return c.db.Groups(ctx, 0, page, perPage)
	}
	if actor.AccessLevel == entity.AccessUpMentor {
		return c.db.Groups(ctx, actor.DisciplineID, page, perPage)
	}
	return c.db.MentorGroups(ctx, actor.Id)
}

// GroupByID resolves a group under the caller's scope rules.
func (c *Core) GroupByID(ctx context.Context, actor *entity.Mentor, groupID int64) (*entity.Group, error) {
	return c.requireGroupScope(ctx, actor, groupID)
}

func (c *Core) GroupStudents(ctx context.Context, actor *entity.Mentor, groupID int64) ([]*entity.Student, error) {
	group, err := c.requireGroupScope(ctx, actor, groupID)
	if err != nil {
		return nil, err
	}
	return c.db.GroupStudents(ctx, group.Id)
}

func (c *Core) CreateGroup(ctx context.Context, actor *entity.Mentor, form *entity.GroupForm) (*entity.Group, error) {
	existing, err := c.db.GroupByName(ctx, form.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("группа %q уже существует: %w", form.Name, ErrDuplicate)
	}
	discipline, err := c.db.DisciplineByID(ctx, form.Discipline)
	if err != nil {
		return nil, err
	}
	if discipline == nil {
		return nil, fmt.Errorf("предмет не найден: %w", ErrValidation)
	}

	group := &entity.Group{
		Name:         form.Name,
		DisciplineID: discipline.Id,
	}
	group.Id, err = c.db.CreateGroup(ctx, group)
	if err != nil {
		return nil, err
	}
	c.audit(actor, entity.AuditCreate, "group", group.Id, group.Name)
	return group, nil
}

func (c *Core) UpdateGroup(ctx context.Context, actor *entity.Mentor, groupID int64, form *entity.GroupForm) (*entity.Group, error) {
	group, err := c.requireGroupScope(ctx, actor, groupID)
	if err != nil {
		return nil, err
	}
	if form.Name != group.Name {
		existing, err := c.db.GroupByName(ctx, form.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("группа %q уже существует: %w", form.Name, ErrDuplicate)
		}
	}
	discipline, err := c.db.DisciplineByID(ctx, form.Discipline)
	if err != nil {
		return nil, err
	}
	if discipline == nil {
		return nil, fmt.Errorf("предмет не найден: %w", ErrValidation)
	}

	group.Name = form.Name
	group.DisciplineID = discipline.Id
	if err = c.db.UpdateGroup(ctx, group); err != nil {
		return nil, err
	}
	c.audit(actor, entity.AuditUpdate, "group", group.Id, group.Name)
	return group, nil
}

func (c *Core) DeleteGroup(ctx context.Context, actor *entity.Mentor, groupID int64) error {
	if err := c.db.DeleteGroup(ctx, groupID); err != nil {
		return err
	}
	c.audit(actor, entity.AuditDelete, "group", groupID, "")
	return nil
}
