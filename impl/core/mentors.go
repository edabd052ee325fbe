package core

import (
	"context"
	"fmt"

	"bonuspoint/entity"
)

// Mentors lists accounts below the caller's access level. Admins never
// see peers or superiors in the roster; only the super admin can
// manage other admins.
func (c *Core) Mentors(ctx context.Context, actor *entity.Mentor, page, perPage int) ([]*entity.Mentor, error) {
	return c.db.Mentors(ctx, actor.AccessLevel, page, perPage)
}

// MentorByUsername resolves a roster entry for viewing or editing.
// Self-lookups are always allowed; anyone else must sit strictly below
// the caller, otherwise the account is treated as nonexistent.
func (c *Core) MentorByUsername(ctx context.Context, actor *entity.Mentor, username string) (*entity.Mentor, error) {
	if username == actor.Username {
		return actor, nil
	}
	mentor, err := c.db.MentorByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if mentor == nil || !actor.AccessLevel.AtLeast(mentor.AccessLevel+1) {
		return nil, ErrNotFound
	}
	return mentor, nil
}

func (c *Core) CreateMentor(ctx context.Context, actor *entity.Mentor, form *entity.MentorForm) (*entity.Mentor, error) {
	if form.Password == "" {
		return nil, fmt.Errorf("пароль обязателен: %w", ErrValidation)
	}
	if !form.AccessLevel.Valid() || form.AccessLevel >= actor.AccessLevel {
		return nil, fmt.Errorf("уровень доступа недоступен: %w", ErrForbidden)
	}
	existing, err := c.db.MentorByUsername(ctx, form.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("имя пользователя %q занято: %w", form.Username, ErrDuplicate)
	}
	discipline, err := c.mentorDiscipline(ctx, form)
	if err != nil {
		return nil, err
	}

	mentor := &entity.Mentor{
		Username:     form.Username,
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		AccessLevel:  form.AccessLevel,
		DisciplineID: discipline,
	}
	if err = mentor.SetPassword(form.Password); err != nil {
		return nil, err
	}
	mentor.Id, err = c.db.CreateMentor(ctx, mentor)
	if err != nil {
		return nil, err
	}
	c.audit(actor, entity.AuditCreate, "mentor", mentor.Id, mentor.Username)
	return mentor, nil
}

// UpdateMentor edits a roster entry. When a mentor edits their own
// account the access-level and discipline fields are ignored, so no
// one can raise their own privileges.
func (c *Core) UpdateMentor(ctx context.Context, actor *entity.Mentor, username string, form *entity.MentorForm) (*entity.Mentor, error) {
	mentor, err := c.MentorByUsername(ctx, actor, username)
	if err != nil {
		return nil, err
	}
	isSelf := mentor.Id == actor.Id

	if form.Username != mentor.Username {
		existing, err := c.db.MentorByUsername(ctx, form.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("имя пользователя %q занято: %w", form.Username, ErrDuplicate)
		}
	}

	mentor.Username = form.Username
	mentor.FirstName = form.FirstName
	mentor.LastName = form.LastName
	if form.Password != "" {
		if err = mentor.SetPassword(form.Password); err != nil {
			return nil, err
		}
	}
	if !isSelf {
		if !form.AccessLevel.Valid() || form.AccessLevel >= actor.AccessLevel {
			return nil, fmt.Errorf("уровень доступа недоступен: %w", ErrForbidden)
		}
		mentor.AccessLevel = form.AccessLevel
		discipline, err := c.mentorDiscipline(ctx, form)
		if err != nil {
			return nil, err
		}
		mentor.DisciplineID = discipline
	}

	if err = c.db.UpdateMentor(ctx, mentor); err != nil {
		return nil, err
	}
	c.audit(actor, entity.AuditUpdate, "mentor", mentor.Id, mentor.Username)
	return mentor, nil
}

func (c *Core) DeleteMentor(ctx context.Context, actor *entity.Mentor, username string) error {
	mentor, err := c.MentorByUsername(ctx, actor, username)
	if err != nil {
		return err
	}
	if mentor.Id == actor.Id {
		return fmt.Errorf("нельзя удалить собственную учётную запись: %w", ErrForbidden)
	}
	if err = c.db.DeleteMentor(ctx, mentor.Id); err != nil {
		return err
	}
	c.audit(actor, entity.AuditDelete, "mentor", mentor.Id, mentor.Username)
	return nil
}

func (c *Core) MentorGroups(ctx context.Context, mentorID int64) ([]*entity.Group, error) {
	return c.db.MentorGroups(ctx, mentorID)
}

// AssignMentorGroup attaches a mentor to a group of their discipline.
func (c *Core) AssignMentorGroup(ctx context.Context, actor *entity.Mentor, username string, groupID int64) error {
	mentor, err := c.MentorByUsername(ctx, actor, username)
	if err != nil {
		return err
	}
	group, err := c.db.GroupByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group == nil {
		return fmt.Errorf("нет такой группы: %w", ErrNotFound)
	}
	if mentor.AccessLevel.Scoped() && mentor.DisciplineID != group.DisciplineID {
		return fmt.Errorf("группа %q не относится к предмету наставника: %w", group.Name, ErrValidation)
	}
	if err = c.db.AddMentorToGroup(ctx, mentor.Id, group.Id); err != nil {
		return err
	}
	c.audit(actor, entity.AuditUpdate, "mentor", mentor.Id,
		fmt.Sprintf("add group=%d", group.Id))
	return nil
}

func (c *Core) UnassignMentorGroup(ctx context.Context, actor *entity.Mentor, username string, groupID int64) error {
	mentor, err := c.MentorByUsername(ctx, actor, username)
	if err != nil {
		return err
	}
	if err = c.db.RemoveMentorFromGroup(ctx, mentor.Id, groupID); err != nil {
		return err
	}
	c.audit(actor, entity.AuditUpdate, "mentor", mentor.Id,
		fmt.Sprintf("remove group=%d", groupID))
	return nil
}

// mentorDiscipline validates the discipline choice for scoped levels;
// unscoped levels never carry a discipline.
func (c *Core) mentorDiscipline(ctx context.Context, form *entity.MentorForm) (int64, error) {
	if !form.AccessLevel.Scoped() {
		return 0, nil
	}
	if form.Discipline == 0 {
		return 0, fmt.Errorf("укажите предмет для наставника: %w", ErrValidation)
	}
	discipline, err := c.db.DisciplineByID(ctx, form.Discipline)
	if err != nil {
		return 0, err
	}
	if discipline == nil {
		return 0, fmt.Errorf("предмет не найден: %w", ErrValidation)
	}
	return discipline.Id, nil
}
