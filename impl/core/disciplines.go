package core

import (
	"context"
	"fmt"

	"bonuspoint/entity"
)

func (c *Core) Disciplines(ctx context.Context) ([]*entity.Discipline, error) {
	return c.db.Disciplines(ctx)
}

func (c *Core) DisciplineByID(ctx context.Context, id int64) (*entity.Discipline, error) {
	discipline, err := c.db.DisciplineByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if discipline == nil {
		return nil, ErrNotFound
	}
	return discipline, nil
}

func (c *Core) CreateDiscipline(ctx context.Context, actor *entity.Mentor, form *entity.DisciplineForm) (*entity.Discipline, error) {
	existing, err := c.db.DisciplineByName(ctx, form.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("предмет %q уже существует: %w", form.Name, ErrDuplicate)
	}

	discipline := &entity.Discipline{Name: form.Name}
	discipline.Id, err = c.db.CreateDiscipline(ctx, discipline)
	if err != nil {
		return nil, err
	}
	c.audit(actor, entity.AuditCreate, "discipline", discipline.Id, discipline.Name)
	return discipline, nil
}

// DisciplineHasDependents is the explicit removal precondition: a
// discipline that still owns themes cannot be deleted.
func (c *Core) DisciplineHasDependents(ctx context.Context, id int64) (bool, error) {
	count, err := c.db.CountThemes(ctx, id)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (c *Core) DeleteDiscipline(ctx context.Context, actor *entity.Mentor, id int64) error {
	discipline, err := c.DisciplineByID(ctx, id)
	if err != nil {
		return err
	}
	dependents, err := c.DisciplineHasDependents(ctx, discipline.Id)
	if err != nil {
		return err
	}
	if dependents {
		return fmt.Errorf("удаление заблокировано пока у предмета существуют темы: %w", ErrHasDependents)
	}
	if err = c.db.DeleteDiscipline(ctx, discipline.Id); err != nil {
		return err
	}
	c.audit(actor, entity.AuditDelete, "discipline", discipline.Id, discipline.Name)
	return nil
}

func (c *Core) Themes(ctx context.Context, disciplineID int64) ([]*entity.Theme, error) {
	return c.db.ThemesByDiscipline(ctx, disciplineID)
}

func (c *Core) CreateTheme(ctx context.Context, actor *entity.Mentor, disciplineID int64, form *entity.ThemeForm) (*entity.Theme, error) {
	discipline, err := c.DisciplineByID(ctx, disciplineID)
	if err != nil {
		return nil, err
	}
	existing, err := c.db.ThemeByName(ctx, discipline.Id, form.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("в этом предмете уже есть тема %q: %w", form.Name, ErrDuplicate)
	}

	theme := &entity.Theme{
		Name:         form.Name,
		MaxPoints:    form.MaxPoints,
		DisciplineID: discipline.Id,
	}
	theme.Id, err = c.db.CreateTheme(ctx, theme)
	if err != nil {
		return nil, err
	}
	c.audit(actor, entity.AuditCreate, "theme", theme.Id, theme.Name)
	return theme, nil
}

func (c *Core) DeleteTheme(ctx context.Context, actor *entity.Mentor, id int64) error {
	if err := c.db.DeleteTheme(ctx, id); err != nil {
		return err
	}
	c.audit(actor, entity.AuditDelete, "theme", id, "")
	return nil
}
