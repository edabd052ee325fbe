package core

import (
	"context"
	"errors"
	"testing"

	"bonuspoint/entity"
)

func TestDeleteDisciplineBlockedWhileThemesExist(t *testing.T) {
	c, store, _ := newTestCore(t)
	ctx := context.Background()
	actor := superAdmin()

	discipline, err := c.CreateDiscipline(ctx, actor, &entity.DisciplineForm{Name: "Биология"})
	if err != nil {
		t.Fatalf("create discipline: %v", err)
	}
	theme, err := c.CreateTheme(ctx, actor, discipline.Id, &entity.ThemeForm{Name: "Клетка", MaxPoints: 25})
	if err != nil {
		t.Fatalf("create theme: %v", err)
	}

	if err = c.DeleteDiscipline(ctx, actor, discipline.Id); !errors.Is(err, ErrHasDependents) {
		t.Fatalf("delete with themes error = %v, want ErrHasDependents", err)
	}
	if _, ok := store.disciplines[discipline.Id]; !ok {
		t.Fatal("discipline was removed despite existing themes")
	}

	if err = c.DeleteTheme(ctx, actor, theme.Id); err != nil {
		t.Fatalf("delete theme: %v", err)
	}
	if err = c.DeleteDiscipline(ctx, actor, discipline.Id); err != nil {
		t.Errorf("delete after clearing themes: %v", err)
	}
}

func TestCreateThemeRejectsDuplicateNameWithinDiscipline(t *testing.T) {
	c, _, _ := newTestCore(t)
	ctx := context.Background()
	actor := superAdmin()

	discipline, err := c.CreateDiscipline(ctx, actor, &entity.DisciplineForm{Name: "География"})
	if err != nil {
		t.Fatalf("create discipline: %v", err)
	}
	form := &entity.ThemeForm{Name: "Реки", MaxPoints: 15}
	if _, err = c.CreateTheme(ctx, actor, discipline.Id, form); err != nil {
		t.Fatalf("first theme: %v", err)
	}
	if _, err = c.CreateTheme(ctx, actor, discipline.Id, form); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate theme error = %v, want ErrDuplicate", err)
	}

	// same name under another discipline is fine
	other, err := c.CreateDiscipline(ctx, actor, &entity.DisciplineForm{Name: "Экономика"})
	if err != nil {
		t.Fatalf("create second discipline: %v", err)
	}
	if _, err = c.CreateTheme(ctx, actor, other.Id, form); err != nil {
		t.Errorf("same theme name in another discipline: %v", err)
	}
}

func TestCreateDisciplineRejectsDuplicateName(t *testing.T) {
	c, _, _ := newTestCore(t)
	ctx := context.Background()
	actor := superAdmin()

	if _, err := c.CreateDiscipline(ctx, actor, &entity.DisciplineForm{Name: "Право"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := c.CreateDiscipline(ctx, actor, &entity.DisciplineForm{Name: "Право"}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate create error = %v, want ErrDuplicate", err)
	}
}
