package core

import (
	"context"
	"errors"
	"testing"

	"bonuspoint/entity"
)

func seedMentor(t *testing.T, c *Core, actor *entity.Mentor, username string, level entity.AccessLevel, discipline int64) *entity.Mentor {
	t.Helper()
	mentor, err := c.CreateMentor(context.Background(), actor, &entity.MentorForm{
		Username:    username,
		Password:    "secret-pass",
		Password2:   "secret-pass",
		FirstName:   "Тест",
		LastName:    "Тестов",
		AccessLevel: level,
		Discipline:  discipline,
	})
	if err != nil {
		t.Fatalf("seed mentor %s: %v", username, err)
	}
	return mentor
}

func TestCreateMentorCannotReachOwnLevel(t *testing.T) {
	c, store, _ := newTestCore(t)
	admin := &entity.Mentor{Id: 1, Username: "admin", AccessLevel: entity.AccessAdmin}
	store.mentors[admin.Id] = admin

	_, err := c.CreateMentor(context.Background(), admin, &entity.MentorForm{
		Username:    "peer",
		Password:    "secret-pass",
		FirstName:   "П",
		LastName:    "П",
		AccessLevel: entity.AccessAdmin,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("peer-level create error = %v, want ErrForbidden", err)
	}
}

func TestCreateMentorScopedLevelRequiresDiscipline(t *testing.T) {
	c, _, _ := newTestCore(t)
	_, err := c.CreateMentor(context.Background(), superAdmin(), &entity.MentorForm{
		Username:    "mentor1",
		Password:    "secret-pass",
		FirstName:   "М",
		LastName:    "М",
		AccessLevel: entity.AccessMentor,
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("scoped level without discipline error = %v, want ErrValidation", err)
	}
}

func TestMentorByUsernameHidesSuperiors(t *testing.T) {
	c, store, _ := newTestCore(t)
	ctx := context.Background()
	root := superAdmin()
	store.mentors[root.Id] = root
	admin := seedMentor(t, c, root, "admin", entity.AccessAdmin, 0)
	angel := seedMentor(t, c, root, "angel", entity.AccessAngel, 0)

	// admin sees the angel below them
	if _, err := c.MentorByUsername(ctx, admin, "angel"); err != nil {
		t.Errorf("admin lookup of angel: %v", err)
	}
	// angel cannot see the admin above; reads as not found
	if _, err := c.MentorByUsername(ctx, angel, "admin"); !errors.Is(err, ErrNotFound) {
		t.Errorf("angel lookup of admin error = %v, want ErrNotFound", err)
	}
	// peers are hidden too
	angel2 := seedMentor(t, c, root, "angel2", entity.AccessAngel, 0)
	if _, err := c.MentorByUsername(ctx, angel, angel2.Username); !errors.Is(err, ErrNotFound) {
		t.Errorf("peer lookup error = %v, want ErrNotFound", err)
	}
	// self lookup always works
	if _, err := c.MentorByUsername(ctx, angel, "angel"); err != nil {
		t.Errorf("self lookup: %v", err)
	}
}

func TestUpdateMentorSelfEditKeepsLevelAndDiscipline(t *testing.T) {
	c, store, _ := newTestCore(t)
	ctx := context.Background()
	root := superAdmin()
	store.mentors[root.Id] = root

	discipline := &entity.Discipline{Name: "Информатика"}
	discipline.Id, _ = store.CreateDiscipline(ctx, discipline)
	mentor := seedMentor(t, c, root, "up", entity.AccessUpMentor, discipline.Id)

	updated, err := c.UpdateMentor(ctx, mentor, mentor.Username, &entity.MentorForm{
		Username:    "up",
		FirstName:   "Новое",
		LastName:    "Имя",
		AccessLevel: entity.AccessSuperAdmin,
		Discipline:  0,
	})
	if err != nil {
		t.Fatalf("self update: %v", err)
	}
	if updated.AccessLevel != entity.AccessUpMentor {
		t.Errorf("self edit changed access level to %d", updated.AccessLevel)
	}
	if updated.DisciplineID != discipline.Id {
		t.Errorf("self edit changed discipline to %d", updated.DisciplineID)
	}
	if updated.FirstName != "Новое" {
		t.Errorf("self edit did not apply name")
	}
}

func TestDeleteMentorSelfForbidden(t *testing.T) {
	c, store, _ := newTestCore(t)
	root := superAdmin()
	store.mentors[root.Id] = root

	if err := c.DeleteMentor(context.Background(), root, root.Username); !errors.Is(err, ErrForbidden) {
		t.Errorf("self delete error = %v, want ErrForbidden", err)
	}
}

func TestAssignMentorGroupDisciplineMismatch(t *testing.T) {
	c, store, _ := newTestCore(t)
	ctx := context.Background()
	root := superAdmin()
	store.mentors[root.Id] = root

	disciplineA := &entity.Discipline{Name: "А"}
	disciplineA.Id, _ = store.CreateDiscipline(ctx, disciplineA)
	disciplineB := &entity.Discipline{Name: "Б"}
	disciplineB.Id, _ = store.CreateDiscipline(ctx, disciplineB)

	mentor := seedMentor(t, c, root, "mentorA", entity.AccessMentor, disciplineA.Id)
	group := &entity.Group{Name: "Группа Б", DisciplineID: disciplineB.Id}
	group.Id, _ = store.CreateGroup(ctx, group)

	err := c.AssignMentorGroup(ctx, root, mentor.Username, group.Id)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("cross-discipline assign error = %v, want ErrValidation", err)
	}
}
