package core

import (
	"context"
	"errors"
	"testing"

	"bonuspoint/entity"
)

func seedScopeFixture(t *testing.T, store *memStore) (own, foreign *entity.Group, mentor, upMentor *entity.Mentor) {
	t.Helper()
	ctx := context.Background()

	disciplineA := &entity.Discipline{Name: "Предмет А"}
	disciplineA.Id, _ = store.CreateDiscipline(ctx, disciplineA)
	disciplineB := &entity.Discipline{Name: "Предмет Б"}
	disciplineB.Id, _ = store.CreateDiscipline(ctx, disciplineB)

	own = &entity.Group{Name: "Своя", DisciplineID: disciplineA.Id}
	own.Id, _ = store.CreateGroup(ctx, own)
	foreign = &entity.Group{Name: "Чужая", DisciplineID: disciplineB.Id}
	foreign.Id, _ = store.CreateGroup(ctx, foreign)

	mentor = &entity.Mentor{Id: 10, Username: "mentor", AccessLevel: entity.AccessMentor, DisciplineID: disciplineA.Id}
	store.mentors[mentor.Id] = mentor
	_ = store.AddMentorToGroup(ctx, mentor.Id, own.Id)

	upMentor = &entity.Mentor{Id: 11, Username: "up", AccessLevel: entity.AccessUpMentor, DisciplineID: disciplineA.Id}
	store.mentors[upMentor.Id] = upMentor
	return own, foreign, mentor, upMentor
}

func TestGroupByIDScope(t *testing.T) {
	c, store, _ := newTestCore(t)
	ctx := context.Background()
	own, foreign, mentor, upMentor := seedScopeFixture(t, store)

	if _, err := c.GroupByID(ctx, mentor, own.Id); err != nil {
		t.Errorf("mentor own group: %v", err)
	}
	if _, err := c.GroupByID(ctx, mentor, foreign.Id); !errors.Is(err, ErrForbidden) {
		t.Errorf("mentor foreign group error = %v, want ErrForbidden", err)
	}
	if _, err := c.GroupByID(ctx, upMentor, foreign.Id); !errors.Is(err, ErrForbidden) {
		t.Errorf("up mentor foreign discipline error = %v, want ErrForbidden", err)
	}
	if _, err := c.GroupByID(ctx, superAdmin(), foreign.Id); err != nil {
		t.Errorf("super admin any group: %v", err)
	}
}

func TestMentorOutsideOwnGroupsOfSameDiscipline(t *testing.T) {
	c, store, _ := newTestCore(t)
	ctx := context.Background()
	own, _, mentor, _ := seedScopeFixture(t, store)

	// a second group of the mentor's discipline they are not assigned to
	other := &entity.Group{Name: "Параллель", DisciplineID: own.DisciplineID}
	other.Id, _ = store.CreateGroup(ctx, other)

	if _, err := c.GroupByID(ctx, mentor, other.Id); !errors.Is(err, ErrForbidden) {
		t.Errorf("unassigned group error = %v, want ErrForbidden", err)
	}
}

func TestGroupsListingByRole(t *testing.T) {
	c, store, _ := newTestCore(t)
	ctx := context.Background()
	_, _, mentor, upMentor := seedScopeFixture(t, store)

	mentorGroups, err := c.Groups(ctx, mentor, 1, 10)
	if err != nil {
		t.Fatalf("mentor groups: %v", err)
	}
	if len(mentorGroups) != 1 {
		t.Errorf("mentor sees %d groups, want 1", len(mentorGroups))
	}

	upGroups, err := c.Groups(ctx, upMentor, 1, 10)
	if err != nil {
		t.Fatalf("up mentor groups: %v", err)
	}
	if len(upGroups) != 1 {
		t.Errorf("up mentor sees %d groups, want 1 (own discipline)", len(upGroups))
	}

	allGroups, err := c.Groups(ctx, superAdmin(), 1, 10)
	if err != nil {
		t.Fatalf("super admin groups: %v", err)
	}
	if len(allGroups) != 2 {
		t.Errorf("super admin sees %d groups, want 2", len(allGroups))
	}
}

func TestCreateGroupValidatesDiscipline(t *testing.T) {
	c, _, _ := newTestCore(t)
	_, err := c.CreateGroup(context.Background(), superAdmin(), &entity.GroupForm{
		Name:       "Без предмета",
		Discipline: 404,
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("missing discipline error = %v, want ErrValidation", err)
	}
}
