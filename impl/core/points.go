package core

import (
	"context"
	"fmt"
	"time"

	"bonuspoint/entity"
)

// TotalPoints recomputes the student's balance from the underlying
// rows on every call. There is no stored balance field, so the value
// can never drift from the records.
func (c *Core) TotalPoints(ctx context.Context, studentID int64) (int, error) {
	discipline, err := c.db.SumDisciplinePoints(ctx, studentID)
	if err != nil {
		return 0, err
	}
	refer, err := c.db.SumReferPoints(ctx, studentID)
	if err != nil {
		return 0, err
	}
	spent, err := c.db.SumOrderCosts(ctx, studentID)
	if err != nil {
		return 0, err
	}
	return discipline + refer - spent, nil
}

// DisciplineRecords lists a student's theme records. Hawks have no
// business with discipline points at all; scoped levels only see
// records belonging to their own discipline's themes.
func (c *Core) DisciplineRecords(ctx context.Context, actor *entity.Mentor, studentID int64, page, perPage int) ([]*entity.DisciplinePointRecord, error) {
	if actor.AccessLevel == entity.AccessHawk {
		return nil, fmt.Errorf("discipline records hidden from hawk: %w", ErrForbidden)
	}
	var disciplineID int64
	if actor.AccessLevel.Scoped() {
		disciplineID = actor.DisciplineID
	}
	return c.db.DisciplineRecords(ctx, studentID, disciplineID, page, perPage)
}

// AddDisciplineRecord writes theme points for a student. Only one
// record per (student, theme) pair may exist; the submitted amount is
// clamped into [1, theme.max_points] with the cap as the fallback.
func (c *Core) AddDisciplineRecord(ctx context.Context, actor *entity.Mentor, studentID int64, form *entity.DisciplineRecordForm) (*entity.DisciplinePointRecord, error) {
	student, err := c.db.StudentByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, ErrNotFound
	}
	theme, err := c.db.ThemeByID(ctx, form.ThemeID)
	if err != nil {
		return nil, err
	}
	if theme == nil {
		return nil, fmt.Errorf("тема не найдена: %w", ErrNotFound)
	}
	if actor.AccessLevel.Scoped() && actor.DisciplineID != theme.DisciplineID {
		return nil, fmt.Errorf("theme %d not in mentor discipline: %w", theme.Id, ErrForbidden)
	}

	exists, err := c.db.DisciplineRecordExists(ctx, studentID, theme.Id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("баллы по теме %q уже начислены: %w", theme.Name, ErrDuplicate)
	}

	amount := form.Amount
	if amount <= 0 || amount > theme.MaxPoints {
		amount = theme.MaxPoints
	}

	record := &entity.DisciplinePointRecord{
		StudentID: studentID,
		ThemeID:   theme.Id,
		MentorID:  actor.Id,
		Amount:    amount,
		Timestamp: time.Now().UTC(),
		ThemeName: theme.Name,
	}
	record.Id, err = c.db.CreateDisciplineRecord(ctx, record)
	if err != nil {
		return nil, err
	}
	c.audit(actor, entity.AuditCreate, "discipline_point_record", record.Id,
		fmt.Sprintf("student=%d theme=%d amount=%d", studentID, theme.Id, amount))
	return record, nil
}

func (c *Core) DeleteDisciplineRecord(ctx context.Context, actor *entity.Mentor, recordID int64) error {
	if err := c.db.DeleteDisciplineRecord(ctx, recordID); err != nil {
		return err
	}
	c.audit(actor, entity.AuditDelete, "discipline_point_record", recordID, "")
	return nil
}

func (c *Core) ReferRecords(ctx context.Context, studentID int64, page, perPage int) ([]*entity.ReferPointRecord, error) {
	return c.db.ReferRecords(ctx, studentID, page, perPage)
}

// AddReferRecord credits referral points. A referred external id may be
// claimed once across the whole program; a second claim is rejected
// with the name of the original claimant.
func (c *Core) AddReferRecord(ctx context.Context, actor *entity.Mentor, studentID int64, form *entity.ReferRecordForm) (*entity.ReferPointRecord, error) {
	student, err := c.db.StudentByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, ErrNotFound
	}
	if form.Amount <= 0 {
		return nil, fmt.Errorf("количество баллов должно быть положительным: %w", ErrValidation)
	}

	claimant, err := c.db.ReferClaimant(ctx, form.ReferVkID)
	if err != nil {
		return nil, err
	}
	if claimant != nil {
		return nil, fmt.Errorf("id %d уже засчитан студенту %s: %w",
			form.ReferVkID, claimant.FullName(), ErrDuplicate)
	}

	record := &entity.ReferPointRecord{
		StudentID: studentID,
		ReferVkID: form.ReferVkID,
		MentorID:  actor.Id,
		Amount:    form.Amount,
		Timestamp: time.Now().UTC(),
	}
	record.Id, err = c.db.CreateReferRecord(ctx, record)
	if err != nil {
		return nil, err
	}
	c.audit(actor, entity.AuditCreate, "refer_point_record", record.Id,
		fmt.Sprintf("student=%d refer=%d amount=%d", studentID, form.ReferVkID, form.Amount))
	return record, nil
}

func (c *Core) DeleteReferRecord(ctx context.Context, actor *entity.Mentor, recordID int64) error {
	if err := c.db.DeleteReferRecord(ctx, recordID); err != nil {
		return err
	}
	c.audit(actor, entity.AuditDelete, "refer_point_record", recordID, "")
	return nil
}
