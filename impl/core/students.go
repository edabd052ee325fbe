package core

import (
	"context"
	"fmt"

	"bonuspoint/entity"
)

func (c *Core) StudentByID(ctx context.Context, id int64) (*entity.Student, error) {
	student, err := c.db.StudentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, ErrNotFound
	}
	return student, nil
}

func (c *Core) Students(ctx context.Context, filter entity.StudentFilter, page, perPage int) ([]*entity.Student, error) {
	return c.db.Students(ctx, filter, page, perPage)
}

func (c *Core) CreateStudent(ctx context.Context, actor *entity.Mentor, form *entity.StudentForm) (*entity.Student, error) {
	existing, err := c.db.StudentByVkID(ctx, form.VkID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("id %d уже зарегистрирован в системе: %w", form.VkID, ErrDuplicate)
	}

	student := &entity.Student{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		VkID:      form.VkID,
	}
	student.Id, err = c.db.CreateStudent(ctx, student)
	if err != nil {
		return nil, err
	}
	c.audit(actor, entity.AuditCreate, "student", student.Id, student.FullName())
	return student, nil
}

func (c *Core) UpdateStudent(ctx context.Context, actor *entity.Mentor, id int64, form *entity.StudentForm) (*entity.Student, error) {
	student, err := c.StudentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if form.VkID != student.VkID {
		existing, err := c.db.StudentByVkID(ctx, form.VkID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("id %d уже зарегистрирован в системе: %w", form.VkID, ErrDuplicate)
		}
	}

	student.FirstName = form.FirstName
	student.LastName = form.LastName
	student.VkID = form.VkID
	if err = c.db.UpdateStudent(ctx, student); err != nil {
		return nil, err
	}
	c.audit(actor, entity.AuditUpdate, "student", student.Id, student.FullName())
	return student, nil
}

func (c *Core) DeleteStudent(ctx context.Context, actor *entity.Mentor, id int64) error {
	if err := c.db.DeleteStudent(ctx, id); err != nil {
		return err
	}
	c.audit(actor, entity.AuditDelete, "student", id, "")
	return nil
}

// MultipleAdd imports a batch of students by external id, resolving
// profile names through the messaging platform. Already registered ids
// are reported back, not treated as a failure.
func (c *Core) MultipleAdd(ctx context.Context, actor *entity.Mentor, vkIDs []int64) (added []*entity.Student, skipped []int64, err error) {
	if c.vk == nil {
		return nil, nil, fmt.Errorf("vk service not connected")
	}
	profiles, err := c.vk.UsersGet(ctx, vkIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("проверьте правильность id: %w", ErrValidation)
	}

	for _, profile := range profiles {
		existing, err := c.db.StudentByVkID(ctx, profile.ID)
		if err != nil {
			return nil, nil, err
		}
		if existing != nil {
			skipped = append(skipped, profile.ID)
			continue
		}
		student := &entity.Student{
			FirstName: profile.FirstName,
			LastName:  profile.LastName,
			VkID:      profile.ID,
		}
		student.Id, err = c.db.CreateStudent(ctx, student)
		if err != nil {
			return nil, nil, err
		}
		c.audit(actor, entity.AuditCreate, "student", student.Id, student.FullName())
		added = append(added, student)
	}
	return added, skipped, nil
}

func (c *Core) StudentGroups(ctx context.Context, studentID int64) ([]*entity.Group, error) {
	return c.db.StudentGroups(ctx, studentID)
}

func (c *Core) AddStudentGroup(ctx context.Context, actor *entity.Mentor, studentID, groupID int64) error {
	student, err := c.StudentByID(ctx, studentID)
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
	if err = c.db.AddStudentToGroup(ctx, student.Id, group.Id); err != nil {
		return err
	}
	c.audit(actor, entity.AuditUpdate, "student", student.Id,
		fmt.Sprintf("add group=%d", group.Id))
	return nil
}

func (c *Core) RemoveStudentGroup(ctx context.Context, actor *entity.Mentor, studentID, groupID int64) error {
	if err := c.db.RemoveStudentFromGroup(ctx, studentID, groupID); err != nil {
		return err
	}
	c.audit(actor, entity.AuditUpdate, "student", studentID,
		fmt.Sprintf("remove group=%d", groupID))
	return nil
}
