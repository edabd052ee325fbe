package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"bonuspoint/entity"
	"bonuspoint/internal/vk"
)

// memStore is an in-memory Store for core tests. Lookups mirror the
// real client: a missing row is (nil, nil), never an error.
type memStore struct {
	nextID            int64
	mentors           map[int64]*entity.Mentor
	students          map[int64]*entity.Student
	groups            map[int64]*entity.Group
	disciplines       map[int64]*entity.Discipline
	themes            map[int64]*entity.Theme
	disciplineRecords map[int64]*entity.DisciplinePointRecord
	referRecords      map[int64]*entity.ReferPointRecord
	orders            map[int64]*entity.Order
	orderRecords      map[int64]*entity.OrderRecord
	communities       map[int64]*entity.Community
	mentorGroups      map[int64][]int64
	studentGroups     map[int64][]int64
}

func newMemStore() *memStore {
	return &memStore{
		mentors:           make(map[int64]*entity.Mentor),
		students:          make(map[int64]*entity.Student),
		groups:            make(map[int64]*entity.Group),
		disciplines:       make(map[int64]*entity.Discipline),
		themes:            make(map[int64]*entity.Theme),
		disciplineRecords: make(map[int64]*entity.DisciplinePointRecord),
		referRecords:      make(map[int64]*entity.ReferPointRecord),
		orders:            make(map[int64]*entity.Order),
		orderRecords:      make(map[int64]*entity.OrderRecord),
		communities:       make(map[int64]*entity.Community),
		mentorGroups:      make(map[int64][]int64),
		studentGroups:     make(map[int64][]int64),
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) MentorByUsername(_ context.Context, username string) (*entity.Mentor, error) {
	for _, m := range s.mentors {
		if m.Username == username {
			return m, nil
		}
	}
	return nil, nil
}

func (s *memStore) MentorByID(_ context.Context, id int64) (*entity.Mentor, error) {
	return s.mentors[id], nil
}

func (s *memStore) Mentors(_ context.Context, maxLevel entity.AccessLevel, _, _ int) ([]*entity.Mentor, error) {
	var out []*entity.Mentor
	for _, m := range s.mentors {
		if m.AccessLevel < maxLevel {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memStore) CreateMentor(_ context.Context, m *entity.Mentor) (int64, error) {
	m.Id = s.id()
	s.mentors[m.Id] = m
	return m.Id, nil
}

func (s *memStore) UpdateMentor(_ context.Context, m *entity.Mentor) error {
	s.mentors[m.Id] = m
	return nil
}

func (s *memStore) DeleteMentor(_ context.Context, id int64) error {
	delete(s.mentors, id)
	return nil
}

func (s *memStore) MentorGroups(_ context.Context, mentorID int64) ([]*entity.Group, error) {
	var out []*entity.Group
	for _, gid := range s.mentorGroups[mentorID] {
		if g, ok := s.groups[gid]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *memStore) MentorInGroup(_ context.Context, mentorID, groupID int64) (bool, error) {
	for _, gid := range s.mentorGroups[mentorID] {
		if gid == groupID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) AddMentorToGroup(_ context.Context, mentorID, groupID int64) error {
	s.mentorGroups[mentorID] = append(s.mentorGroups[mentorID], groupID)
	return nil
}

func (s *memStore) RemoveMentorFromGroup(_ context.Context, mentorID, groupID int64) error {
	out := s.mentorGroups[mentorID][:0]
	for _, gid := range s.mentorGroups[mentorID] {
		if gid != groupID {
			out = append(out, gid)
		}
	}
	s.mentorGroups[mentorID] = out
	return nil
}

func (s *memStore) StudentByID(_ context.Context, id int64) (*entity.Student, error) {
	return s.students[id], nil
}

func (s *memStore) StudentByVkID(_ context.Context, vkID int64) (*entity.Student, error) {
	for _, st := range s.students {
		if st.VkID == vkID {
			return st, nil
		}
	}
	return nil, nil
}

func (s *memStore) Students(_ context.Context, filter entity.StudentFilter, _, _ int) ([]*entity.Student, error) {
	var out []*entity.Student
	for _, st := range s.students {
		if filter.VkID != 0 && st.VkID != filter.VkID {
			continue
		}
		if filter.LastName != "" && !strings.Contains(st.LastName, filter.LastName) {
			continue
		}
		if filter.FirstName != "" && !strings.Contains(st.FirstName, filter.FirstName) {
			continue
		}
		out = append(out, st)
	}
	return out, nil
}

func (s *memStore) CreateStudent(_ context.Context, st *entity.Student) (int64, error) {
	st.Id = s.id()
	s.students[st.Id] = st
	return st.Id, nil
}

func (s *memStore) UpdateStudent(_ context.Context, st *entity.Student) error {
	s.students[st.Id] = st
	return nil
}

func (s *memStore) DeleteStudent(_ context.Context, id int64) error {
	delete(s.students, id)
	return nil
}

func (s *memStore) StudentGroups(_ context.Context, studentID int64) ([]*entity.Group, error) {
	var out []*entity.Group
	for _, gid := range s.studentGroups[studentID] {
		if g, ok := s.groups[gid]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *memStore) StudentInGroup(_ context.Context, studentID, groupID int64) (bool, error) {
	for _, gid := range s.studentGroups[studentID] {
		if gid == groupID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) AddStudentToGroup(_ context.Context, studentID, groupID int64) error {
	s.studentGroups[studentID] = append(s.studentGroups[studentID], groupID)
	return nil
}

func (s *memStore) RemoveStudentFromGroup(_ context.Context, studentID, groupID int64) error {
	out := s.studentGroups[studentID][:0]
	for _, gid := range s.studentGroups[studentID] {
		if gid != groupID {
			out = append(out, gid)
		}
	}
	s.studentGroups[studentID] = out
	return nil
}

func (s *memStore) GroupByID(_ context.Context, id int64) (*entity.Group, error) {
	return s.groups[id], nil
}

func (s *memStore) GroupByName(_ context.Context, name string) (*entity.Group, error) {
	for _, g := range s.groups {
		if g.Name == name {
			return g, nil
		}
	}
	return nil, nil
}

func (s *memStore) Groups(_ context.Context, disciplineID int64, _, _ int) ([]*entity.Group, error) {
	var out []*entity.Group
	for _, g := range s.groups {
		if disciplineID != 0 && g.DisciplineID != disciplineID {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (s *memStore) CreateGroup(_ context.Context, g *entity.Group) (int64, error) {
	g.Id = s.id()
	s.groups[g.Id] = g
	return g.Id, nil
}

func (s *memStore) UpdateGroup(_ context.Context, g *entity.Group) error {
	s.groups[g.Id] = g
	return nil
}

func (s *memStore) DeleteGroup(_ context.Context, id int64) error {
	delete(s.groups, id)
	return nil
}

func (s *memStore) GroupStudents(_ context.Context, groupID int64) ([]*entity.Student, error) {
	var out []*entity.Student
	for sid, gids := range s.studentGroups {
		for _, gid := range gids {
			if gid == groupID {
				out = append(out, s.students[sid])
			}
		}
	}
	return out, nil
}

func (s *memStore) DisciplineByID(_ context.Context, id int64) (*entity.Discipline, error) {
	return s.disciplines[id], nil
}

func (s *memStore) DisciplineByName(_ context.Context, name string) (*entity.Discipline, error) {
	for _, d := range s.disciplines {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, nil
}

func (s *memStore) Disciplines(_ context.Context) ([]*entity.Discipline, error) {
	var out []*entity.Discipline
	for _, d := range s.disciplines {
		out = append(out, d)
	}
	return out, nil
}

func (s *memStore) CreateDiscipline(_ context.Context, d *entity.Discipline) (int64, error) {
	d.Id = s.id()
	s.disciplines[d.Id] = d
	return d.Id, nil
}

func (s *memStore) DeleteDiscipline(_ context.Context, id int64) error {
	delete(s.disciplines, id)
	return nil
}

func (s *memStore) CountThemes(_ context.Context, disciplineID int64) (int, error) {
	count := 0
	for _, theme := range s.themes {
		if theme.DisciplineID == disciplineID {
			count++
		}
	}
	return count, nil
}

func (s *memStore) ThemeByID(_ context.Context, id int64) (*entity.Theme, error) {
	return s.themes[id], nil
}

func (s *memStore) ThemeByName(_ context.Context, disciplineID int64, name string) (*entity.Theme, error) {
	for _, theme := range s.themes {
		if theme.DisciplineID == disciplineID && theme.Name == name {
			return theme, nil
		}
	}
	return nil, nil
}

func (s *memStore) ThemesByDiscipline(_ context.Context, disciplineID int64) ([]*entity.Theme, error) {
	var out []*entity.Theme
	for _, theme := range s.themes {
		if theme.DisciplineID == disciplineID {
			out = append(out, theme)
		}
	}
	return out, nil
}

func (s *memStore) CreateTheme(_ context.Context, theme *entity.Theme) (int64, error) {
	theme.Id = s.id()
	s.themes[theme.Id] = theme
	return theme.Id, nil
}

func (s *memStore) DeleteTheme(_ context.Context, id int64) error {
	delete(s.themes, id)
	return nil
}

func (s *memStore) DisciplineRecordExists(_ context.Context, studentID, themeID int64) (bool, error) {
	for _, r := range s.disciplineRecords {
		if r.StudentID == studentID && r.ThemeID == themeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) DisciplineRecords(_ context.Context, studentID, disciplineID int64, _, _ int) ([]*entity.DisciplinePointRecord, error) {
	var out []*entity.DisciplinePointRecord
	for _, r := range s.disciplineRecords {
		if r.StudentID != studentID {
			continue
		}
		if disciplineID != 0 {
			theme, ok := s.themes[r.ThemeID]
			if !ok || theme.DisciplineID != disciplineID {
				continue
			}
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *memStore) CreateDisciplineRecord(_ context.Context, r *entity.DisciplinePointRecord) (int64, error) {
	r.Id = s.id()
	s.disciplineRecords[r.Id] = r
	return r.Id, nil
}

func (s *memStore) DeleteDisciplineRecord(_ context.Context, id int64) error {
	delete(s.disciplineRecords, id)
	return nil
}

func (s *memStore) ReferClaimant(_ context.Context, referVkID int64) (*entity.Student, error) {
	for _, r := range s.referRecords {
		if r.ReferVkID == referVkID {
			return s.students[r.StudentID], nil
		}
	}
	return nil, nil
}

func (s *memStore) ReferRecords(_ context.Context, studentID int64, _, _ int) ([]*entity.ReferPointRecord, error) {
	var out []*entity.ReferPointRecord
	for _, r := range s.referRecords {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) CreateReferRecord(_ context.Context, r *entity.ReferPointRecord) (int64, error) {
	r.Id = s.id()
	s.referRecords[r.Id] = r
	return r.Id, nil
}

func (s *memStore) DeleteReferRecord(_ context.Context, id int64) error {
	delete(s.referRecords, id)
	return nil
}

func (s *memStore) SumDisciplinePoints(_ context.Context, studentID int64) (int, error) {
	sum := 0
	for _, r := range s.disciplineRecords {
		if r.StudentID == studentID {
			sum += r.Amount
		}
	}
	return sum, nil
}

func (s *memStore) SumReferPoints(_ context.Context, studentID int64) (int, error) {
	sum := 0
	for _, r := range s.referRecords {
		if r.StudentID == studentID {
			sum += r.Amount
		}
	}
	return sum, nil
}

func (s *memStore) SumOrderCosts(_ context.Context, studentID int64) (int, error) {
	sum := 0
	for _, r := range s.orderRecords {
		if r.StudentID == studentID {
			sum += r.Cost
		}
	}
	return sum, nil
}

func (s *memStore) OrderByID(_ context.Context, id int64) (*entity.Order, error) {
	return s.orders[id], nil
}

func (s *memStore) OrderByName(_ context.Context, name string) (*entity.Order, error) {
	for _, o := range s.orders {
		if o.Name == name {
			return o, nil
		}
	}
	return nil, nil
}

func (s *memStore) Orders(_ context.Context, _, _ int) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range s.orders {
		out = append(out, o)
	}
	return out, nil
}

func (s *memStore) CreateOrder(_ context.Context, o *entity.Order) (int64, error) {
	o.Id = s.id()
	s.orders[o.Id] = o
	return o.Id, nil
}

func (s *memStore) UpdateOrder(_ context.Context, o *entity.Order) error {
	s.orders[o.Id] = o
	return nil
}

func (s *memStore) DeleteOrder(_ context.Context, id int64) error {
	delete(s.orders, id)
	return nil
}

func (s *memStore) CountOrderRecords(_ context.Context, orderID int64) (int, error) {
	count := 0
	for _, r := range s.orderRecords {
		if r.OrderID == orderID {
			count++
		}
	}
	return count, nil
}

func (s *memStore) OrderRecordByID(_ context.Context, id int64) (*entity.OrderRecord, error) {
	return s.orderRecords[id], nil
}

func (s *memStore) OrderRecords(_ context.Context, studentID int64, _, _ int) ([]*entity.OrderRecord, error) {
	var out []*entity.OrderRecord
	for _, r := range s.orderRecords {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) CreateOrderRecord(_ context.Context, r *entity.OrderRecord) (int64, error) {
	r.Id = s.id()
	s.orderRecords[r.Id] = r
	return r.Id, nil
}

func (s *memStore) UpdateOrderRecordStatus(_ context.Context, id int64, status entity.OrderStatus) error {
	record, ok := s.orderRecords[id]
	if !ok {
		return fmt.Errorf("no record %d", id)
	}
	record.Status = status
	return nil
}

func (s *memStore) DeleteOrderRecord(_ context.Context, id int64) error {
	delete(s.orderRecords, id)
	return nil
}

func (s *memStore) CommunityByID(_ context.Context, id int64) (*entity.Community, error) {
	return s.communities[id], nil
}

func (s *memStore) CommunityByVkID(_ context.Context, vkID int64) (*entity.Community, error) {
	for _, c := range s.communities {
		if c.VkID == vkID {
			return c, nil
		}
	}
	return nil, nil
}

func (s *memStore) Communities(_ context.Context) ([]*entity.Community, error) {
	var out []*entity.Community
	for _, c := range s.communities {
		out = append(out, c)
	}
	return out, nil
}

func (s *memStore) CreateCommunity(_ context.Context, c *entity.Community) (int64, error) {
	c.Id = s.id()
	s.communities[c.Id] = c
	return c.Id, nil
}

func (s *memStore) UpdateCommunityMessage(_ context.Context, id int64, message string) error {
	community, ok := s.communities[id]
	if !ok {
		return fmt.Errorf("no community %d", id)
	}
	community.Message = message
	return nil
}

func (s *memStore) DeleteCommunity(_ context.Context, id int64) error {
	delete(s.communities, id)
	return nil
}

// fakeVk records outbound platform calls.
type fakeVk struct {
	profiles     []vk.Profile
	sentPeers    []int64
	sentMessages []string
}

func (f *fakeVk) SendMessage(_ context.Context, _ string, peerID int64, message string) error {
	f.sentPeers = append(f.sentPeers, peerID)
	f.sentMessages = append(f.sentMessages, message)
	return nil
}

func (f *fakeVk) UsersGet(_ context.Context, _ []int64) ([]vk.Profile, error) {
	return f.profiles, nil
}

func (f *fakeVk) GetCallbackConfirmationCode(_ context.Context, _ string, _ int64) (string, error) {
	return "confirm-code", nil
}

func (f *fakeVk) AddCallbackServer(_ context.Context, _ string, _ int64, _, _, _ string) (int64, error) {
	return 7, nil
}

func (f *fakeVk) SetCallbackSettings(_ context.Context, _ string, _, _ int64) error {
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestCore(t *testing.T) (*Core, *memStore, *fakeVk) {
	t.Helper()
	store := newMemStore()
	vkClient := &fakeVk{}
	return New(store, vkClient, "https://bonuspoint.example/communities/bot", testLogger()), store, vkClient
}

func superAdmin() *entity.Mentor {
	return &entity.Mentor{Id: 9000, Username: "root", AccessLevel: entity.AccessSuperAdmin}
}
