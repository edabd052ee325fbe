// Package core implements the business rules of the points program:
// the role/scope access model, the derived points ledger, record
// mutation rules and the community webhook bridge.
package core

import (
	"context"
	"log/slog"

	"bonuspoint/entity"
	"bonuspoint/internal/vk"
	"bonuspoint/lib/sl"
)

// Store is the relational persistence the core depends on.
// Implemented by internal/database.MySql.
type Store interface {
	// mentors
	MentorByUsername(ctx context.Context, username string) (*entity.Mentor, error)
	MentorByID(ctx context.Context, id int64) (*entity.Mentor, error)
	Mentors(ctx context.Context, maxLevel entity.AccessLevel, page, perPage int) ([]*entity.Mentor, error)
	CreateMentor(ctx context.Context, m *entity.Mentor) (int64, error)
	UpdateMentor(ctx context.Context, m *entity.Mentor) error
	DeleteMentor(ctx context.Context, id int64) error
	MentorGroups(ctx context.Context, mentorID int64) ([]*entity.Group, error)
	MentorInGroup(ctx context.Context, mentorID, groupID int64) (bool, error)
	AddMentorToGroup(ctx context.Context, mentorID, groupID int64) error
	RemoveMentorFromGroup(ctx context.Context, mentorID, groupID int64) error

	// students
	StudentByID(ctx context.Context, id int64) (*entity.Student, error)
	StudentByVkID(ctx context.Context, vkID int64) (*entity.Student, error)
	Students(ctx context.Context, filter entity.StudentFilter, page, perPage int) ([]*entity.Student, error)
	CreateStudent(ctx context.Context, st *entity.Student) (int64, error)
	UpdateStudent(ctx context.Context, st *entity.Student) error
	DeleteStudent(ctx context.Context, id int64) error
	StudentGroups(ctx context.Context, studentID int64) ([]*entity.Group, error)
	StudentInGroup(ctx context.Context, studentID, groupID int64) (bool, error)
	AddStudentToGroup(ctx context.Context, studentID, groupID int64) error
	RemoveStudentFromGroup(ctx context.Context, studentID, groupID int64) error

	// groups
	GroupByID(ctx context.Context, id int64) (*entity.Group, error)
	GroupByName(ctx context.Context, name string) (*entity.Group, error)
	Groups(ctx context.Context, disciplineID int64, page, perPage int) ([]*entity.Group, error)
	CreateGroup(ctx context.Context, g *entity.Group) (int64, error)
	UpdateGroup(ctx context.Context, g *entity.Group) error
	DeleteGroup(ctx context.Context, id int64) error
	GroupStudents(ctx context.Context, groupID int64) ([]*entity.Student, error)

	// disciplines and themes
	DisciplineByID(ctx context.Context, id int64) (*entity.Discipline, error)
	DisciplineByName(ctx context.Context, name string) (*entity.Discipline, error)
	Disciplines(ctx context.Context) ([]*entity.Discipline, error)
	CreateDiscipline(ctx context.Context, d *entity.Discipline) (int64, error)
	DeleteDiscipline(ctx context.Context, id int64) error
	CountThemes(ctx context.Context, disciplineID int64) (int, error)
	ThemeByID(ctx context.Context, id int64) (*entity.Theme, error)
	ThemeByName(ctx context.Context, disciplineID int64, name string) (*entity.Theme, error)
	ThemesByDiscipline(ctx context.Context, disciplineID int64) ([]*entity.Theme, error)
	CreateTheme(ctx context.Context, t *entity.Theme) (int64, error)
	DeleteTheme(ctx context.Context, id int64) error

	// point records
	DisciplineRecordExists(ctx context.Context, studentID, themeID int64) (bool, error)
	DisciplineRecords(ctx context.Context, studentID, disciplineID int64, page, perPage int) ([]*entity.DisciplinePointRecord, error)
	CreateDisciplineRecord(ctx context.Context, r *entity.DisciplinePointRecord) (int64, error)
	DeleteDisciplineRecord(ctx context.Context, id int64) error
	ReferClaimant(ctx context.Context, referVkID int64) (*entity.Student, error)
	ReferRecords(ctx context.Context, studentID int64, page, perPage int) ([]*entity.ReferPointRecord, error)
	CreateReferRecord(ctx context.Context, r *entity.ReferPointRecord) (int64, error)
	DeleteReferRecord(ctx context.Context, id int64) error
	SumDisciplinePoints(ctx context.Context, studentID int64) (int, error)
	SumReferPoints(ctx context.Context, studentID int64) (int, error)
	SumOrderCosts(ctx context.Context, studentID int64) (int, error)

	// reward catalog and redemptions
	OrderByID(ctx context.Context, id int64) (*entity.Order, error)
	OrderByName(ctx context.Context, name string) (*entity.Order, error)
	Orders(ctx context.Context, page, perPage int) ([]*entity.Order, error)
	CreateOrder(ctx context.Context, o *entity.Order) (int64, error)
	UpdateOrder(ctx context.Context, o *entity.Order) error
	DeleteOrder(ctx context.Context, id int64) error
	CountOrderRecords(ctx context.Context, orderID int64) (int, error)
	OrderRecordByID(ctx context.Context, id int64) (*entity.OrderRecord, error)
	OrderRecords(ctx context.Context, studentID int64, page, perPage int) ([]*entity.OrderRecord, error)
	CreateOrderRecord(ctx context.Context, r *entity.OrderRecord) (int64, error)
	UpdateOrderRecordStatus(ctx context.Context, id int64, status entity.OrderStatus) error
	DeleteOrderRecord(ctx context.Context, id int64) error

	// communities
	CommunityByID(ctx context.Context, id int64) (*entity.Community, error)
	CommunityByVkID(ctx context.Context, vkID int64) (*entity.Community, error)
	Communities(ctx context.Context) ([]*entity.Community, error)
	CreateCommunity(ctx context.Context, c *entity.Community) (int64, error)
	UpdateCommunityMessage(ctx context.Context, id int64, message string) error
	DeleteCommunity(ctx context.Context, id int64) error
}

// VkService is the outbound messaging platform surface the core uses.
type VkService interface {
	SendMessage(ctx context.Context, token string, peerID int64, message string) error
	UsersGet(ctx context.Context, ids []int64) ([]vk.Profile, error)
	GetCallbackConfirmationCode(ctx context.Context, token string, groupID int64) (string, error)
	AddCallbackServer(ctx context.Context, token string, groupID int64, serverURL, title, secret string) (int64, error)
	SetCallbackSettings(ctx context.Context, token string, groupID, serverID int64) error
}

// AuditSink receives write-only operational history. Optional.
type AuditSink interface {
	SaveAuditEntry(entry *entity.AuditEntry) error
	SaveWebhookEvent(event *entity.WebhookEvent) error
}

type Core struct {
	db     Store
	vk     VkService
	sink   AuditSink
	botURL string
	log    *slog.Logger
}

func New(db Store, vkClient VkService, botURL string, log *slog.Logger) *Core {
	if db == nil {
		panic("store is nil")
	}
	return &Core{
		db:     db,
		vk:     vkClient,
		botURL: botURL,
		log:    log.With(sl.Module("core")),
	}
}

// SetAuditSink attaches the optional event sink; call only with a live sink.
func (c *Core) SetAuditSink(sink AuditSink) {
	c.sink = sink
}

func (c *Core) audit(actor *entity.Mentor, action, entityName string, entityID int64, details string) {
	if c.sink == nil {
		return
	}
	entry := &entity.AuditEntry{
		Actor:    actor.Username,
		Action:   action,
		Entity:   entityName,
		EntityID: entityID,
		Details:  details,
	}
	if err := c.sink.SaveAuditEntry(entry); err != nil {
		c.log.Debug("save audit entry", sl.Err(err))
	}
}
