package entity

// AccessLevel is the staff role tier. Levels form a total order:
// a check against a threshold passes when the caller's level is
// greater or equal. Mentor and UpMentor are additionally scoped to
// their own discipline (and, for Mentor, to their own groups).
type AccessLevel int

const (
	AccessMentor AccessLevel = iota + 1
	AccessUpMentor
	AccessHawk
	AccessAngel
	AccessAdmin
	AccessSuperAdmin
)

var accessLabels = map[AccessLevel]string{
	AccessMentor:     "Наставник",
	AccessUpMentor:   "Главный наставник",
	AccessHawk:       "Ястреб",
	AccessAngel:      "Ангел",
	AccessAdmin:      "Администратор",
	AccessSuperAdmin: "Главный администратор",
}

func (l AccessLevel) Valid() bool {
	return l >= AccessMentor && l <= AccessSuperAdmin
}

// AtLeast reports whether the level passes a gate with the given threshold.
func (l AccessLevel) AtLeast(threshold AccessLevel) bool {
	return l >= threshold
}

// Scoped reports whether the level is restricted to an assigned discipline.
func (l AccessLevel) Scoped() bool {
	return l == AccessMentor || l == AccessUpMentor
}

func (l AccessLevel) Label() string {
	label, ok := accessLabels[l]
	if !ok {
		return "?"
	}
	return label
}

// AccessLevels lists all levels in ascending order.
func AccessLevels() []AccessLevel {
	return []AccessLevel{
		AccessMentor,
		AccessUpMentor,
		AccessHawk,
		AccessAngel,
		AccessAdmin,
		AccessSuperAdmin,
	}
}
