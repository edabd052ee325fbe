package entity

import "testing"

func TestAccessLevelAtLeast(t *testing.T) {
	tests := []struct {
		name      string
		level     AccessLevel
		threshold AccessLevel
		want      bool
	}{
		{"equal passes", AccessAngel, AccessAngel, true},
		{"above passes", AccessSuperAdmin, AccessMentor, true},
		{"one below fails", AccessHawk, AccessAngel, false},
		{"bottom against top fails", AccessMentor, AccessSuperAdmin, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.level.AtLeast(tc.threshold); got != tc.want {
				t.Errorf("AtLeast(%d) on level %d = %v, want %v", tc.threshold, tc.level, got, tc.want)
			}
		})
	}
}

func TestAccessLevelScoped(t *testing.T) {
	for _, level := range AccessLevels() {
		scoped := level == AccessMentor || level == AccessUpMentor
		if got := level.Scoped(); got != scoped {
			t.Errorf("level %d Scoped() = %v, want %v", level, got, scoped)
		}
	}
}

func TestAccessLevelValid(t *testing.T) {
	if AccessLevel(0).Valid() {
		t.Error("zero level must be invalid")
	}
	if AccessLevel(7).Valid() {
		t.Error("level above super admin must be invalid")
	}
	for _, level := range AccessLevels() {
		if !level.Valid() {
			t.Errorf("level %d must be valid", level)
		}
	}
}

func TestAccessLevelLabel(t *testing.T) {
	if got := AccessSuperAdmin.Label(); got != "Главный администратор" {
		t.Errorf("super admin label = %q", got)
	}
	if got := AccessLevel(0).Label(); got != "?" {
		t.Errorf("unknown level label = %q, want ?", got)
	}
}
