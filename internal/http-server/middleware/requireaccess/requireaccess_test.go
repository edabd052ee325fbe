package requireaccess

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"bonuspoint/entity"
	"bonuspoint/lib/api/cont"
)

func runGate(level, threshold entity.AccessLevel) (*httptest.ResponseRecorder, bool) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admins/mentor_list", nil)
	mentor := &entity.Mentor{Id: 1, Username: "tester", AccessLevel: level}
	req = req.WithContext(cont.PutMentor(req.Context(), mentor))
	w := httptest.NewRecorder()

	New(log, threshold)(next).ServeHTTP(w, req)
	return w, called
}

func TestGatePassesAtThreshold(t *testing.T) {
	w, called := runGate(entity.AccessAdmin, entity.AccessAdmin)
	if !called {
		t.Fatal("handler must run for a caller at the threshold")
	}
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestGateRedirectsBelowThreshold(t *testing.T) {
	w, called := runGate(entity.AccessAngel, entity.AccessAdmin)
	if called {
		t.Fatal("handler must not run below the threshold")
	}
	if w.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Errorf("redirect location = %q, want /", loc)
	}
}

func TestGateRedirectsUnauthenticatedContext(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a mentor in context")
	})
	req := httptest.NewRequest(http.MethodGet, "/admins/mentor_list", nil)
	w := httptest.NewRecorder()

	New(log, entity.AccessMentor)(next).ServeHTTP(w, req)
	if w.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", w.Code)
	}
}
