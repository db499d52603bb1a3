package screens

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"campusclub/client/api"
	"campusclub/client/controller"
	"campusclub/client/role"
	"campusclub/client/session"
	"campusclub/internal/xtime"
)

func testDeps(t *testing.T, handler http.Handler) (Deps, *session.Store) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := session.New(session.Config{Path: filepath.Join(t.TempDir(), "session.db")})
	if err != nil {
		t.Fatalf("failed to open session store: %s", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	client := api.New(api.Config{
		BaseURL: srv.URL,
		Timeout: xtime.Duration(2 * time.Second),
	}, srv.Client(), store)

	return Deps{
		API:       client,
		Session:   store,
		Roles:     role.NewResolver(client, store),
		Confirmer: controller.ConfirmerFunc(func(string) bool { return true }),
	}, store
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %s", err)
	}
}

func setPresident(t *testing.T, store *session.Store, clubID int64, name string) {
	t.Helper()
	if err := store.SetPresidentClub(context.Background(), clubID, name); err != nil {
		t.Fatalf("failed to seed president cache: %s", err)
	}
}

func setUser(t *testing.T, store *session.Store, userID int64) {
	t.Helper()
	if err := store.Set(context.Background(), session.KeyUserID, strconv.FormatInt(userID, 10)); err != nil {
		t.Fatalf("failed to seed user id: %s", err)
	}
}

func TestEventsFailClosedWithoutPresidentCache(t *testing.T) {
	var requests atomic.Int64
	deps, _ := testDeps(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))

	screen := NewEvents(deps)
	if err := screen.Open(context.Background()); !errors.Is(err, ErrNotPresident) {
		t.Fatalf("expected ErrNotPresident, got %v", err)
	}
	if requests.Load() != 0 {
		t.Errorf("a fail-closed screen must not fetch, saw %d requests", requests.Load())
	}
}

func TestEventsCreateThenResync(t *testing.T) {
	var created atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/kulup/7/etkinlikler", func(w http.ResponseWriter, r *http.Request) {
		events := []api.Event{{ID: 1, Title: "Mevcut Etkinlik", Date: "2026-09-10", Status: api.EventStatusActive}}
		if created.Load() {
			// The server normalizes the draft: status assigned, title trimmed.
			events = append(events, api.Event{ID: 99, Title: "Satranç Turnuvası", Date: "2026-10-01", Status: api.EventStatusPlanned})
		}
		writeJSON(t, w, events)
	})
	mux.HandleFunc("POST /api/baskan/etkinlik-ekle", func(w http.ResponseWriter, r *http.Request) {
		created.Store(true)
		writeJSON(t, w, api.MutationResponse{Message: "ok", ID: 99})
	})

	deps, store := testDeps(t, mux)
	setPresident(t, store, 7, "Satranç Kulübü")

	screen := NewEvents(deps)
	if err := screen.Open(context.Background()); err != nil {
		t.Fatalf("open failed: %s", err)
	}
	if len(screen.List().Items()) != 1 {
		t.Fatalf("expected 1 event before create, got %d", len(screen.List().Items()))
	}

	form := screen.Form()
	form.Open()
	form.Set("title", "  Satranç Turnuvası  ")
	form.Set("date", "2026-10-01")
	if err := screen.Create(context.Background()); err != nil {
		t.Fatalf("create failed: %s", err)
	}

	items := screen.List().Items()
	if len(items) != 2 {
		t.Fatalf("expected the refetched collection, got %d events", len(items))
	}
	if items[1].ID != 99 || items[1].Status != api.EventStatusPlanned {
		t.Errorf("expected the server-normalized record, got %+v", items[1])
	}
	if form.IsOpen() {
		t.Error("expected the dialog closed after a successful create")
	}
}

func TestEventsCreateValidationBlocksNetwork(t *testing.T) {
	var posts atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/kulup/7/etkinlikler", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []api.Event{})
	})
	mux.HandleFunc("POST /api/baskan/etkinlik-ekle", func(w http.ResponseWriter, r *http.Request) {
		posts.Add(1)
	})

	deps, store := testDeps(t, mux)
	setPresident(t, store, 7, "Satranç Kulübü")

	screen := NewEvents(deps)
	if err := screen.Open(context.Background()); err != nil {
		t.Fatalf("open failed: %s", err)
	}

	screen.Form().Open()
	screen.Form().Set("title", "Turnuva")
	err := screen.Create(context.Background())
	var vErr *controller.ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "date" {
		t.Fatalf("expected the missing date rejected locally, got %v", err)
	}
	if posts.Load() != 0 {
		t.Error("a failing draft must never leave the device")
	}
	if !screen.Form().IsOpen() {
		t.Error("the dialog stays open for correction")
	}
}

func TestDuesMarkPaidFailureLeavesUnpaid(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/kulup/7/uyeler", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []api.Membership{{ID: 3, Position: api.PositionMember, User: &api.User{ID: 42, FullName: "Ali Veli"}}})
	})
	mux.HandleFunc("GET /api/uye/3/aidatlar", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []api.Due{{ID: 5, Amount: 150, Period: "2026-Fall", Paid: false}})
	})
	mux.HandleFunc("PUT /api/aidat/5/odeme", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "Ödeme kaydedilemedi"}`))
	})

	deps, store := testDeps(t, mux)
	setPresident(t, store, 7, "Satranç Kulübü")

	screen := NewDues(deps)
	if err := screen.Open(context.Background()); err != nil {
		t.Fatalf("open failed: %s", err)
	}

	if err := screen.MarkPaid(context.Background(), 5); err == nil {
		t.Fatal("expected the failure surfaced")
	}
	items := screen.List().Items()
	if len(items) != 1 || items[0].Paid {
		t.Errorf("a failed payment must leave the due unpaid, got %+v", items)
	}
	if screen.List().Err() != "Ödeme kaydedilemedi" {
		t.Errorf("expected the server message, got %q", screen.List().Err())
	}
	if summary := screen.Summary(); summary.Outstanding != 150 {
		t.Errorf("expected the amount still outstanding, got %+v", summary)
	}
}

func TestDuesMarkPaidIsMonotonic(t *testing.T) {
	var payments atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/kulup/7/uyeler", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []api.Membership{{ID: 3, User: &api.User{ID: 42, FullName: "Ali Veli"}}})
	})
	mux.HandleFunc("GET /api/uye/3/aidatlar", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []api.Due{{ID: 5, Amount: 150, Period: "2026-Fall", Paid: true, PaidDate: "2026-09-01"}})
	})
	mux.HandleFunc("PUT /api/aidat/5/odeme", func(w http.ResponseWriter, r *http.Request) {
		payments.Add(1)
	})

	deps, store := testDeps(t, mux)
	setPresident(t, store, 7, "Satranç Kulübü")

	screen := NewDues(deps)
	if err := screen.Open(context.Background()); err != nil {
		t.Fatalf("open failed: %s", err)
	}
	if err := screen.MarkPaid(context.Background(), 5); err != nil {
		t.Fatalf("marking a paid due must be a no-op, got %s", err)
	}
	if payments.Load() != 0 {
		t.Error("a paid due must never be re-submitted")
	}
}

func TestTasksAggregationSkipsFailingMember(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/kulup/7/uyeler", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []api.Membership{
			{ID: 3, User: &api.User{ID: 42, FullName: "Ali Veli"}},
			{ID: 4, User: &api.User{ID: 43, FullName: "Ayşe Kaya"}},
		})
	})
	mux.HandleFunc("GET /api/uye/3/gorevler", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []api.Task{{ID: 10, Title: "Afiş tasarımı", Status: "BEKLIYOR"}})
	})
	mux.HandleFunc("GET /api/uye/4/gorevler", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	deps, store := testDeps(t, mux)
	setPresident(t, store, 7, "Satranç Kulübü")

	screen := NewTasks(deps)
	if err := screen.Open(context.Background()); err != nil {
		t.Fatalf("a failing member must not sink the load: %s", err)
	}

	items := screen.List().Items()
	if len(items) != 1 {
		t.Fatalf("expected the healthy member's tasks, got %d", len(items))
	}
	if items[0].AssigneeName != "Ali Veli" {
		t.Errorf("expected the assignee filled in, got %q", items[0].AssigneeName)
	}
	if items[0].Status != api.TaskStatusPending {
		t.Errorf("expected the legacy status normalized, got %s", items[0].Status)
	}
}

func TestClubsPresidentCannotLeave(t *testing.T) {
	var deletes atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/user/42/baskan-kulup", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, api.PresidentClub{IsPresident: true, ClubID: 7, ClubName: "Satranç Kulübü"})
	})
	mux.HandleFunc("GET /api/uye/42/uyelikler", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []api.Membership{{ID: 3, Position: api.PositionPresident, Club: &api.Club{ID: 7, Name: "Satranç Kulübü"}}})
	})
	mux.HandleFunc("GET /api/kulupler", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []api.Club{})
	})
	mux.HandleFunc("DELETE /api/uyelik/3/ayril", func(w http.ResponseWriter, r *http.Request) {
		deletes.Add(1)
	})

	deps, store := testDeps(t, mux)
	setUser(t, store, 42)

	screen := NewClubs(deps)
	if err := screen.Open(context.Background()); err != nil {
		t.Fatalf("open failed: %s", err)
	}
	if !screen.Capability().IsPresident {
		t.Fatal("expected the president capability resolved")
	}

	if err := screen.Leave(context.Background(), 3); !errors.Is(err, ErrPresidentCannotLeave) {
		t.Fatalf("expected ErrPresidentCannotLeave, got %v", err)
	}
	if deletes.Load() != 0 {
		t.Error("the pre-check must block the call")
	}
}

func TestMyTasksOptimisticStatusKeptOnFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/uye/42/uyelikler", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []api.Membership{{ID: 3, Club: &api.Club{ID: 7, Name: "Satranç Kulübü"}}})
	})
	mux.HandleFunc("GET /api/uye/3/gorevler", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []api.Task{{ID: 10, Title: "Afiş tasarımı", Status: api.TaskStatusPending}})
	})
	mux.HandleFunc("PUT /api/gorev/10/durum", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	deps, store := testDeps(t, mux)
	setUser(t, store, 42)

	screen := NewMyTasks(deps)
	if err := screen.Open(context.Background()); err != nil {
		t.Fatalf("open failed: %s", err)
	}

	err := screen.SetStatus(context.Background(), 10, api.TaskStatusInProgress)
	if err == nil {
		t.Fatal("expected the failure surfaced")
	}
	items := screen.List().Items()
	if items[0].Status != api.TaskStatusInProgress {
		t.Errorf("the optimistic status must stay applied, got %s", items[0].Status)
	}
	if screen.List().Err() == "" {
		t.Error("expected a user-facing error message")
	}

	// A refresh restores the server's truth.
	if err = screen.List().Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %s", err)
	}
	if got := screen.List().Items()[0].Status; got != api.TaskStatusPending {
		t.Errorf("expected the server status after refresh, got %s", got)
	}
}

func TestUpcomingListsEventsAcrossClubs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/etkinlikler", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []api.Event{
			{ID: 1, Title: "Yazılım Workshop", Date: "2026-09-15", Time: "14:00", Status: api.EventStatusPlanned},
			{ID: 2, Title: "Konser Gecesi", Date: "2026-09-20", Time: "19:00", Status: api.EventStatusActive},
		})
	})

	deps, _ := testDeps(t, mux)

	// Browsing needs no session at all.
	screen := NewUpcoming(deps)
	if err := screen.Open(context.Background()); err != nil {
		t.Fatalf("open failed: %s", err)
	}
	items := screen.List().Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 events, got %d", len(items))
	}
	if items[0].Title != "Yazılım Workshop" {
		t.Errorf("unexpected first event: %+v", items[0])
	}
}

func TestClubSettingsSaveWritesThroughName(t *testing.T) {
	var savedName, savedDescription string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/kulup/7", func(w http.ResponseWriter, r *http.Request) {
		name, description := "Satranç Kulübü", "Eski açıklama"
		if savedName != "" {
			name, description = savedName, savedDescription
		}
		writeJSON(t, w, api.Club{ID: 7, Name: name, Description: description})
	})
	mux.HandleFunc("PUT /api/kulup/7", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name        string `json:"ad"`
			Description string `json:"aciklama"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode update body: %s", err)
		}
		savedName, savedDescription = body.Name, body.Description
		writeJSON(t, w, api.MutationResponse{Message: "ok", ID: 7})
	})

	deps, store := testDeps(t, mux)
	setPresident(t, store, 7, "Satranç Kulübü")

	screen := NewClubSettings(deps)
	if err := screen.Open(context.Background()); err != nil {
		t.Fatalf("open failed: %s", err)
	}
	if got := screen.Form().Get("name"); got != "Satranç Kulübü" {
		t.Fatalf("expected the draft prefilled, got %q", got)
	}

	screen.Form().Set("name", "  Satranç ve Zeka Oyunları  ")
	screen.Form().Set("description", "Yeni açıklama")
	if err := screen.Save(context.Background()); err != nil {
		t.Fatalf("save failed: %s", err)
	}
	if savedName != "Satranç ve Zeka Oyunları" {
		t.Errorf("expected the trimmed name submitted, got %q", savedName)
	}

	// The cached club name follows the rename.
	_, cachedName, ok := store.PresidentClub(context.Background())
	if !ok || cachedName != "Satranç ve Zeka Oyunları" {
		t.Errorf("expected the session cache renamed, got %q (present=%t)", cachedName, ok)
	}
	if got := screen.Club().Name; got != "Satranç ve Zeka Oyunları" {
		t.Errorf("expected the refetched record shown, got %q", got)
	}
}

func TestClubSettingsRejectsEmptyName(t *testing.T) {
	var updates atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/kulup/7", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, api.Club{ID: 7, Name: "Satranç Kulübü"})
	})
	mux.HandleFunc("PUT /api/kulup/7", func(w http.ResponseWriter, r *http.Request) {
		updates.Add(1)
	})

	deps, store := testDeps(t, mux)
	setPresident(t, store, 7, "Satranç Kulübü")

	screen := NewClubSettings(deps)
	if err := screen.Open(context.Background()); err != nil {
		t.Fatalf("open failed: %s", err)
	}
	screen.Form().Set("name", "   ")
	err := screen.Save(context.Background())
	var vErr *controller.ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "name" {
		t.Fatalf("expected the blank name rejected locally, got %v", err)
	}
	if updates.Load() != 0 {
		t.Error("a failing draft must never leave the device")
	}
}

func TestClubSettingsFailClosedWithoutPresidentCache(t *testing.T) {
	var requests atomic.Int64
	deps, _ := testDeps(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))

	screen := NewClubSettings(deps)
	if err := screen.Open(context.Background()); !errors.Is(err, ErrNotPresident) {
		t.Fatalf("expected ErrNotPresident, got %v", err)
	}
	if requests.Load() != 0 {
		t.Errorf("a fail-closed screen must not fetch, saw %d requests", requests.Load())
	}
}

func TestMembersRemoveGuards(t *testing.T) {
	var deletes atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/kulup/7/uyeler", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []api.Membership{
			{ID: 3, Position: api.PositionPresident, User: &api.User{ID: 42, FullName: "Ali Veli"}},
			{ID: 4, Position: api.PositionMember},
		})
	})
	mux.HandleFunc("DELETE /api/uyelik/3/ayril", func(w http.ResponseWriter, r *http.Request) {
		deletes.Add(1)
	})
	mux.HandleFunc("DELETE /api/uyelik/4/ayril", func(w http.ResponseWriter, r *http.Request) {
		deletes.Add(1)
	})

	deps, store := testDeps(t, mux)
	setPresident(t, store, 7, "Satranç Kulübü")

	screen := NewMembers(deps)
	if err := screen.Open(context.Background()); err != nil {
		t.Fatalf("open failed: %s", err)
	}

	if err := screen.Remove(context.Background(), 3); err == nil {
		t.Error("expected the president protected")
	}
	if err := screen.Remove(context.Background(), 4); err == nil {
		t.Error("a membership without a user record must be rejected, not sent with user id 0")
	}
	if err := screen.Remove(context.Background(), 99); err == nil {
		t.Error("expected an unknown membership rejected")
	}
	if deletes.Load() != 0 {
		t.Errorf("no guard failure may reach the server, saw %d deletes", deletes.Load())
	}
}

func TestPanelFailClosedWithoutPresidentCache(t *testing.T) {
	var requests atomic.Int64
	deps, _ := testDeps(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))

	panel := NewPanel(deps)
	if err := panel.Open(context.Background()); !errors.Is(err, ErrNotPresident) {
		t.Fatalf("expected ErrNotPresident, got %v", err)
	}
	if requests.Load() != 0 {
		t.Errorf("a fail-closed panel must not fetch, saw %d requests", requests.Load())
	}
}

func TestNextStatusCycle(t *testing.T) {
	tests := []struct {
		in   api.TaskStatus
		want api.TaskStatus
	}{
		{api.TaskStatusPending, api.TaskStatusInProgress},
		{api.TaskStatusInProgress, api.TaskStatusDone},
		{api.TaskStatusDone, api.TaskStatusDone},
	}
	for _, test := range tests {
		if got := NextStatus(test.in); got != test.want {
			t.Errorf("NextStatus(%s) = %s, want %s", test.in, got, test.want)
		}
	}
}
