package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"campusclub/client/api"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(Config{Path: filepath.Join(t.TempDir(), "session.db")})
	if err != nil {
		t.Fatalf("failed to open store: %s", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestStoreSetGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Get(ctx, KeyUserID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.Set(ctx, KeyUserID, "42"); err != nil {
		t.Fatalf("set failed: %s", err)
	}
	value, err := store.Get(ctx, KeyUserID)
	if err != nil {
		t.Fatalf("get failed: %s", err)
	}
	if value != "42" {
		t.Errorf("expected 42, got %q", value)
	}

	// Overwrite wins.
	if err = store.Set(ctx, KeyUserID, "43"); err != nil {
		t.Fatalf("set failed: %s", err)
	}
	if value, _ = store.Get(ctx, KeyUserID); value != "43" {
		t.Errorf("expected 43, got %q", value)
	}
}

func TestStoreRemove(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Remove(ctx, "missing"); err != nil {
		t.Errorf("removing an absent key should not fail: %s", err)
	}

	_ = store.Set(ctx, KeyToken, "abc")
	if err := store.Remove(ctx, KeyToken); err != nil {
		t.Fatalf("remove failed: %s", err)
	}
	if _, err := store.Get(ctx, KeyToken); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after remove, got %v", err)
	}
}

func TestStoreClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_ = store.Set(ctx, KeyUserID, "1")
	_ = store.Set(ctx, KeyToken, "abc")
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear failed: %s", err)
	}
	for _, key := range []string{KeyUserID, KeyToken} {
		if _, err := store.Get(ctx, key); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected %s gone after clear, got %v", key, err)
		}
	}
}

func TestSetLoginPopulatesSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	clubID := int64(7)
	err := store.SetLogin(ctx, &api.LoginResponse{
		UserID:            42,
		Email:             "ali@uni.edu",
		FullName:          "Ali Veli",
		PresidentClubID:   &clubID,
		PresidentClubName: "Satranç Kulübü",
	})
	if err != nil {
		t.Fatalf("SetLogin failed: %s", err)
	}

	sess := store.Current(ctx)
	if sess.UserID != 42 || sess.Email != "ali@uni.edu" || sess.DisplayName != "Ali Veli" {
		t.Errorf("unexpected session: %+v", sess)
	}
	if sess.PresidentClubID == nil || *sess.PresidentClubID != 7 || sess.PresidentClubName != "Satranç Kulübü" {
		t.Errorf("expected president club cached, got %+v", sess)
	}

	// A later login without a presidency clears the cache.
	if err = store.SetLogin(ctx, &api.LoginResponse{UserID: 42, Email: "ali@uni.edu", FullName: "Ali Veli"}); err != nil {
		t.Fatalf("SetLogin failed: %s", err)
	}
	if _, _, ok := store.PresidentClub(ctx); ok {
		t.Error("expected president cache cleared")
	}
}

func TestTokenExpiryInspection(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	signed := func(exp time.Time) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"exp": exp.Unix(),
		}).SignedString([]byte("secret"))
		if err != nil {
			t.Fatalf("failed to sign token: %s", err)
		}
		return token
	}

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"absent", "", false},
		{"opaque", "not-a-jwt", true},
		{"valid", signed(time.Now().Add(time.Hour)), true},
		{"expired", signed(time.Now().Add(-time.Hour)), false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_ = store.Clear(ctx)
			if test.token != "" {
				_ = store.Set(ctx, KeyToken, test.token)
			}
			if _, ok := store.Token(ctx); ok != test.want {
				t.Errorf("Token() ok = %t, want %t", ok, test.want)
			}
		})
	}
}

func TestInstallIDIsStable(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.InstallID(ctx)
	if err != nil {
		t.Fatalf("InstallID failed: %s", err)
	}
	if first == "" {
		t.Fatal("expected a minted install id")
	}
	second, err := store.InstallID(ctx)
	if err != nil {
		t.Fatalf("InstallID failed: %s", err)
	}
	if first != second {
		t.Errorf("install id changed between calls: %q vs %q", first, second)
	}
}
