package session

import (
	"context"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"campusclub/client/api"
)

// The keys mirror what the mobile client persisted on-device.
const (
	KeyUserID            = "userId"
	KeyToken             = "userToken"
	KeyEmail             = "userEmail"
	KeyDisplayName       = "adSoyad"
	KeyPresidentClubID   = "baskanKulupId"
	KeyPresidentClubName = "baskanKulupAd"
	KeyPushToken         = "expoPushToken"
	KeyInstallID         = "installId"
)

// Session is a snapshot of the identity keys. PresidentClubID is present if
// and only if the last definite role resolution answered yes.
type Session struct {
	UserID            int64
	DisplayName       string
	Email             string
	AuthToken         string
	PresidentClubID   *int64
	PresidentClubName string
}

// Current reads a snapshot. Unreadable keys count as absent.
func (s *Store) Current(ctx context.Context) Session {
	var sess Session
	if raw, err := s.Get(ctx, KeyUserID); err == nil {
		sess.UserID, _ = strconv.ParseInt(raw, 10, 64)
	}
	sess.DisplayName, _ = s.Get(ctx, KeyDisplayName)
	sess.Email, _ = s.Get(ctx, KeyEmail)
	sess.AuthToken, _ = s.Get(ctx, KeyToken)
	if raw, err := s.Get(ctx, KeyPresidentClubID); err == nil {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			sess.PresidentClubID = &id
			sess.PresidentClubName, _ = s.Get(ctx, KeyPresidentClubName)
		}
	}
	return sess
}

// SetLogin populates the store from a login response, including the
// president cache carried inline.
func (s *Store) SetLogin(ctx context.Context, login *api.LoginResponse) error {
	if err := s.Set(ctx, KeyUserID, strconv.FormatInt(login.UserID, 10)); err != nil {
		return err
	}
	if err := s.Set(ctx, KeyEmail, login.Email); err != nil {
		return err
	}
	if err := s.Set(ctx, KeyDisplayName, login.FullName); err != nil {
		return err
	}
	if login.Token != "" {
		if err := s.Set(ctx, KeyToken, login.Token); err != nil {
			return err
		}
	}
	if login.PresidentClubID != nil {
		return s.SetPresidentClub(ctx, *login.PresidentClubID, login.PresidentClubName)
	}
	return s.RemovePresidentClub(ctx)
}

func (s *Store) UserID(ctx context.Context) (int64, bool) {
	raw, err := s.Get(ctx, KeyUserID)
	if err != nil {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Token implements api.TokenSource. Tokens that parse as JWTs and carry an
// expired exp claim are treated as absent; opaque tokens are passed through
// and the server decides.
func (s *Store) Token(ctx context.Context) (string, bool) {
	token, err := s.Get(ctx, KeyToken)
	if err != nil || token == "" {
		return "", false
	}

	claims := jwt.MapClaims{}
	if _, _, err = jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && exp.Before(time.Now()) {
			return "", false
		}
	}
	return token, true
}

func (s *Store) PresidentClub(ctx context.Context) (int64, string, bool) {
	raw, err := s.Get(ctx, KeyPresidentClubID)
	if err != nil {
		return 0, "", false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, "", false
	}
	name, _ := s.Get(ctx, KeyPresidentClubName)
	return id, name, true
}

func (s *Store) SetPresidentClub(ctx context.Context, clubID int64, clubName string) error {
	if err := s.Set(ctx, KeyPresidentClubID, strconv.FormatInt(clubID, 10)); err != nil {
		return err
	}
	return s.Set(ctx, KeyPresidentClubName, clubName)
}

func (s *Store) RemovePresidentClub(ctx context.Context) error {
	if err := s.Remove(ctx, KeyPresidentClubID); err != nil {
		return err
	}
	return s.Remove(ctx, KeyPresidentClubName)
}

// InstallID returns a stable per-install identifier, minting one on first
// use. It stands in for the device push token source.
func (s *Store) InstallID(ctx context.Context) (string, error) {
	if id, err := s.Get(ctx, KeyInstallID); err == nil {
		return id, nil
	}
	id := uuid.NewString()
	if err := s.Set(ctx, KeyInstallID, id); err != nil {
		return "", err
	}
	return id, nil
}
