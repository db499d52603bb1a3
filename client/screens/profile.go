package screens

import (
	"context"
	"fmt"
	"sync"

	"campusclub/client/api"
	"campusclub/client/controller"
	"campusclub/client/session"
)

// Profile is the user's own profile screen: counts plus name and password
// edits, with the display name written through to the session store.
type Profile struct {
	deps   Deps
	userID int64
	form   *controller.Form

	mu      sync.Mutex
	profile *api.Profile
}

func NewProfile(deps Deps) *Profile {
	return &Profile{
		deps: deps,
		form: controller.NewForm(
			controller.Field{Name: "fullName", Label: "Full name"},
			controller.Field{Name: "oldPassword", Label: "Current password"},
			controller.Field{Name: "newPassword", Label: "New password"},
		),
	}
}

func (p *Profile) Open(ctx context.Context) error {
	userID, ok := p.deps.Session.UserID(ctx)
	if !ok {
		return ErrNotLoggedIn
	}
	p.userID = userID

	profile, err := p.deps.API.Profile(ctx, userID)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.profile = profile
	p.mu.Unlock()
	return nil
}

func (p *Profile) Current() *api.Profile {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.profile
}

func (p *Profile) Form() *controller.Form {
	return p.form
}

// Save submits the edited fields. A changed display name is written through
// to the session store so other screens pick it up without a relogin.
func (p *Profile) Save(ctx context.Context) error {
	update := api.ProfileUpdate{
		FullName:    p.form.Get("fullName"),
		OldPassword: p.form.Get("oldPassword"),
		NewPassword: p.form.Get("newPassword"),
	}
	if update.NewPassword != "" && update.OldPassword == "" {
		return &controller.ValidationError{Field: "oldPassword", Label: "Current password"}
	}
	if err := p.deps.API.UpdateProfile(ctx, p.userID, update); err != nil {
		return err
	}
	if update.FullName != "" {
		if err := p.deps.Session.Set(ctx, session.KeyDisplayName, update.FullName); err != nil {
			return fmt.Errorf("failed to update session name: %w", err)
		}
	}
	p.form.Close()
	return p.Open(ctx)
}
