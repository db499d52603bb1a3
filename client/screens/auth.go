package screens

import (
	"context"
	"fmt"
	"log/slog"

	"campusclub/client/controller"
)

// Auth handles sign-in, sign-up and sign-out against the session store.
type Auth struct {
	deps         Deps
	loginForm    *controller.Form
	registerForm *controller.Form
}

func NewAuth(deps Deps) *Auth {
	return &Auth{
		deps: deps,
		loginForm: controller.NewForm(
			controller.Field{Name: "email", Label: "Email", Required: true},
			controller.Field{Name: "password", Label: "Password", Required: true},
		),
		registerForm: controller.NewForm(
			controller.Field{Name: "fullName", Label: "Full name", Required: true},
			controller.Field{Name: "email", Label: "Email", Required: true},
			controller.Field{Name: "password", Label: "Password", Required: true},
		),
	}
}

func (a *Auth) LoginForm() *controller.Form {
	return a.loginForm
}

func (a *Auth) RegisterForm() *controller.Form {
	return a.registerForm
}

// Login validates the draft, authenticates and populates the session store,
// then registers the install's push identifier best effort.
func (a *Auth) Login(ctx context.Context) error {
	if err := a.loginForm.Validate(); err != nil {
		return err
	}
	resp, err := a.deps.API.Login(ctx, a.loginForm.Get("email"), a.loginForm.Get("password"))
	if err != nil {
		return err
	}
	if err = a.deps.Session.SetLogin(ctx, resp); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	a.loginForm.Close()

	if installID, err := a.deps.Session.InstallID(ctx); err == nil {
		if err = a.deps.API.RegisterPushToken(ctx, resp.UserID, installID); err != nil {
			a.deps.logger().Warn("push token registration failed", slog.Any("err", err))
		}
	}
	return nil
}

// Register validates the draft and creates the account. The user signs in
// afterwards; registration does not establish a session.
func (a *Auth) Register(ctx context.Context) error {
	if err := a.registerForm.Validate(); err != nil {
		return err
	}
	_, err := a.deps.API.Register(ctx,
		a.registerForm.Get("email"),
		a.registerForm.Get("password"),
		a.registerForm.Get("fullName"),
	)
	if err != nil {
		return err
	}
	a.registerForm.Close()
	return nil
}

// Logout clears every session key, the president cache included.
func (a *Auth) Logout(ctx context.Context) error {
	if err := a.deps.Session.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
