// Package login drives the sign-in / register screen.
package login

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mcoot/bvzombies/internal/apiclient"
	"github.com/mcoot/bvzombies/internal/metrics"
	"github.com/mcoot/bvzombies/internal/model"
	"github.com/mcoot/bvzombies/internal/services/browser"
	"github.com/mcoot/bvzombies/internal/session"
	"github.com/mcoot/bvzombies/internal/validation"
)

// Mode is the screen's current form
type Mode string

// Modes
const (
	ModeLogin    Mode = "login"
	ModeRegister Mode = "register"
)

// Toggle returns the other mode
func (m Mode) Toggle() Mode {
	if m == ModeRegister {
		return ModeLogin
	}
	return ModeRegister
}

// ParseMode maps a query value to a Mode, defaulting to login
func ParseMode(s string) Mode {
	if Mode(s) == ModeRegister {
		return ModeRegister
	}
	return ModeLogin
}

// Messages shown by the screen
const (
	MsgLoginSuccess    = "Login successful! Redirecting..."
	MsgRegisterSuccess = "Registration successful! Please sign in."
	MsgGenericFailure  = "An error occurred during authentication"
)

// ProfilePath is where a signed-in browser is sent
const ProfilePath = "/profile"

// DefaultRedirectDelay is how long the success message shows before the profile
const DefaultRedirectDelay = 1500 * time.Millisecond

// Form carries every field of both modes
type Form struct {
	Email          string
	Password       string
	VerifyPassword string
	Username       string
	Age            string
	Country        string
	Language       string
}

// View is what the screen renders
type View struct {
	Mode          Mode
	Form          Form
	Errors        []string
	Error         string
	Success       string
	Redirect      string
	RedirectAfter time.Duration
	ShowPassword  bool
}

// Config holds controller settings
type Config struct {
	RedirectDelay time.Duration
}

// Controller runs the auth screen against the API
type Controller struct {
	client    *apiclient.Client
	validator *validation.Validator
	timers    *session.Timers
	metrics   *metrics.Metrics
	logger    *slog.Logger
	delay     time.Duration
}

// New creates a Controller
func New(client *apiclient.Client, timers *session.Timers, m *metrics.Metrics, logger *slog.Logger, cfg Config) *Controller {
	if cfg.RedirectDelay == 0 {
		cfg.RedirectDelay = DefaultRedirectDelay
	}
	return &Controller{
		client:    client,
		validator: validation.New(),
		timers:    timers,
		metrics:   m,
		logger:    logger.With(slog.String("component", "login")),
		delay:     cfg.RedirectDelay,
	}
}

// Page builds the initial view. A browser that is already signed in gets a
// view that only redirects to its profile. A pending register redirect
// switches to register mode with the email prefilled and is consumed.
func (c *Controller) Page(ctx context.Context, b *browser.Browser, mode Mode) View {
	c.checkTimers(ctx, b)
	if b.LoggedIn(ctx) {
		return View{Mode: mode, Redirect: ProfilePath}
	}
	state := b.Store.State()

	view := View{Mode: mode, ShowPassword: state.Auth.ShowPassword}
	if state.Auth.RedirectToRegister {
		view.Mode = ModeRegister
		view.Form.Email = state.Auth.PrefillEmail
		_ = b.Store.Dispatch(session.ResetRedirectToRegister{})
	}
	if remaining := c.timers.BlockRemaining(b.Store.State()); remaining > 0 && view.Mode == ModeLogin {
		view.Error = blockedMessage(remaining)
	}
	return view
}

// checkTimers lifts an elapsed block; a session that lapsed mid-request
// loses its slots
func (c *Controller) checkTimers(ctx context.Context, b *browser.Browser) {
	expired, err := c.timers.Check(b.Store)
	if err != nil {
		c.logger.Error("failed to apply session timers", slog.String("sid", b.SID), slog.String("error", err.Error()))
		return
	}
	if expired {
		if err := b.Expire(ctx); err != nil {
			c.logger.Error("failed to clear expired session", slog.String("sid", b.SID), slog.String("error", err.Error()))
		}
	}
}

// RequestRegister queues a switch to register mode with email prefilled
func (c *Controller) RequestRegister(b *browser.Browser, email string) error {
	return b.Store.Dispatch(session.RedirectToRegister{Email: email})
}

// TogglePassword flips password visibility for the browser
func (c *Controller) TogglePassword(b *browser.Browser) error {
	return b.Store.Dispatch(session.ToggleShowPassword{})
}

// Submit validates the form and, if it passes, calls the API for the mode
func (c *Controller) Submit(ctx context.Context, b *browser.Browser, mode Mode, form Form) View {
	if mode == ModeRegister {
		return c.register(ctx, b, form)
	}
	return c.login(ctx, b, form)
}

func (c *Controller) login(ctx context.Context, b *browser.Browser, form Form) View {
	view := View{Mode: ModeLogin, Form: Form{Email: form.Email}, ShowPassword: b.Store.State().Auth.ShowPassword}

	c.checkTimers(ctx, b)
	if remaining := c.timers.BlockRemaining(b.Store.State()); remaining > 0 {
		view.Error = blockedMessage(remaining)
		return view
	}

	if errs := c.validator.Login(validation.LoginForm{Email: form.Email, Password: form.Password}); len(errs) > 0 {
		view.Errors = errs
		return view
	}

	_ = b.Store.Dispatch(session.SetAuthField{Field: session.FieldEmail, Value: form.Email})
	_ = b.Store.Dispatch(session.LoginRequest{})

	envelope, err := c.client.Login(ctx, model.LoginRequest{Email: form.Email, Password: form.Password})
	if err == nil && envelope.Token == "" {
		err = &apiclient.APIError{Msg: "Login failed"}
	}
	if err != nil {
		view.Error = c.failureMessage(err)
		c.recordFailure(b, view.Error)
		return view
	}

	if err := b.Tokens.Set(ctx, envelope.Token); err != nil {
		c.logger.Error("failed to persist token", slog.String("sid", b.SID), slog.String("error", err.Error()))
		view.Error = MsgGenericFailure
		c.recordFailure(b, view.Error)
		return view
	}
	if envelope.User != nil {
		if err := b.Tokens.SaveProfile(ctx, envelope.User); err != nil {
			c.logger.Warn("failed to cache profile", slog.String("sid", b.SID), slog.String("error", err.Error()))
		}
	}

	_ = b.Store.Dispatch(session.LoginSuccess{
		Token:            envelope.Token,
		SessionExpiresAt: c.timers.SessionExpiry(envelope.Token),
		Profile:          session.PatchFromUser(envelope.User),
	})
	c.metrics.SessionEvent("login")
	c.logger.Info("login succeeded", slog.String("sid", b.SID))

	view.Success = MsgLoginSuccess
	view.Redirect = ProfilePath
	view.RedirectAfter = c.delay
	return view
}

func (c *Controller) recordFailure(b *browser.Browser, msg string) {
	_ = b.Store.Dispatch(session.LoginFailure{Error: msg})
	c.metrics.SessionEvent("login_failure")
	blocked, err := c.timers.AfterFailure(b.Store)
	if err != nil {
		c.logger.Error("failed to apply login block", slog.String("error", err.Error()))
	}
	if blocked {
		c.metrics.SessionEvent("blocked")
		c.logger.Warn("login blocked after repeated failures", slog.String("sid", b.SID))
	}
}

func (c *Controller) register(ctx context.Context, b *browser.Browser, form Form) View {
	view := View{Mode: ModeRegister, Form: form, ShowPassword: b.Store.State().Auth.ShowPassword}
	view.Form.Password = ""
	view.Form.VerifyPassword = ""

	errs := c.validator.Register(validation.RegisterForm{
		Email:          form.Email,
		Password:       form.Password,
		VerifyPassword: form.VerifyPassword,
		Username:       form.Username,
		Age:            form.Age,
		Country:        form.Country,
		Language:       form.Language,
	})
	if len(errs) > 0 {
		view.Errors = errs
		return view
	}

	// The envelope may carry a token; registering never signs the user in.
	_, err := c.client.Register(ctx, model.RegisterRequest{
		Username:       form.Username,
		Email:          form.Email,
		Password:       form.Password,
		VerifyPassword: form.VerifyPassword,
		Age:            form.Age,
		Country:        form.Country,
		Language:       form.Language,
	})
	if err != nil {
		view.Error = c.failureMessage(err)
		return view
	}

	c.metrics.SessionEvent("register")
	return View{
		Mode:         ModeLogin,
		Success:      MsgRegisterSuccess,
		ShowPassword: view.ShowPassword,
	}
}

// Logout signs the browser out locally: both slots are cleared and the
// session state returns to its initial value.
func (c *Controller) Logout(ctx context.Context, b *browser.Browser) error {
	tokenErr := b.Tokens.Clear(ctx)
	profileErr := b.Tokens.ClearProfile(ctx)
	if err := b.Store.Dispatch(session.Logout{}); err != nil {
		return err
	}
	c.metrics.SessionEvent("logout")
	c.logger.Info("logged out", slog.String("sid", b.SID))
	return errors.Join(tokenErr, profileErr)
}

func (c *Controller) failureMessage(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return FriendlyError(apiErr.Msg)
	}
	c.logger.Error("auth request failed", slog.String("error", err.Error()))
	return MsgGenericFailure
}

var friendly = []struct {
	needles []string
	message string
}{
	{[]string{"Invalid login credentials", "Credenciales inválidas"}, "Invalid email or password. Please try again."},
	{[]string{"User already registered", "ya está registrado"}, "An account with this email already exists. Please sign in instead."},
	{[]string{"Email not confirmed"}, "Please check your email and click the confirmation link before signing in."},
}

// FriendlyError maps known server messages to user-facing text.
// Anything unrecognised is returned unchanged.
func FriendlyError(msg string) string {
	for _, f := range friendly {
		for _, needle := range f.needles {
			if strings.Contains(msg, needle) {
				return f.message
			}
		}
	}
	return msg
}

func blockedMessage(remaining time.Duration) string {
	return fmt.Sprintf("Too many failed attempts. Try again in %s.", remaining.Round(time.Second))
}
