package cli

import (
	"errors"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/bvzombies/internal/apiclient"
	"github.com/mcoot/bvzombies/internal/model"
	"github.com/mcoot/bvzombies/internal/services/login"
	"github.com/mcoot/bvzombies/internal/tokenstore"
	"github.com/mcoot/bvzombies/internal/validation"
)

// errNotSignedIn replaces the client's sentinels with something actionable
var errNotSignedIn = errors.New("not signed in: run 'bvz login' first")

func newRegisterCmd() *cobra.Command {
	var form validation.RegisterForm
	var age int

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new account",
		Long:  "Register a new account. Registering does not sign in; run 'bvz login' afterwards.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if form.VerifyPassword == "" {
				form.VerifyPassword = form.Password
			}
			form.Age = strconv.Itoa(age)
			if errs := validation.New().Register(form); len(errs) > 0 {
				return errors.New(strings.Join(errs, "; "))
			}

			envelope, err := client.Register(cmd.Context(), model.RegisterRequest{
				Username:       form.Username,
				Email:          form.Email,
				Password:       form.Password,
				VerifyPassword: form.VerifyPassword,
				Age:            form.Age,
				Country:        form.Country,
				Language:       form.Language,
			})
			if err != nil {
				return friendly(err)
			}

			msg := envelope.Msg
			if msg == "" {
				msg = login.MsgRegisterSuccess
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage(msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Email, "email", "", "Email (required)")
	cmd.Flags().StringVar(&form.Password, "password", "", "Password (required)")
	cmd.Flags().StringVar(&form.VerifyPassword, "verify-password", "", "Password confirmation (defaults to --password)")
	cmd.Flags().StringVar(&form.Username, "username", "", "Username (required)")
	cmd.Flags().IntVar(&age, "age", 0, "Age (required)")
	cmd.Flags().StringVar(&form.Country, "country", "", "Country (required)")
	cmd.Flags().StringVar(&form.Language, "language", "", "Preferred language")
	for _, name := range []string{"email", "password", "username", "age", "country"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			form := validation.LoginForm{Email: email, Password: password}
			if errs := validation.New().Login(form); len(errs) > 0 {
				return errors.New(strings.Join(errs, "; "))
			}

			envelope, err := client.Login(cmd.Context(), model.LoginRequest{Email: email, Password: password})
			if err != nil {
				return friendly(err)
			}
			if envelope.Token == "" {
				return errors.New("login failed: the server returned no token")
			}

			if err := tokens.Set(cmd.Context(), envelope.Token); err != nil {
				return err
			}
			if cache, ok := tokens.(tokenstore.ProfileCache); ok && envelope.User != nil {
				_ = cache.SaveProfile(cmd.Context(), envelope.User)
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			if envelope.User != nil {
				out.Print(*envelope.User)
				return nil
			}
			out.PrintMessage(login.MsgLoginSuccess)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := tokens.Clear(cmd.Context())
			if cache, ok := tokens.(tokenstore.ProfileCache); ok {
				err = errors.Join(err, cache.ClearProfile(cmd.Context()))
			}
			if err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage("Signed out")
			return nil
		},
	}
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the signed-in user's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := client.Profile(cmd.Context(), tokens)
			if err != nil {
				return sessionError(err)
			}
			if cache, ok := tokens.(tokenstore.ProfileCache); ok {
				_ = cache.SaveProfile(cmd.Context(), user)
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(*user)
			return nil
		},
	}

	cmd.AddCommand(newProfileUpdateCmd())
	return cmd
}

func newProfileUpdateCmd() *cobra.Command {
	var displayName string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change the display name",
		RunE: func(cmd *cobra.Command, args []string) error {
			displayName = strings.TrimSpace(displayName)
			if displayName == "" {
				return errors.New("--display-name cannot be empty")
			}
			user, err := client.UpdateProfile(cmd.Context(), tokens, displayName)
			if err != nil {
				return sessionError(err)
			}
			if user == nil {
				return errors.New("update failed: the server returned no profile")
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(*user)
			return nil
		},
	}

	cmd.Flags().StringVar(&displayName, "display-name", "", "New display name (required)")
	_ = cmd.MarkFlagRequired("display-name")
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [user-id]",
		Short: "Show game statistics (your own unless a user id is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id model.UserID
			if len(args) == 1 {
				id = model.UserID(args[0])
			} else {
				user, err := client.Profile(cmd.Context(), tokens)
				if err != nil {
					return sessionError(err)
				}
				id = user.ID
			}

			stats, err := client.Stats(cmd.Context(), tokens, id)
			if err != nil {
				return sessionError(err)
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(*stats)
			return nil
		},
	}
}

// friendly maps auth failures to the same text the web screen shows
func friendly(err error) error {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return errors.New(login.FriendlyError(apiErr.Msg))
	}
	return err
}

// sessionError explains a missing or rejected token
func sessionError(err error) error {
	switch {
	case errors.Is(err, apiclient.ErrUnauthenticated):
		return errNotSignedIn
	case errors.Is(err, apiclient.ErrSessionInvalid):
		return errors.New("session expired: run 'bvz login' again")
	default:
		return err
	}
}
