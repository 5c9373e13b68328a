package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/bvzombies/internal/dependencies/clock"
	"github.com/mcoot/bvzombies/internal/dependencies/random"
	"github.com/mcoot/bvzombies/internal/model"
	"github.com/mcoot/bvzombies/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingCredentials = errors.New("email and password are required")
	ErrTokenMissing       = errors.New("token not provided")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrForbidden          = errors.New("not allowed")
)

// ValidationError is a registration field that failed a rule
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

const (
	minUsernameLength = 3
	minPasswordLength = 8
)

var usernamePattern = regexp.MustCompile(fmt.Sprintf(`^[A-Za-z0-9_]{%d,}$`, minUsernameLength))

// Claims is the payload of issued tokens
type Claims struct {
	UserID model.UserID `json:"user_id"`
	jwt.RegisteredClaims
}

// Service owns accounts and issues bearer tokens
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random

	secret      []byte
	tokenTTL    time.Duration
	adminEmails map[string]bool
}

// Config holds configuration for the auth service
type Config struct {
	Secret      string
	TokenTTL    time.Duration
	AdminEmails []string
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		Secret:   "super-secret",
		TokenTTL: 24 * time.Hour,
	}
}

// New creates a new auth service
func New(storage storage.Storage, clock clock.Clock, random random.Random, cfg Config) *Service {
	defaults := DefaultConfig()
	if cfg.Secret == "" {
		cfg.Secret = defaults.Secret
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = defaults.TokenTTL
	}
	admins := make(map[string]bool, len(cfg.AdminEmails))
	for _, email := range cfg.AdminEmails {
		admins[strings.ToLower(strings.TrimSpace(email))] = true
	}
	return &Service{
		storage:     storage,
		clock:       clock,
		random:      random,
		secret:      []byte(cfg.Secret),
		tokenTTL:    cfg.TokenTTL,
		adminEmails: admins,
	}
}

// Register creates an account. The caller is not signed in.
func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" ||
		req.VerifyPassword == "" || req.Age == "" || req.Country == "" {
		return nil, &ValidationError{"Todos los campos son obligatorios."}
	}
	if !usernamePattern.MatchString(req.Username) {
		return nil, &ValidationError{fmt.Sprintf("El nombre de usuario debe tener al menos %d caracteres alfanuméricos o guion bajo.", minUsernameLength)}
	}
	if len(req.Password) < minPasswordLength {
		return nil, &ValidationError{fmt.Sprintf("La contraseña debe tener al menos %d caracteres.", minPasswordLength)}
	}
	if req.Password != req.VerifyPassword {
		return nil, &ValidationError{"Las contraseñas no coinciden."}
	}
	age, err := strconv.Atoi(strings.TrimSpace(req.Age))
	if err != nil || age <= 0 {
		return nil, &ValidationError{"La edad debe ser un número válido."}
	}

	if _, err := s.storage.GetAccountByUsername(ctx, req.Username); err == nil {
		return nil, model.ErrUsernameTaken
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.storage.GetAccountByEmail(ctx, req.Email); err == nil {
		return nil, model.ErrEmailTaken
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	role := model.RolePlayer
	if s.adminEmails[strings.ToLower(req.Email)] {
		role = model.RoleAdmin
	}

	account := &model.Account{
		User: model.User{
			ID:        model.UserID(uuid.NewString()),
			Username:  req.Username,
			Email:     req.Email,
			Age:       age,
			Country:   req.Country,
			Language:  req.Language,
			Role:      role,
			CreatedAt: &now,
		},
		PasswordHash:      string(hash),
		VerificationToken: s.random.Token(),
	}

	if err := s.storage.SaveAccount(ctx, account); err != nil {
		return nil, err
	}

	user := account.User
	return &user, nil
}

// Login checks credentials and issues a token
func (s *Service) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	if email == "" || password == "" {
		return "", nil, ErrMissingCredentials
	}

	account, err := s.storage.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(account.ID)
	if err != nil {
		return "", nil, err
	}

	user := account.User
	return token, &user, nil
}

// Authenticate resolves a bearer token to its user
func (s *Service) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrTokenMissing
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	account, err := s.storage.GetAccount(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	user := account.User
	return &user, nil
}

// UpdateDisplayName changes the user's display name
func (s *Service) UpdateDisplayName(ctx context.Context, id model.UserID, displayName string) (*model.User, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, &ValidationError{"El nombre visible es obligatorio."}
	}

	account, err := s.storage.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	account.DisplayName = displayName
	if err := s.storage.SaveAccount(ctx, account); err != nil {
		return nil, err
	}

	user := account.User
	return &user, nil
}

// GameAccess returns the game grant for a signed-in user
func (s *Service) GameAccess(user *model.User) model.GameData {
	return model.GameData{
		Authorized: true,
		PlayerID:   user.ID,
		Username:   user.Username,
	}
}

// Stats returns statistics for a user. Only the user or an admin may read them.
// No games are recorded yet, so every counter is zero.
func (s *Service) Stats(ctx context.Context, caller *model.User, id model.UserID) (model.GameStats, error) {
	if caller.ID != id && !caller.IsAdmin() {
		return model.GameStats{}, ErrForbidden
	}
	if _, err := s.storage.GetAccount(ctx, id); err != nil {
		return model.GameStats{}, err
	}
	return model.GameStats{}, nil
}

// CanWriteStats reports whether caller may update id's statistics
func (s *Service) CanWriteStats(caller *model.User, id model.UserID) error {
	if caller.ID != id && !caller.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

func (s *Service) issueToken(id model.UserID) (string, error) {
	now := s.clock.Now()
	claims := Claims{
		UserID: id,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}
