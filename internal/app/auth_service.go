package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"goboard/internal/model"
	"goboard/internal/repository"
)

var ErrInvalidInput = errors.New("invalid input")

// bcrypt truncates nothing: it rejects inputs over 72 bytes outright, so the
// bound has to be enforced as a field error before hashing.
const maxPasswordBytes = 72

func validPassword(field, password string) *UserResult {
	if len(password) <= 2 {
		return fieldError(field, "length must be greater than 2")
	}
	if len(password) > maxPasswordBytes {
		return fieldError(field, "length must be at most 72 bytes")
	}
	return nil
}

// FieldError is a user-correctable failure tied to one form field. It is
// returned as data, never as a Go error: the client maps it back onto the
// matching input.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// UserResult carries either the affected user or field errors, never both.
type UserResult struct {
	User   *model.User  `json:"user,omitempty"`
	Errors []FieldError `json:"errors,omitempty"`
}

func fieldError(field, message string) *UserResult {
	return &UserResult{Errors: []FieldError{{Field: field, Message: message}}}
}

// Session is the per-request login state, created by the transport layer
// and passed explicitly into each operation that reads or writes it.
type Session interface {
	UserID() uint
	SetUserID(id uint) error
	Clear() error
}

// UserRepository is the persistence contract the service needs; the GORM
// implementation lives in internal/repository.
type UserRepository interface {
	Create(user *model.User) error
	GetByID(id uint) (*model.User, error)
	GetByUsername(username string) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	UpdatePassword(id uint, passwordHash string) error
}

// ResetTokenStore holds single-use password-reset tokens with a fixed TTL.
type ResetTokenStore interface {
	Set(ctx context.Context, token string, userID uint) error
	Get(ctx context.Context, token string) (uint, bool, error)
	Delete(ctx context.Context, token string) error
}

type EmailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}

type AuthService struct {
	users     UserRepository
	tokens    ResetTokenStore
	mailer    EmailSender
	clientURL string
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	UsernameOrEmail string
	Password        string
}

type ChangePasswordInput struct {
	Token       string
	NewPassword string
}

func NewAuthService(users UserRepository, tokens ResetTokenStore, mailer EmailSender, clientURL string) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		mailer:    mailer,
		clientURL: strings.TrimRight(clientURL, "/"),
	}
}

// Register creates an account and logs the caller in. Validation stops at
// the first failing field, so a result carries at most one field error.
func (s *AuthService) Register(ctx context.Context, sess Session, input RegisterInput) (*UserResult, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)

	if !strings.Contains(email, "@") {
		return fieldError("email", "invalid email"), nil
	}
	if len(username) <= 2 {
		return fieldError("username", "length must be greater than 2"), nil
	}
	if strings.Contains(username, "@") {
		return fieldError("username", "cannot include an @"), nil
	}
	if result := validPassword("password", input.Password); result != nil {
		return result, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			// Both username and email are unique; re-query to find out
			// which one collided. The colliding row can vanish between the
			// insert and this lookup, in which case email is blamed as the
			// remaining candidate.
			existing, lookupErr := s.users.GetByUsername(username)
			if lookupErr != nil {
				return nil, lookupErr
			}
			if existing != nil {
				return fieldError("username", "username already taken"), nil
			}
			return fieldError("email", "email already taken"), nil
		}
		return nil, err
	}

	if err := sess.SetUserID(user.ID); err != nil {
		return nil, fmt.Errorf("save session failed: %w", err)
	}
	return &UserResult{User: user}, nil
}

// Login authenticates by username or email; an identifier containing "@" is
// treated as an email.
func (s *AuthService) Login(ctx context.Context, sess Session, input LoginInput) (*UserResult, error) {
	identifier := strings.TrimSpace(input.UsernameOrEmail)

	var user *model.User
	var err error
	if strings.Contains(identifier, "@") {
		user, err = s.users.GetByEmail(identifier)
	} else {
		user, err = s.users.GetByUsername(identifier)
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		return fieldError("usernameOrEmail", "that account doesn't exist"), nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return fieldError("password", "incorrect password"), nil
	}

	if err := sess.SetUserID(user.ID); err != nil {
		return nil, fmt.Errorf("save session failed: %w", err)
	}
	return &UserResult{User: user}, nil
}

// Logout destroys the session and expires the cookie. Calling it without an
// active session is fine and still reports success.
func (s *AuthService) Logout(ctx context.Context, sess Session) bool {
	if err := sess.Clear(); err != nil {
		log.Printf("destroy session failed: %v", err)
		return false
	}
	return true
}

// ForgotPassword always reports success so callers cannot probe which
// emails have accounts. Only a matching email produces a token and a mail.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (bool, error) {
	user, err := s.users.GetByEmail(strings.TrimSpace(email))
	if err != nil {
		return false, err
	}
	if user == nil {
		return true, nil
	}

	token := uuid.NewString()
	if err := s.tokens.Set(ctx, token, user.ID); err != nil {
		return false, err
	}

	link := fmt.Sprintf("%s/change-password/%s", s.clientURL, token)
	html := fmt.Sprintf(`<a href="%s">reset password</a>`, link)
	if err := s.mailer.Send(ctx, user.Email, "Change password", html); err != nil {
		return false, err
	}
	return true, nil
}

// ChangePassword consumes a reset token: the password row is updated first
// and the token deleted after, so a crash in between leaves a token that can
// be retried rather than one consumed for nothing. The TTL bounds a token
// that escapes deletion.
func (s *AuthService) ChangePassword(ctx context.Context, sess Session, input ChangePasswordInput) (*UserResult, error) {
	if result := validPassword("newPassword", input.NewPassword); result != nil {
		return result, nil
	}

	userID, found, err := s.tokens.Get(ctx, input.Token)
	if err != nil {
		return nil, err
	}
	if !found {
		return fieldError("token", "token expired"), nil
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return fieldError("token", "token expired"), nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}
	if err := s.users.UpdatePassword(user.ID, string(hash)); err != nil {
		return nil, err
	}
	user.PasswordHash = string(hash)

	if err := s.tokens.Delete(ctx, input.Token); err != nil {
		log.Printf("delete reset token failed: %v", err)
	}

	if err := sess.SetUserID(user.ID); err != nil {
		return nil, fmt.Errorf("save session failed: %w", err)
	}
	return &UserResult{User: user}, nil
}

// CurrentUser resolves the session to a user, nil when anonymous.
func (s *AuthService) CurrentUser(ctx context.Context, sess Session) (*model.User, error) {
	userID := sess.UserID()
	if userID == 0 {
		return nil, nil
	}
	return s.users.GetByID(userID)
}
