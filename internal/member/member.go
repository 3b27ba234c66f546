// Package member handles demo login, registration and session tokens.
// Accounts live in process memory only.
package member

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/dwikikusuma/ec-training/internal/apperr"
)

type Rank string

const (
	RankGeneral Rank = "general"
	RankSilver  Rank = "silver"
	RankGold    Rank = "gold"
)

const StatusActive = "active"

const (
	DemoEmail    = "test@example.com"
	DemoPassword = "password"
	DemoID       = int64(1)
)

var ErrInvalidCredentials = fmt.Errorf("%w: email or password is incorrect", apperr.ErrValidation)

type Member struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Points    int       `json:"points"`
	Rank      Rank      `json:"rank"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type RegisterInput struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Member    Member    `json:"member"`
}

type account struct {
	Member
	hash []byte
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithTTL(ttl time.Duration) Option {
	return func(s *Service) { s.ttl = ttl }
}

// WithCost sets the bcrypt cost; tests lower it.
func WithCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

type Service struct {
	secret   []byte
	validate *validator.Validate
	now      func() time.Time
	ttl      time.Duration
	cost     int

	mu      sync.RWMutex
	byEmail map[string]*account
	byID    map[int64]*account
	nextID  int64
}

// NewService returns a service holding only the demo member.
func NewService(secret string, opts ...Option) (*Service, error) {
	s := &Service{
		secret:   []byte(secret),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
		ttl:      7 * 24 * time.Hour,
		cost:     bcrypt.DefaultCost,
		byEmail:  make(map[string]*account),
		byID:     make(map[int64]*account),
		nextID:   DemoID + 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if len(s.secret) == 0 {
		return nil, errors.New("member: empty signing secret")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}
	s.put(&account{
		Member: Member{
			ID:        DemoID,
			Name:      "Test User",
			Email:     DemoEmail,
			Points:    500,
			Rank:      RankGeneral,
			Status:    StatusActive,
			CreatedAt: s.now(),
		},
		hash: hash,
	})
	return s, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) put(a *account) {
	s.byEmail[a.Email] = a
	s.byID[a.ID] = a
}

// Register creates an active general-rank member with no points.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Member, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)

	if err := s.validate.StructCtx(ctx, in); err != nil {
		return Member{}, validationError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return Member{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[in.Email]; ok {
		return Member{}, fmt.Errorf("%w: email %s is already registered", apperr.ErrValidation, in.Email)
	}

	a := &account{
		Member: Member{
			ID:        s.nextID,
			Name:      in.Name,
			Email:     in.Email,
			Rank:      RankGeneral,
			Status:    StatusActive,
			CreatedAt: s.now(),
		},
		hash: hash,
	}
	s.nextID++
	s.put(a)
	return a.Member, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	s.mu.RLock()
	a, ok := s.byEmail[normalizeEmail(email)]
	s.mu.RUnlock()
	if !ok {
		return Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.issue(a.Member)
}

func (s *Service) issue(m Member) (Session, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(m.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	token, err := t.SignedString(s.secret)
	if err != nil {
		return Session{}, fmt.Errorf("sign session: %w", err)
	}
	return Session{Token: token, ExpiresAt: exp, Member: m}, nil
}

// Authenticate resolves a session token to its member.
func (s *Service) Authenticate(ctx context.Context, token string) (Member, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Member{}, fmt.Errorf("%w: invalid session: %v", apperr.ErrValidation, err)
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return Member{}, fmt.Errorf("%w: invalid session subject", apperr.ErrValidation)
	}
	return s.Get(ctx, id)
}

func (s *Service) Get(_ context.Context, id int64) (Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byID[id]
	if !ok {
		return Member{}, fmt.Errorf("%w: member %d", apperr.ErrNotFound, id)
	}
	return a.Member, nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", apperr.ErrValidation, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "eqfield":
		return fe.Field() + " must match " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}
