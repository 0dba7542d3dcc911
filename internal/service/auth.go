package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/walleto/walleto/internal/domain"
	"github.com/walleto/walleto/internal/mailer"
	"github.com/walleto/walleto/internal/store"
	"github.com/walleto/walleto/pkg/cryptox"
	"github.com/walleto/walleto/pkg/idx"
	"github.com/walleto/walleto/pkg/jwtx"
	"github.com/walleto/walleto/pkg/slogx"
)

var (
	// ErrEmailTaken is returned by Register when the email already has an account.
	ErrEmailTaken = errors.New("auth: email already registered")

	// ErrInvalidCredentials is returned by Login for an unknown email or a
	// wrong password. Deliberately a single error so callers cannot tell the
	// two apart.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrInvalidToken covers verification/reset tokens that are unknown,
	// already consumed, or expired.
	ErrInvalidToken = errors.New("auth: invalid or expired token")

	// ErrUserNotFound is returned by ForgotPassword for an unknown email.
	ErrUserNotFound = errors.New("auth: user not found")
)

// AuthService implements the account lifecycle: registration with email
// verification, login, and the two-step password reset flow.
type AuthService struct {
	Store  store.Store
	Signer jwtx.Signer
	Mailer mailer.Mailer

	// BaseURL is the public origin embedded in emailed links,
	// e.g. "https://walleto.example.com".
	BaseURL string

	// Issuer is stamped into the iss claim of every credential.
	Issuer string

	// TokenTTL is the lifetime of issued credentials. Zero means
	// jwtx.DefaultAccessTokenTTL.
	TokenTTL time.Duration
}

func NewAuthService(s store.Store, signer jwtx.Signer, m mailer.Mailer, baseURL, issuer string) *AuthService {
	return &AuthService{
		Store:   s,
		Signer:  signer,
		Mailer:  m,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Issuer:  issuer,
	}
}

// RegisterOutput is what a successful registration hands back: the stored
// user, a ready-to-use credential, and the verification link that was also
// emailed to the user.
type RegisterOutput struct {
	User            domain.User
	AccessToken     string
	VerificationURL string
}

// Register creates the account, issues a verification link, and signs a
// credential right away. Verification is advisory; an unverified account can
// use the service immediately.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (RegisterOutput, error) {
	log := slogx.FromContext(ctx)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return RegisterOutput{}, fmt.Errorf("hash password: %w", err)
	}

	rawToken, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return RegisterOutput{}, fmt.Errorf("generate verify token: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return err
		}
		return tx.Users().SetVerifyToken(ctx, user.ID,
			cryptox.FingerprintToken(rawToken), now.Add(domain.VerifyTokenTTL))
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return RegisterOutput{}, ErrEmailTaken
	}
	if err != nil {
		return RegisterOutput{}, fmt.Errorf("create user: %w", err)
	}

	verifyURL := s.BaseURL + "/v1/auth/verify-email/" + rawToken
	if err := s.Mailer.Send(ctx, mailer.Message{
		To:      email,
		Subject: "Verify your Walleto account",
		Body:    "Welcome to Walleto! Confirm your email address by opening:\n\n" + verifyURL + "\n\nThe link is valid for 24 hours.",
	}); err != nil {
		return RegisterOutput{}, fmt.Errorf("send verification mail: %w", err)
	}

	token, err := s.sign(user, now)
	if err != nil {
		return RegisterOutput{}, err
	}

	log.Info("user registered", "user_id", user.ID)
	return RegisterOutput{User: user, AccessToken: token, VerificationURL: verifyURL}, nil
}

// VerifyEmail consumes a verification link token and marks the account
// verified. Unknown, consumed and expired tokens are indistinguishable.
func (s *AuthService) VerifyEmail(ctx context.Context, rawToken string) error {
	now := time.Now().UTC()

	user, err := s.Store.Users().GetUserByVerifyToken(ctx, cryptox.FingerprintToken(rawToken), now)
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidToken
	}
	if err != nil {
		return fmt.Errorf("lookup verify token: %w", err)
	}

	if err := s.Store.Users().MarkVerified(ctx, user.ID); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}

	slogx.FromContext(ctx).Info("email verified", "user_id", user.ID)
	return nil
}

// Login checks the password and issues a credential. The same
// ErrInvalidCredentials comes back whether the email is unknown or the
// password is wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, "", fmt.Errorf("lookup user: %w", err)
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return domain.User{}, "", ErrInvalidCredentials
		}
		return domain.User{}, "", fmt.Errorf("verify password: %w", err)
	}

	token, err := s.sign(user, time.Now().UTC())
	if err != nil {
		return domain.User{}, "", err
	}

	slogx.FromContext(ctx).Info("user logged in", "user_id", user.ID)
	return user, token, nil
}

// ForgotPassword issues a reset link for the account behind email.
// ErrUserNotFound for an unknown address.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}

	rawToken, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	now := time.Now().UTC()
	if err := s.Store.Users().SetResetToken(ctx, user.ID,
		cryptox.FingerprintToken(rawToken), now.Add(domain.ResetTokenTTL)); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	resetURL := s.BaseURL + "/v1/auth/reset-password/" + rawToken
	if err := s.Mailer.Send(ctx, mailer.Message{
		To:      user.Email,
		Subject: "Reset your Walleto password",
		Body:    "A password reset was requested for your account. Open:\n\n" + resetURL + "\n\nThe link is valid for 1 hour. If you did not request this, ignore this email.",
	}); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}

	slogx.FromContext(ctx).Info("password reset requested", "user_id", user.ID)
	return nil
}

// ResetPassword consumes a reset link token and replaces the password. The
// token pair is cleared in the same write, so a link works exactly once.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	now := time.Now().UTC()

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByResetToken(ctx, cryptox.FingerprintToken(rawToken), now)
		if err != nil {
			return err
		}
		return tx.Users().UpdatePasswordHash(ctx, user.ID, hash)
	})
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidToken
	}
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	slogx.FromContext(ctx).Info("password reset completed")
	return nil
}

func (s *AuthService) sign(user domain.User, now time.Time) (string, error) {
	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	claims := jwtx.NewAccessClaims(user.ID, user.Name, user.Email, ttl, s.Issuer, now)
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("sign credential: %w", err)
	}
	return token, nil
}
