package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/fouad-abdeen/SocialApp-Server/internal/auth"
	"github.com/fouad-abdeen/SocialApp-Server/internal/config"
	"github.com/fouad-abdeen/SocialApp-Server/internal/mail"
	"github.com/fouad-abdeen/SocialApp-Server/internal/models"
	"github.com/fouad-abdeen/SocialApp-Server/internal/repository"
)

// usernameShape: starts with a letter, ends with a letter or digit,
// interior characters limited to letters, digits, '-', '_' and '.'.
// usernameDoubleSpecial rejects two consecutive special characters,
// which the shape pattern alone cannot express.
var (
	usernameShape         = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_.-]*[a-zA-Z0-9]$`)
	usernameDoubleSpecial = regexp.MustCompile(`[_.-]{2}`)
)

// unverifiedAllowedPaths are the only endpoints reachable before email
// verification.
var unverifiedAllowedPaths = map[string]bool{
	"/auth/logout": true,
	"/auth/user":   true,
}

type SignUpRequest struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type AuthService interface {
	SignUp(ctx context.Context, req SignUpRequest) (*models.User, error)
	Authenticate(ctx context.Context, identifier, password string) (*models.User, *auth.TokenPair, error)
	SignOut(ctx context.Context, accessToken, refreshToken string) error
	Authorize(ctx context.Context, accessToken, refreshToken, requestPath string) (*models.User, *auth.TokenPair, error)
	VerifyEmailAddress(ctx context.Context, token string) error
	SendPasswordResetLink(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	UpdatePassword(ctx context.Context, user *models.User, currentPassword, newPassword string, terminateAllSessions bool) error
}

type authService struct {
	userRepo repository.UserRepository
	codec    *auth.TokenCodec
	hasher   *auth.CredentialHasher
	mailer   mail.Sender
	cfg      *config.Config
}

func NewAuthService(
	userRepo repository.UserRepository,
	codec *auth.TokenCodec,
	hasher *auth.CredentialHasher,
	mailer mail.Sender,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo: userRepo,
		codec:    codec,
		hasher:   hasher,
		mailer:   mailer,
		cfg:      cfg,
	}
}

func validateUsername(username string) error {
	if !usernameShape.MatchString(username) {
		return fmt.Errorf("%w: username must start with a letter, end with a letter or digit, and contain only letters, digits, '-', '_' or '.'", ErrValidation)
	}
	if usernameDoubleSpecial.MatchString(username) {
		return fmt.Errorf("%w: username must not contain consecutive special characters", ErrValidation)
	}
	return nil
}

func (s *authService) SignUp(ctx context.Context, req SignUpRequest) (*models.User, error) {
	if err := validateUsername(req.Username); err != nil {
		return nil, err
	}

	hash, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		Username:     strings.ToLower(req.Username),
		Email:        strings.ToLower(req.Email),
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}

	err = s.userRepo.CreateUser(ctx, user)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrDuplicateEmail):
		return nil, fmt.Errorf("%w: email taken", ErrConflict)
	case errors.Is(err, repository.ErrDuplicateUsername):
		return nil, fmt.Errorf("%w: username taken", ErrConflict)
	default:
		return nil, err
	}

	if err := s.sendEmailVerificationLink(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *authService) sendEmailVerificationLink(ctx context.Context, user *models.User) error {
	token, err := s.codec.GenerateToken(auth.TokenPayload{
		IdentityID: user.UserID,
		Email:      user.Email,
		TokenType:  auth.TokenTypeEmailVerification,
	}, s.cfg.EmailVerificationTokenTTL)
	if err != nil {
		return fmt.Errorf("generating email verification token: %w", err)
	}

	verificationURL := fmt.Sprintf("%s?token=%s", s.cfg.Frontend.EmailVerificationURL, token)
	recipient := mail.Recipient{Email: user.Email, Name: user.FirstName}

	if err := s.mailer.SendEmailVerification(ctx, recipient, verificationURL); err != nil {
		return fmt.Errorf("sending verification email: %w", err)
	}

	return nil
}

func (s *authService) Authenticate(ctx context.Context, identifier, password string) (*models.User, *auth.TokenPair, error) {
	var (
		user *models.User
		err  error
	)

	// An identifier containing '@' is treated as an email, anything else
	// as a username.
	identifier = strings.ToLower(identifier)
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.GetUserByEmail(ctx, identifier)
	} else {
		user, err = s.userRepo.GetUserByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, nil, err
	}

	s.pruneDenylist(user)

	if !s.hasher.VerifyPassword(password, user.PasswordHash) {
		return nil, nil, fmt.Errorf("%w: invalid password", ErrUnauthorized)
	}

	pair, err := s.mintTokenPair(user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// pruneDenylist drops expired denylist entries in a detached task. The
// login proceeds regardless of the outcome; a failed prune only means
// the dead entries linger until the next login.
func (s *authService) pruneDenylist(user *models.User) {
	now := time.Now().Unix()
	if len(user.TokensDenylist.Prune(now)) == len(user.TokensDenylist) {
		return
	}

	userID := user.UserID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.userRepo.PruneDenylistedTokens(ctx, userID, now); err != nil {
			log.Printf("failed to prune tokens denylist for user %s: %v", userID, err)
		}
	}()
}

func (s *authService) mintTokenPair(user *models.User) (*auth.TokenPair, error) {
	signedAt := time.Now().UnixMilli()

	accessToken, err := s.codec.GenerateToken(auth.TokenPayload{
		IdentityID: user.UserID,
		Email:      user.Email,
		TokenType:  auth.TokenTypeAccess,
		SignedAt:   signedAt,
	}, s.cfg.AccessTokenExpiresIn)
	if err != nil {
		return nil, fmt.Errorf("generating access token: %w", err)
	}

	refreshToken, err := s.codec.GenerateToken(auth.TokenPayload{
		IdentityID: user.UserID,
		Email:      user.Email,
		TokenType:  auth.TokenTypeRefresh,
		SignedAt:   signedAt,
	}, s.cfg.RefreshTokenExpiresIn)
	if err != nil {
		return nil, fmt.Errorf("generating refresh token: %w", err)
	}

	return &auth.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// SignOut denylists whichever of the two tokens still verifies. Broken or
// already-expired tokens are skipped; they cannot be replayed anyway.
func (s *authService) SignOut(ctx context.Context, accessToken, refreshToken string) error {
	var (
		entries models.DenylistedTokens
		email   string
	)

	for _, token := range []string{accessToken, refreshToken} {
		if token == "" {
			continue
		}
		payload, err := s.codec.VerifyToken(token, true)
		if err != nil || payload == nil {
			continue
		}
		entries = append(entries, models.DenylistedToken{Token: token, ExpiresIn: payload.ExpiresAt})
		email = payload.Email
	}

	if len(entries) == 0 {
		return nil
	}

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	cmd := repository.NewUpdate().AppendToSet("tokens_denylist", entries)
	if _, err := s.userRepo.UpdateUser(ctx, user.UserID, cmd); err != nil {
		return fmt.Errorf("denylisting session tokens: %w", err)
	}

	return nil
}

// Authorize resolves the presented tokens to a user. When the access
// token is missing or no longer valid it falls back to the refresh
// token, rotating the pair: the old refresh token is denylisted before
// the new pair is minted, so a stale refresh token cannot be replayed.
// The returned pair is non-nil only when rotation happened.
func (s *authService) Authorize(ctx context.Context, accessToken, refreshToken, requestPath string) (*models.User, *auth.TokenPair, error) {
	var accessPayload *auth.TokenPayload

	if accessToken != "" {
		// skipExpired: an expired access token is not an error here, it
		// just means the refresh path is taken.
		payload, err := s.codec.VerifyToken(accessToken, true)
		if err == nil && payload != nil && payload.TokenType == auth.TokenTypeAccess {
			accessPayload = payload
		}
	}

	var (
		user    *models.User
		newPair *auth.TokenPair
	)

	if accessPayload != nil {
		u, err := s.loadAuthorizedUser(ctx, accessPayload, accessToken)
		if err != nil {
			return nil, nil, err
		}
		user = u
	} else {
		u, pair, err := s.rotateTokens(ctx, refreshToken)
		if err != nil {
			return nil, nil, err
		}
		user = u
		newPair = pair
	}

	if !user.Verified && !unverifiedAllowedPaths[requestPath] {
		return nil, nil, fmt.Errorf("%w: please verify your email address first", ErrForbidden)
	}

	return user, newPair, nil
}

// loadAuthorizedUser loads the payload's identity and rejects stale or
// denylisted credentials.
func (s *authService) loadAuthorizedUser(ctx context.Context, payload *auth.TokenPayload, token string) (*models.User, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown identity", ErrUnauthorized)
		}
		return nil, err
	}

	// A token minted before the last password change belongs to a
	// terminated session.
	if payload.SignedAt > 0 && payload.SignedAt < user.PasswordUpdatedAt {
		return nil, fmt.Errorf("%w: session terminated by password change", ErrUnauthorized)
	}

	if user.TokensDenylist.Contains(token) {
		return nil, fmt.Errorf("%w: token has been revoked", ErrUnauthorized)
	}

	return user, nil
}

func (s *authService) rotateTokens(ctx context.Context, refreshToken string) (*models.User, *auth.TokenPair, error) {
	if refreshToken == "" {
		return nil, nil, fmt.Errorf("%w: authentication required", ErrUnauthorized)
	}

	payload, err := s.codec.VerifyToken(refreshToken, false)
	if err != nil || payload.TokenType != auth.TokenTypeRefresh {
		return nil, nil, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}

	user, err := s.loadAuthorizedUser(ctx, payload, refreshToken)
	if err != nil {
		return nil, nil, err
	}

	// Revoke the old refresh token first; if that fails the session
	// degrades to a full logout instead of handing out a fresh pair.
	cmd := repository.NewUpdate().AppendToSet("tokens_denylist", models.DenylistedTokens{
		{Token: refreshToken, ExpiresIn: payload.ExpiresAt},
	})
	if _, err := s.userRepo.UpdateUser(ctx, user.UserID, cmd); err != nil {
		log.Printf("failed to denylist rotated refresh token for user %s: %v", user.UserID, err)
		return nil, nil, fmt.Errorf("%w: session could not be refreshed", ErrUnauthorized)
	}

	pair, err := s.mintTokenPair(user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// VerifyEmailAddress consumes a single-use verification token: the user
// is marked verified and the token is denylisted so it cannot be
// replayed.
func (s *authService) VerifyEmailAddress(ctx context.Context, token string) error {
	payload, err := s.codec.VerifyToken(token, false)
	if err != nil || payload.TokenType != auth.TokenTypeEmailVerification {
		return fmt.Errorf("%w: invalid email verification token", ErrUnauthorized)
	}

	user, err := s.userRepo.GetUserByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: unknown identity", ErrUnauthorized)
		}
		return err
	}

	if user.TokensDenylist.Contains(token) {
		return fmt.Errorf("%w: token already used", ErrUnauthorized)
	}

	cmd := repository.NewUpdate().
		SetFields(map[string]interface{}{"verified": true}).
		AppendToSet("tokens_denylist", models.DenylistedTokens{
			{Token: token, ExpiresIn: payload.ExpiresAt},
		})

	if _, err := s.userRepo.UpdateUser(ctx, user.UserID, cmd); err != nil {
		return fmt.Errorf("marking email as verified: %w", err)
	}

	return nil
}

func (s *authService) SendPasswordResetLink(ctx context.Context, email string) error {
	user, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return err
	}

	if !user.Verified {
		return fmt.Errorf("%w: please verify your email address first", ErrForbidden)
	}

	token, err := s.codec.GenerateToken(auth.TokenPayload{
		IdentityID: user.UserID,
		Email:      user.Email,
		TokenType:  auth.TokenTypePasswordReset,
	}, s.cfg.PasswordResetTokenTTL)
	if err != nil {
		return fmt.Errorf("generating password reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s?token=%s", s.cfg.Frontend.PasswordResetURL, token)
	recipient := mail.Recipient{Email: user.Email, Name: user.FirstName}

	if err := s.mailer.SendPasswordReset(ctx, recipient, resetURL); err != nil {
		return fmt.Errorf("sending password reset email: %w", err)
	}

	return nil
}

// ResetPassword consumes a single-use reset token and terminates every
// session opened before the change.
func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	payload, err := s.codec.VerifyToken(token, false)
	if err != nil || payload.TokenType != auth.TokenTypePasswordReset {
		return fmt.Errorf("%w: invalid password reset token", ErrUnauthorized)
	}

	user, err := s.userRepo.GetUserByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: unknown identity", ErrUnauthorized)
		}
		return err
	}

	if !user.Verified {
		return fmt.Errorf("%w: please verify your email address first", ErrForbidden)
	}

	if user.TokensDenylist.Contains(token) {
		return fmt.Errorf("%w: token already used", ErrUnauthorized)
	}

	hash, err := s.hasher.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	cmd := repository.NewUpdate().
		SetFields(map[string]interface{}{
			"password_hash":       hash,
			"password_updated_at": time.Now().UnixMilli(),
		}).
		AppendToSet("tokens_denylist", models.DenylistedTokens{
			{Token: token, ExpiresIn: payload.ExpiresAt},
		})

	if _, err := s.userRepo.UpdateUser(ctx, user.UserID, cmd); err != nil {
		return fmt.Errorf("resetting password: %w", err)
	}

	return nil
}

// UpdatePassword changes an authenticated user's password. Only when the
// caller asks to terminate all sessions is passwordUpdatedAt bumped,
// which retroactively invalidates every previously issued token.
func (s *authService) UpdatePassword(ctx context.Context, user *models.User, currentPassword, newPassword string, terminateAllSessions bool) error {
	if !s.hasher.VerifyPassword(currentPassword, user.PasswordHash) {
		return fmt.Errorf("%w: current password is incorrect", ErrUnauthorized)
	}

	if currentPassword == newPassword {
		return fmt.Errorf("%w: new password must differ from the current one", ErrValidation)
	}

	hash, err := s.hasher.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	fields := map[string]interface{}{"password_hash": hash}
	if terminateAllSessions {
		fields["password_updated_at"] = time.Now().UnixMilli()
	}

	cmd := repository.NewUpdate().SetFields(fields)
	if _, err := s.userRepo.UpdateUser(ctx, user.UserID, cmd); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	return nil
}
