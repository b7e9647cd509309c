package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domainAccount "trusthire/internal/domain/account"
	domainNotification "trusthire/internal/domain/notification"
	"trusthire/internal/events"
	"trusthire/internal/logger"
	"trusthire/internal/metrics"
	"trusthire/internal/notify"
	"trusthire/internal/otp"
	appErrors "trusthire/pkg/errors"
	"trusthire/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CodeDeliverer hands a freshly issued code to the account owner.
type CodeDeliverer interface {
	DeliverCode(ctx context.Context, to notify.Recipient, code string) error
}

// Notifier records in-app notifications. Implementations swallow their own
// failures.
type Notifier interface {
	Notify(ctx context.Context, accountID uuid.UUID, t domainNotification.Type, title, message string)
	DeleteForAccount(ctx context.Context, accountID uuid.UUID) error
}

type Deps struct {
	Accounts domainAccount.Repository
	OTP      *otp.Manager
	Tokens   *utils.TokenManager
	Delivery CodeDeliverer
	Notifier Notifier
	Events   events.Publisher
	Metrics  *metrics.Metrics
}

// Service drives an account through registration, verification and login.
type Service struct {
	accounts domainAccount.Repository
	otp      *otp.Manager
	tokens   *utils.TokenManager
	delivery CodeDeliverer
	notifier Notifier
	events   events.Publisher
	metrics  *metrics.Metrics
}

func NewService(deps Deps) *Service {
	s := &Service{
		accounts: deps.Accounts,
		otp:      deps.OTP,
		tokens:   deps.Tokens,
		delivery: deps.Delivery,
		notifier: deps.Notifier,
		events:   deps.Events,
		metrics:  deps.Metrics,
	}

	if s.otp == nil {
		s.otp = otp.NewManager(otp.DefaultTTL)
	}
	if s.delivery == nil {
		s.delivery = notify.NewDispatcher(nil, nil)
	}
	if s.events == nil {
		s.events = events.NoopPublisher{}
	}

	return s
}

// Register creates a pending account and sends it a verification code. The
// account and its first code are written in one insert; a failed delivery
// does not undo the registration.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AccountResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	role, err := domainAccount.ParseRole(req.Role)
	if err != nil || !role.SelfRegistrable() {
		return nil, appErrors.NewValidationError("role must be one of [worker employer]", err)
	}

	email := utils.SanitizeEmail(req.Email)

	// Best-effort early exit; the store's unique index is the real guard.
	existing, err := s.accounts.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domainAccount.ErrAccountNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if err := domainAccount.Allow(existing, domainAccount.ActionRegister); err != nil {
		logger.Warn("Registration attempt with existing email",
			zap.String("email", email),
			zap.String("event", "registration_failed_duplicate_email"),
		)
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	a := &domainAccount.Account{
		Name:           utils.SanitizeString(req.Name),
		Email:          email,
		PasswordHashed: hashedPassword,
		Phone:          utils.SanitizeOptional(req.Phone, utils.SanitizePhone),
		Role:           role,
	}

	code, err := s.otp.Issue(a)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.Create(ctx, a); err != nil {
		if errors.Is(err, domainAccount.ErrAccountAlreadyExists) {
			logger.Warn("Registration lost race on existing email",
				zap.String("email", email),
				zap.String("event", "registration_failed_duplicate_email"),
			)
		}
		return nil, err
	}

	s.metrics.Registration()
	s.metrics.OTPIssued()

	logger.Info("User registered successfully",
		zap.String("user_id", a.ID.String()),
		zap.String("email", a.Email),
		zap.String("role", a.Role.String()),
		zap.String("event", "user_registered"),
	)

	s.deliverCode(ctx, a, code)
	s.publish(ctx, events.AccountRegistered, a)

	return ToAccountResponse(a), nil
}

// VerifyOTP checks the submitted code. A wrong or expired code leaves the
// account as it was.
func (s *Service) VerifyOTP(ctx context.Context, req *VerifyOTPRequest) (*AccountResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	a, err := s.accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	loadedCode := a.OTPCode
	if err := s.otp.Verify(a, strings.TrimSpace(req.OTP)); err != nil {
		s.metrics.OTPVerification(false)
		logger.Warn("OTP verification failed",
			zap.String("user_id", a.ID.String()),
			zap.Error(err),
			zap.String("event", "otp_verification_failed"),
		)
		return nil, err
	}

	if err := s.accounts.UpdateVerification(ctx, a, loadedCode); err != nil {
		if errors.Is(err, domainAccount.ErrAlreadyVerified) || errors.Is(err, domainAccount.ErrInvalidCode) {
			s.metrics.OTPVerification(false)
			return nil, err
		}
		return nil, fmt.Errorf("failed to persist verification: %w", err)
	}

	s.metrics.OTPVerification(true)

	logger.Info("Email verified",
		zap.String("user_id", a.ID.String()),
		zap.String("email", a.Email),
		zap.String("event", "otp_verified"),
	)

	s.notify(ctx, a.ID, domainNotification.TypeWelcome,
		"Welcome to TrustHire",
		fmt.Sprintf("Hi %s, your email is verified and your account is ready.", a.Name),
	)
	s.publish(ctx, events.AccountVerified, a)

	return ToAccountResponse(a), nil
}

// ResendOTP replaces the pending code with a fresh one. Only the latest code
// is valid afterwards.
func (s *Service) ResendOTP(ctx context.Context, req *ResendOTPRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	a, err := s.accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		return err
	}

	loadedCode := a.OTPCode
	code, err := s.otp.Reissue(a)
	if err != nil {
		return err
	}

	if err := s.accounts.UpdateVerification(ctx, a, loadedCode); err != nil {
		switch {
		case errors.Is(err, domainAccount.ErrAlreadyVerified):
			return err
		case errors.Is(err, domainAccount.ErrInvalidCode):
			// A concurrent resend already stored and sent a newer code.
			logger.Info("OTP resend superseded",
				zap.String("user_id", a.ID.String()),
				zap.String("event", "otp_resend_superseded"),
			)
			return nil
		}
		return fmt.Errorf("failed to persist otp: %w", err)
	}

	s.metrics.OTPIssued()

	logger.Info("OTP reissued",
		zap.String("user_id", a.ID.String()),
		zap.String("event", "otp_resent"),
	)

	s.deliverCode(ctx, a, code)
	return nil
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	a, err := s.checkCredentials(ctx, req)
	if err != nil {
		s.metrics.Login(false)
		return nil, err
	}

	return s.startSession(a)
}

// AdminLogin is Login restricted to admin accounts. Any other account gets the
// same failure as a wrong password.
func (s *Service) AdminLogin(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	a, err := s.checkCredentials(ctx, req)
	if err == nil && a.Role != domainAccount.RoleAdmin {
		logger.Warn("Admin login attempt by non-admin account",
			zap.String("user_id", a.ID.String()),
			zap.String("role", a.Role.String()),
			zap.String("event", "admin_login_failed_role"),
		)
		err = appErrors.ErrInvalidCredentials
	}
	if err != nil {
		s.metrics.Login(false)
		return nil, err
	}

	return s.startSession(a)
}

// checkCredentials returns the account only for a correct password on a
// verified account. Unknown emails and wrong passwords are indistinguishable.
func (s *Service) checkCredentials(ctx context.Context, req *LoginRequest) (*domainAccount.Account, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	a, err := s.accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainAccount.ErrAccountNotFound) {
			utils.BurnPasswordCheck(req.Password)
			logger.Warn("Login attempt with unknown email",
				zap.String("event", "login_failed_unknown_email"),
			)
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := utils.CheckPassword(a.PasswordHashed, req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to check password for user %s: %w", a.ID, err)
	}
	if !ok {
		logger.Warn("Login attempt with invalid password",
			zap.String("user_id", a.ID.String()),
			zap.String("event", "login_failed_invalid_password"),
		)
		return nil, appErrors.ErrInvalidCredentials
	}

	if err := domainAccount.Allow(a, domainAccount.ActionLogin); err != nil {
		logger.Warn("Login attempt before verification",
			zap.String("user_id", a.ID.String()),
			zap.String("event", "login_failed_unverified"),
		)
		return nil, err
	}

	return a, nil
}

func (s *Service) startSession(a *domainAccount.Account) (*AuthResponse, error) {
	token, expiresAt, err := s.tokens.Issue(a.ID, a.Email, a.Role.String())
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.metrics.Login(true)

	logger.Info("User logged in successfully",
		zap.String("user_id", a.ID.String()),
		zap.String("role", a.Role.String()),
		zap.String("event", "login_success"),
	)

	return &AuthResponse{
		User:      ToAccountResponse(a),
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
	}, nil
}

func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*AccountResponse, error) {
	a, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToAccountResponse(a), nil
}

func (s *Service) GetAccount(ctx context.Context, id uuid.UUID) (*PublicAccountResponse, error) {
	a, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToPublicAccountResponse(a), nil
}

// UpdateProfile applies the fields present in req. Email and role never change.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest) (*AccountResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	a, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		a.Name = utils.SanitizeString(*req.Name)
	}
	if req.Phone != nil {
		a.Phone = utils.SanitizeOptional(req.Phone, utils.SanitizePhone)
	}
	if req.Bio != nil {
		a.Bio = utils.SanitizeOptional(req.Bio, utils.SanitizeText)
	}
	if req.Skills != nil {
		a.Skills = utils.SanitizeOptional(req.Skills, utils.SanitizeText)
	}

	if err := s.accounts.UpdateProfile(ctx, a); err != nil {
		return nil, err
	}

	logger.Info("Profile updated",
		zap.String("user_id", a.ID.String()),
		zap.String("event", "profile_updated"),
	)

	s.notify(ctx, a.ID, domainNotification.TypeProfileUpdate,
		"Profile updated",
		"Your profile information was updated.",
	)

	return ToAccountResponse(a), nil
}

// ChangePassword replaces the password hash after checking the current
// password. Verification state is untouched.
func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, req *ChangePasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	a, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return err
	}

	ok, err := utils.CheckPassword(a.PasswordHashed, req.CurrentPassword)
	if err != nil {
		return fmt.Errorf("failed to check password for user %s: %w", a.ID, err)
	}
	if !ok {
		logger.Warn("Password change with wrong current password",
			zap.String("user_id", a.ID.String()),
			zap.String("event", "password_change_failed"),
		)
		return appErrors.ErrInvalidCredentials
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.accounts.UpdatePassword(ctx, a.ID, hashedPassword); err != nil {
		return err
	}

	logger.Info("Password changed",
		zap.String("user_id", a.ID.String()),
		zap.String("event", "password_changed"),
	)

	s.notify(ctx, a.ID, domainNotification.TypePasswordChanged,
		"Password changed",
		"Your password was changed. If this wasn't you, contact support immediately.",
	)

	return nil
}

func (s *Service) deliverCode(ctx context.Context, a *domainAccount.Account, code string) {
	to := notify.Recipient{Email: a.Email, Phone: a.Phone, Name: a.Name}
	if err := s.delivery.DeliverCode(ctx, to, code); err != nil {
		logger.Warn("OTP delivery incomplete",
			zap.String("user_id", a.ID.String()),
			zap.Error(err),
			zap.String("event", "otp_delivery_failed"),
		)
	}
}

func (s *Service) notify(ctx context.Context, accountID uuid.UUID, t domainNotification.Type, title, message string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, accountID, t, title, message)
}

func (s *Service) publish(ctx context.Context, t events.Type, a *domainAccount.Account) {
	event := events.Event{
		Type:       t,
		AccountID:  a.ID,
		Email:      a.Email,
		Role:       a.Role.String(),
		OccurredAt: time.Now().UTC(),
	}

	if err := s.events.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish account event",
			zap.String("user_id", a.ID.String()),
			zap.String("type", string(t)),
			zap.Error(err),
			zap.String("event", "account_event_publish_failed"),
		)
	}
}
