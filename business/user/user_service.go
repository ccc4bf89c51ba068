package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bazaarHub/domain"
	"bazaarHub/pkg/logger"
	"bazaarHub/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/pobyzaarif/goshortcute"
)

// UserRepository contract interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindAll(ctx context.Context, role string) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uint) error
	UpdateEmailVerification(ctx context.Context, id uint, isVerified bool) error
	SetBanned(ctx context.Context, id uint, banned bool) error
}

// NotificationRepository contract interface
type NotificationRepository interface {
	SendEmail(ctx context.Context, toName, toEmail, subject, message string) error
}

// TokenRepository keeps issued tokens so they can be revoked.
type TokenRepository interface {
	StoreToken(ctx context.Context, token string, session domain.Session, ttl time.Duration) error
	ValidateToken(ctx context.Context, token string) (domain.Session, error)
	RevokeToken(ctx context.Context, userID uint, token string) error
	RevokeUser(ctx context.Context, userID uint) error
}

type TokenIssuer interface {
	GenerateJWT(userID, role string) (string, error)
	TTL() time.Duration
}

type userService struct {
	userRepo                UserRepository
	tokenRepo               TokenRepository
	issuer                  TokenIssuer
	validate                *validator.Validate
	notifRepo               NotificationRepository
	appEmailVerificationKey string
	appDeploymentUrl        string
	now                     func() time.Time
}

const (
	verificationCodeTTL      = 5
	SubjectRegisterAccount   = "Activate Your Account!"
	EmailBodyRegisterAccount = `Hello %v, activate your account by opening the link below</br></br>%v</br>note: the link is valid for %v minutes`
)

func NewUserService(
	userRepo UserRepository,
	tokenRepo TokenRepository,
	issuer TokenIssuer,
	validate *validator.Validate,
	notifRepo NotificationRepository,
	appEmailVerificationKey string,
	appDeploymentUrl string,
) *userService {
	return &userService{
		userRepo:                userRepo,
		tokenRepo:               tokenRepo,
		issuer:                  issuer,
		validate:                validate,
		notifRepo:               notifRepo,
		appEmailVerificationKey: appEmailVerificationKey,
		appDeploymentUrl:        appDeploymentUrl,
		now:                     time.Now,
	}
}

// roles a caller may pick at registration; admins are provisioned out of band
var registrableRoles = map[string]bool{
	domain.RoleCustomer: true,
	domain.RoleVendor:   true,
}

var validRoles = map[string]bool{
	domain.RoleCustomer: true,
	domain.RoleVendor:   true,
	domain.RoleAdmin:    true,
}

func (s *userService) Register(ctx context.Context, user *domain.User) (domain.User, error) {
	if err := s.validate.Var(user.Email, "required,email"); err != nil {
		logger.Error("Invalid email format", err)
		return domain.User{}, fmt.Errorf("invalid email format: %w", domain.ErrValidation)
	}

	if err := s.validate.Var(user.Password, "required,min=6"); err != nil {
		logger.Error("Invalid user password", err)
		return domain.User{}, fmt.Errorf("password must be at least 6 characters: %w", domain.ErrValidation)
	}

	role := user.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	if !registrableRoles[role] {
		return domain.User{}, fmt.Errorf("role %q cannot be registered: %w", role, domain.ErrValidation)
	}

	existingUser, err := s.userRepo.FindByEmail(ctx, user.Email)
	if err == nil && existingUser.ID > 0 {
		logger.Error("Email already exists", "email", user.Email)
		return domain.User{}, fmt.Errorf("email already exists: %w", domain.ErrConflict)
	}

	passwordHash, err := utils.HashPassword(user.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return domain.User{}, errors.New("failed to hash password")
	}

	newUser := domain.User{
		FullName:   user.FullName,
		Email:      user.Email,
		Password:   string(passwordHash),
		IsVerified: false,
		Role:       role,
	}

	if err := s.userRepo.Create(ctx, &newUser); err != nil {
		logger.Error("Failed to create new user", err)
		return domain.User{}, err
	}

	activationLink, err := s.activationLink(newUser.Email)
	if err != nil {
		logger.Error("Failed to build activation link", err)
		return domain.User{}, err
	}

	err = s.notifRepo.SendEmail(ctx, newUser.FullName, newUser.Email, SubjectRegisterAccount,
		fmt.Sprintf(EmailBodyRegisterAccount, newUser.FullName, activationLink, verificationCodeTTL))
	if err != nil {
		logger.Warn("Failed to send verification email", "user_id", newUser.ID, err)
	}

	newUser.Password = ""
	return newUser, nil
}

func (s *userService) activationLink(email string) (string, error) {
	expAt := s.now().Add(verificationCodeTTL * time.Minute).Unix()

	verificationCode := fmt.Sprintf("%v|%v", email, expAt)
	verificationCodeEncrypt, err := goshortcute.AESCBCEncrypt([]byte(verificationCode), []byte(s.appEmailVerificationKey))
	if err != nil {
		return "", fmt.Errorf("failed to encrypt verification code: %w", err)
	}

	strEncode := goshortcute.StringtoBase64Encode(verificationCodeEncrypt)
	return s.appDeploymentUrl + "/api/v1/users/email-verification/" + strEncode, nil
}

func (s *userService) Login(ctx context.Context, email, password, ipAddress, userAgent string) (string, domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		logger.Error("Invalid user credentials", err)
		return "", domain.User{}, fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	}

	if !utils.CheckPassword(password, user.Password) {
		logger.Error("User password incorrect", "user_id", user.ID)
		return "", domain.User{}, fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	}

	if !user.IsVerified {
		logger.Error("Email address has not been verified", "user_id", user.ID)
		return "", domain.User{}, fmt.Errorf("email address has not been verified: %w", domain.ErrForbidden)
	}

	if user.IsBanned {
		logger.Warn("Banned user tried to log in", "user_id", user.ID)
		return "", domain.User{}, fmt.Errorf("account is banned: %w", domain.ErrForbidden)
	}

	token, err := s.issuer.GenerateJWT(strconv.FormatUint(uint64(user.ID), 10), user.Role)
	if err != nil {
		logger.Error("Failed to generate token", err)
		return "", domain.User{}, errors.New("failed to generate token")
	}

	now := s.now()
	session := domain.Session{
		UserID:    user.ID,
		Role:      user.Role,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.issuer.TTL()),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
	if err := s.tokenRepo.StoreToken(ctx, token, session, s.issuer.TTL()); err != nil {
		logger.Error("Failed to store session", err)
		return "", domain.User{}, err
	}

	user.Password = ""
	return token, user, nil
}

// ValidateSession returns the user id a live token belongs to.
func (s *userService) ValidateSession(ctx context.Context, token string) (uint, error) {
	session, err := s.tokenRepo.ValidateToken(ctx, token)
	if err != nil {
		return 0, fmt.Errorf("%v: %w", err, domain.ErrUnauthorized)
	}

	return session.UserID, nil
}

func (s *userService) Logout(ctx context.Context, userID uint, token string) error {
	if err := s.tokenRepo.RevokeToken(ctx, userID, token); err != nil {
		logger.Error("Failed to revoke token", "user_id", userID, err)
		return err
	}

	return nil
}

func (s *userService) VerifyEmail(ctx context.Context, verificationCodeEncrypt string) error {
	strDecode := goshortcute.StringtoBase64Decode(verificationCodeEncrypt)
	verificationCodeDecrypt, err := goshortcute.AESCBCDecrypt([]byte(strDecode), []byte(s.appEmailVerificationKey))
	if err != nil {
		logger.Error("Verifying email error", err)
		return fmt.Errorf("invalid or expired url: %w", domain.ErrValidation)
	}

	verificationCode := strings.Split(verificationCodeDecrypt, "|")
	if len(verificationCode) != 2 {
		logger.Error("Verifying email error", "code", verificationCodeDecrypt)
		return fmt.Errorf("invalid or expired url: %w", domain.ErrValidation)
	}

	email := verificationCode[0]
	ts, err := strconv.ParseInt(verificationCode[1], 10, 64)
	if err != nil {
		logger.Error("Verifying email error", err)
		return fmt.Errorf("invalid or expired url: %w", domain.ErrValidation)
	}

	if s.now().After(time.Unix(ts, 0)) {
		return fmt.Errorf("invalid or expired url: %w", domain.ErrValidation)
	}

	getUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		logger.Error("Verifying email error", err)
		return err
	}

	if getUser.IsVerified {
		logger.Warn("Email verified already", "user_id", getUser.ID)
		return fmt.Errorf("invalid or expired url: %w", domain.ErrValidation)
	}

	if err := s.userRepo.UpdateEmailVerification(ctx, getUser.ID, true); err != nil {
		logger.Error("Verify email err", err)
		return err
	}

	return nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to get user by ID", err)
		return domain.User{}, err
	}

	user.Password = ""
	return user, nil
}

// GetAllUsers retrieves all users, optionally of one role
func (s *userService) GetAllUsers(ctx context.Context, role string) ([]domain.User, error) {
	if role != "" && !validRoles[role] {
		return nil, fmt.Errorf("invalid role %q: %w", role, domain.ErrValidation)
	}

	users, err := s.userRepo.FindAll(ctx, role)
	if err != nil {
		logger.Error("Failed to get all users", err)
		return nil, err
	}

	for i := range users {
		users[i].Password = ""
	}

	return users, nil
}

// UpdateUser updates profile fields. Role changes are reserved for admins.
func (s *userService) UpdateUser(ctx context.Context, id uint, updateData *domain.User, actorIsAdmin bool) (domain.User, error) {
	existingUser, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("User not found for update", err)
		return domain.User{}, err
	}

	if updateData.FullName != "" {
		existingUser.FullName = updateData.FullName
	}

	if updateData.Email != "" && updateData.Email != existingUser.Email {
		if err := s.validate.Var(updateData.Email, "required,email"); err != nil {
			return domain.User{}, fmt.Errorf("invalid email format: %w", domain.ErrValidation)
		}

		userWithEmail, err := s.userRepo.FindByEmail(ctx, updateData.Email)
		if err == nil && userWithEmail.ID != id {
			return domain.User{}, fmt.Errorf("email already exists: %w", domain.ErrConflict)
		}
		existingUser.Email = updateData.Email
	}

	if updateData.Password != "" {
		if err := s.validate.Var(updateData.Password, "required,min=6"); err != nil {
			return domain.User{}, fmt.Errorf("password must be at least 6 characters: %w", domain.ErrValidation)
		}

		passwordHash, err := utils.HashPassword(updateData.Password)
		if err != nil {
			logger.Error("Failed to hash password", err)
			return domain.User{}, errors.New("failed to hash password")
		}
		existingUser.Password = string(passwordHash)
	}

	if updateData.Role != "" && updateData.Role != existingUser.Role {
		if !actorIsAdmin {
			return domain.User{}, fmt.Errorf("only admins can change roles: %w", domain.ErrForbidden)
		}
		if !validRoles[updateData.Role] {
			return domain.User{}, fmt.Errorf("invalid role %q: %w", updateData.Role, domain.ErrValidation)
		}
		existingUser.Role = updateData.Role
	}

	if err := s.userRepo.Update(ctx, &existingUser); err != nil {
		logger.Error("Failed to update user", err)
		return domain.User{}, err
	}

	existingUser.Password = ""
	return existingUser, nil
}

// ChangePassword replaces a user's password. Admins may reset anyone's
// password; everyone else must present the current one. Existing sessions
// are revoked so the new password takes effect everywhere.
func (s *userService) ChangePassword(ctx context.Context, actor domain.Actor, id uint, currentPassword, newPassword string) error {
	if err := s.validate.Var(newPassword, "required,min=6"); err != nil {
		return fmt.Errorf("new password must be at least 6 characters: %w", domain.ErrValidation)
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !actor.IsAdmin() {
		if currentPassword == "" {
			return fmt.Errorf("current password is required: %w", domain.ErrValidation)
		}
		if !utils.CheckPassword(currentPassword, user.Password) {
			return fmt.Errorf("current password is incorrect: %w", domain.ErrUnauthorized)
		}
	}

	passwordHash, err := utils.HashPassword(newPassword)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return errors.New("failed to hash password")
	}
	user.Password = string(passwordHash)

	if err := s.userRepo.Update(ctx, &user); err != nil {
		logger.Error("Failed to change password", "user_id", id, err)
		return err
	}

	if err := s.tokenRepo.RevokeUser(ctx, id); err != nil {
		logger.Warn("Failed to revoke sessions after password change", "user_id", id, err)
	}

	logger.Info("Password changed", "user_id", id, "by", actor.UserID)
	return nil
}

// SetBanned bans or unbans an account. Banning revokes every live session.
func (s *userService) SetBanned(ctx context.Context, id uint, banned bool) (domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	if user.Role == domain.RoleAdmin {
		return domain.User{}, fmt.Errorf("admins cannot be banned: %w", domain.ErrForbidden)
	}

	if err := s.userRepo.SetBanned(ctx, id, banned); err != nil {
		logger.Error("Failed to update ban flag", "user_id", id, err)
		return domain.User{}, err
	}

	if banned {
		if err := s.tokenRepo.RevokeUser(ctx, id); err != nil {
			logger.Warn("Failed to revoke sessions of banned user", "user_id", id, err)
		}
	}

	logger.Info("User ban flag updated", "user_id", id, "banned", banned)

	user.IsBanned = banned
	user.Password = ""
	return user, nil
}

// DeleteUser soft deletes a user
func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		logger.Error("User not found for deletion", err)
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		logger.Error("Failed to delete user", err)
		return err
	}

	if err := s.tokenRepo.RevokeUser(ctx, id); err != nil {
		logger.Warn("Failed to revoke sessions of deleted user", "user_id", id, err)
	}

	return nil
}
