package services

import (
	"context"
	"errors"
	"strings"

	"github.com/franciscosanchezn/gin-shift-api/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegisterInput carries the fields accepted at registration
type RegisterInput struct {
	Email    string
	Password string
	Role     string
	Fullname string
	ImageURL string
}

// ProfileUpdate lists the fields to change; nil fields are left untouched.
// A blank Password is ignored.
type ProfileUpdate struct {
	Fullname *string
	Role     *string
	ImageURL *string
	Status   *string
	Password *string
}

// UserService is the credential store
type UserService interface {
	// Register creates an active account, failing with ErrUserExists on a taken email
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	// Authenticate returns the account when the password matches and the account is active
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	// ChangePassword replaces the password after verifying the old one
	ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error
	// ListUsers returns every account ordered by fullname
	ListUsers(ctx context.Context) ([]models.User, error)
	// UpdateProfile applies the supplied fields only
	UpdateProfile(ctx context.Context, email string, update ProfileUpdate) error
	// Disable soft-deletes an account
	Disable(ctx context.Context, email string) error
	// GetUserByEmail looks up one account
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type userService struct {
	db         *gorm.DB
	bcryptCost int
	log        logrus.FieldLogger
}

// NewUserService creates a new instance of UserService. A bcryptCost of zero
// selects bcrypt.DefaultCost.
func NewUserService(db *gorm.DB, bcryptCost int, log logrus.FieldLogger) UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{db: db, bcryptCost: bcryptCost, log: log}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, validationError("Missing email or password")
	}
	role := in.Role
	if role == "" {
		role = models.DefaultRole
	}

	user := &models.User{
		Email:    email,
		Role:     role,
		Fullname: in.Fullname,
		ImageURL: in.ImageURL,
		Status:   models.UserStatusActive,
	}
	if err := user.SetPassword(in.Password, s.bcryptCost); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"email": email, "role": role}).Info("User registered")
	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// Disabled accounts are refused whatever the password.
	if !user.IsActive() {
		s.log.WithField("email", user.Email).Warn("Login attempt on disabled account")
		return nil, ErrAccountDisabled
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	user.Status = user.NormalizedStatus()
	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	if newPassword == "" {
		return validationError("Missing new password")
	}
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}
	if err := user.SetPassword(newPassword, s.bcryptCost); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", user.Email).
		Update("password_hash", user.PasswordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("fullname").Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Status = users[i].NormalizedStatus()
	}
	return users, nil
}

func (s *userService) UpdateProfile(ctx context.Context, email string, update ProfileUpdate) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return validationError("Missing email")
	}

	fields := map[string]interface{}{}
	if update.Fullname != nil {
		fields["fullname"] = *update.Fullname
	}
	if update.Role != nil {
		fields["role"] = *update.Role
	}
	if update.ImageURL != nil {
		fields["image_url"] = *update.ImageURL
	}
	if update.Status != nil {
		fields["status"] = *update.Status
	}
	if update.Password != nil && strings.TrimSpace(*update.Password) != "" {
		var u models.User
		if err := u.SetPassword(*update.Password, s.bcryptCost); err != nil {
			return err
		}
		fields["password_hash"] = u.PasswordHash
	}
	if len(fields) == 0 {
		return ErrNothingToUpdate
	}

	result := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	s.log.WithFields(logrus.Fields{"email": email, "fields": len(fields)}).Info("User updated")
	return nil
}

func (s *userService) Disable(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return validationError("Missing email")
	}
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? AND status <> ?", email, models.UserStatusDisabled).
		Update("status", models.UserStatusDisabled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotDisablable
	}
	s.log.WithField("email", email).Info("User disabled")
	return nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
