package auth

import (
	"context"
	"errors"
	"slices"
	"time"

	"gorm.io/gorm"

	"github.com/tourmarket/tourmarket/internal/apperror"
	"github.com/tourmarket/tourmarket/internal/db/models"
)

// selfServiceRoles are the roles an account may be registered with directly.
var selfServiceRoles = []string{
	models.RoleUser,
	models.RoleDriver,
	models.RoleTravelAdmin,
	models.RolePackageAdmin,
}

// provisioning lists the roles each admin role may create accounts for.
var provisioning = map[string][]string{
	models.RoleTravelAdmin:  {models.RoleTravelSubAdmin, models.RoleDriver},
	models.RolePackageAdmin: {models.RolePackageSubAdmin},
}

// Account holds the fields of a new user.
type Account struct {
	Role        string
	FirstName   string
	MiddleName  string
	LastName    string
	Email       string
	Password    string
	Gender      string
	DateOfBirth *time.Time
	PhoneNo     string
	CountryCode string
	ProfileURL  string
}

// AccountService registers and removes users.
type AccountService struct {
	db *gorm.DB
}

// NewAccountService creates an AccountService.
func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// Register creates an active account with a self-service role.
func (s *AccountService) Register(ctx context.Context, acc Account) (*models.User, error) {
	if !slices.Contains(selfServiceRoles, acc.Role) {
		return nil, apperror.Validation("Role %q can not be registered.", acc.Role)
	}

	return s.create(ctx, acc, nil)
}

// Provision creates an account on behalf of creatorID. The creator must be
// an admin whose provisioning list contains the requested role.
func (s *AccountService) Provision(ctx context.Context, creatorID string, acc Account) (*models.User, error) {
	creator, err := s.GetUser(ctx, creatorID)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCreator
	}

	if err != nil {
		return nil, err
	}

	if !creator.CanLogin() || !slices.Contains(provisioning[creator.Role.Name], acc.Role) {
		return nil, ErrInvalidCreator
	}

	return s.create(ctx, acc, &creator.ID)
}

// GetUser returns a user with its role.
func (s *AccountService) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User

	err := s.db.WithContext(ctx).Preload("Role").Where(whereID, id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, apperror.Internal(err, "failed to load user")
	}

	return &user, nil
}

// Delete removes a user. Tokens and grants of the user are removed with it,
// accounts it provisioned lose their creator link.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where(whereID, id).Delete(&models.User{})
	if result.Error != nil {
		return apperror.Internal(result.Error, "failed to delete user")
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (s *AccountService) create(ctx context.Context, acc Account, creatorID *string) (*models.User, error) {
	var role models.Role

	err := s.db.WithContext(ctx).Where("name = ?", acc.Role).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoleNotFound
	}

	if err != nil {
		return nil, apperror.Internal(err, "failed to load role")
	}

	if err = s.checkUnique(ctx, acc.Email, acc.PhoneNo); err != nil {
		return nil, err
	}

	user := &models.User{
		RoleID:      role.ID,
		FirstName:   acc.FirstName,
		MiddleName:  acc.MiddleName,
		LastName:    acc.LastName,
		CreatedByID: creatorID,
		Email:       acc.Email,
		Password:    acc.Password,
		Gender:      acc.Gender,
		DateOfBirth: acc.DateOfBirth,
		PhoneNo:     acc.PhoneNo,
		CountryCode: acc.CountryCode,
		ProfileURL:  acc.ProfileURL,
		IsActive:    true,
	}

	if err = s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost a race against a concurrent registration
			if uniqueErr := s.checkUnique(ctx, acc.Email, acc.PhoneNo); uniqueErr != nil {
				return nil, uniqueErr
			}

			return nil, apperror.Conflict("User already exist")
		}

		return nil, apperror.Internal(err, "failed to create user")
	}

	user.Role = role

	return user, nil
}

func (s *AccountService) checkUnique(ctx context.Context, email, phone string) error {
	var count int64

	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return apperror.Internal(err, "failed to check email")
	}

	if count > 0 {
		return ErrEmailExists
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("phone_no = ?", phone).Count(&count).Error; err != nil {
		return apperror.Internal(err, "failed to check phone number")
	}

	if count > 0 {
		return ErrPhoneExists
	}

	return nil
}
