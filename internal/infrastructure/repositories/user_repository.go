package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/craftconnect/authsvc/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM.
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User.
type DBUser struct {
	ID                 uint   `gorm:"primaryKey"`
	Name               string `gorm:"size:128"`
	Phone              string `gorm:"uniqueIndex;size:32"`
	PasswordHash       string `gorm:"column:password"`
	Role               string `gorm:"index;size:32"`
	IsActive           bool   `gorm:"index"`
	IsPhoneVerified    bool
	IsIdentityVerified bool
	IdentityStatus     string `gorm:"size:32;default:not_started"`
	IdentityTxnID      string `gorm:"size:64"`
	MaskedAadhaar      string `gorm:"size:32"`
	IdentityVerifiedAt *time.Time
	Version            uint `gorm:"default:0"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM.
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository. The unique phone index is the
// serialization point for duplicate registrations.
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrUserAlreadyExists
		}
		return err
	}
	user.ID = dbUser.ID
	user.Version = dbUser.Version
	return nil
}

// FindByPhone implements domain.UserRepository.
func (r *UserRepositoryImpl) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// FindByID implements domain.UserRepository.
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// Update implements domain.UserRepository. Phone and role are immutable
// here; verification state goes through UpdateVerification.
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Model(&DBUser{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"name":      user.Name,
			"is_active": user.IsActive,
		}).Error
}

// UpdateVerification implements domain.UserRepository with optimistic
// locking on the version column.
func (r *UserRepositoryImpl) UpdateVerification(ctx context.Context, user *domain.User) error {
	res := r.db.WithContext(ctx).Model(&DBUser{}).
		Where("id = ? AND version = ?", user.ID, user.Version).
		Updates(map[string]interface{}{
			"is_phone_verified":    user.IsPhoneVerified,
			"is_identity_verified": user.IsIdentityVerified,
			"identity_status":      string(user.IdentityStatus),
			"identity_txn_id":      user.IdentityTxnID,
			"masked_aadhaar":       user.MaskedAadhaar,
			"identity_verified_at": user.IdentityVerifiedAt,
			"version":              user.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrConcurrentUpdate
	}
	user.Version++
	return nil
}

// ActivatePhone implements domain.UserRepository.
func (r *UserRepositoryImpl) ActivatePhone(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Model(&DBUser{}).
		Where("id = ?", userID).
		Update("is_phone_verified", true).Error
}

// UpdatePassword implements domain.UserRepository.
func (r *UserRepositoryImpl) UpdatePassword(ctx context.Context, userID uint, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&DBUser{}).
		Where("id = ?", userID).
		Update("password", passwordHash).Error
}

// ListPendingVerifications implements domain.UserRepository.
func (r *UserRepositoryImpl) ListPendingVerifications(ctx context.Context, roles []domain.Role) ([]*domain.User, error) {
	roleStrs := make([]string, 0, len(roles))
	for _, role := range roles {
		roleStrs = append(roleStrs, string(role))
	}

	var dbUsers []DBUser
	err := r.db.WithContext(ctx).
		Where("role IN ? AND is_identity_verified = ?", roleStrs, false).
		Order("created_at").
		Find(&dbUsers).Error
	if err != nil {
		return nil, err
	}

	users := make([]*domain.User, 0, len(dbUsers))
	for i := range dbUsers {
		users = append(users, r.dbToDomain(&dbUsers[i]))
	}
	return users, nil
}

func (r *UserRepositoryImpl) domainToDB(user *domain.User) *DBUser {
	status := user.IdentityStatus
	if status == "" {
		status = domain.IdentityNotStarted
	}
	return &DBUser{
		ID:                 user.ID,
		Name:               user.Name,
		Phone:              user.Phone,
		PasswordHash:       user.PasswordHash,
		Role:               string(user.Role),
		IsActive:           user.IsActive,
		IsPhoneVerified:    user.IsPhoneVerified,
		IsIdentityVerified: user.IsIdentityVerified,
		IdentityStatus:     string(status),
		IdentityTxnID:      user.IdentityTxnID,
		MaskedAadhaar:      user.MaskedAadhaar,
		IdentityVerifiedAt: user.IdentityVerifiedAt,
		Version:            user.Version,
	}
}

func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) *domain.User {
	return &domain.User{
		ID:                 dbUser.ID,
		Name:               dbUser.Name,
		Phone:              dbUser.Phone,
		PasswordHash:       dbUser.PasswordHash,
		Role:               domain.Role(dbUser.Role),
		IsActive:           dbUser.IsActive,
		IsPhoneVerified:    dbUser.IsPhoneVerified,
		IsIdentityVerified: dbUser.IsIdentityVerified,
		IdentityStatus:     domain.IdentityStatus(dbUser.IdentityStatus),
		IdentityTxnID:      dbUser.IdentityTxnID,
		MaskedAadhaar:      dbUser.MaskedAadhaar,
		IdentityVerifiedAt: dbUser.IdentityVerifiedAt,
		Version:            dbUser.Version,
		CreatedAt:          dbUser.CreatedAt,
		UpdatedAt:          dbUser.UpdatedAt,
	}
}
