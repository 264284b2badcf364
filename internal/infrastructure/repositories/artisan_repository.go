package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/craftconnect/authsvc/domain"
)

// ArtisanProfileRepositoryImpl implements domain.ArtisanProfileRepository.
// The unique user_id index guarantees at most one profile per artisan:
// concurrent creates for the same user leave exactly one row, the losers
// get ErrProfileExists.
type ArtisanProfileRepositoryImpl struct {
	db *gorm.DB
}

// DBArtisanProfile represents the database model for ArtisanProfile.
type DBArtisanProfile struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     uint   `gorm:"uniqueIndex"`
	Skills     string `gorm:"size:512"`
	Experience int
	Location   string `gorm:"size:128"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName returns the table name for GORM.
func (DBArtisanProfile) TableName() string {
	return "artisan_profiles"
}

// NewArtisanProfileRepository creates a new artisan profile repository.
func NewArtisanProfileRepository(db *gorm.DB) domain.ArtisanProfileRepository {
	return &ArtisanProfileRepositoryImpl{db: db}
}

// Create implements domain.ArtisanProfileRepository.
func (r *ArtisanProfileRepositoryImpl) Create(ctx context.Context, profile *domain.ArtisanProfile) error {
	dbProfile, err := profileToDB(profile)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(dbProfile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrProfileExists
		}
		return err
	}
	profile.ID = dbProfile.ID
	return nil
}

// FindByID implements domain.ArtisanProfileRepository.
func (r *ArtisanProfileRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.ArtisanProfile, error) {
	var dbProfile DBArtisanProfile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbProfile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return dbToProfile(&dbProfile)
}

// FindByUser implements domain.ArtisanProfileRepository.
func (r *ArtisanProfileRepositoryImpl) FindByUser(ctx context.Context, userID uint) (*domain.ArtisanProfile, error) {
	var dbProfile DBArtisanProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&dbProfile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return dbToProfile(&dbProfile)
}

// Update implements domain.ArtisanProfileRepository.
func (r *ArtisanProfileRepositoryImpl) Update(ctx context.Context, profile *domain.ArtisanProfile) error {
	skills, err := json.Marshal(profile.Skills)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&DBArtisanProfile{}).
		Where("id = ? AND user_id = ?", profile.ID, profile.UserID).
		Updates(map[string]interface{}{
			"skills":     string(skills),
			"experience": profile.Experience,
			"location":   profile.Location,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func profileToDB(profile *domain.ArtisanProfile) (*DBArtisanProfile, error) {
	skills, err := json.Marshal(profile.Skills)
	if err != nil {
		return nil, err
	}
	return &DBArtisanProfile{
		ID:         profile.ID,
		UserID:     profile.UserID,
		Skills:     string(skills),
		Experience: profile.Experience,
		Location:   profile.Location,
	}, nil
}

func dbToProfile(dbProfile *DBArtisanProfile) (*domain.ArtisanProfile, error) {
	var skills []string
	if dbProfile.Skills != "" {
		if err := json.Unmarshal([]byte(dbProfile.Skills), &skills); err != nil {
			return nil, err
		}
	}
	return &domain.ArtisanProfile{
		ID:         dbProfile.ID,
		UserID:     dbProfile.UserID,
		Skills:     skills,
		Experience: dbProfile.Experience,
		Location:   dbProfile.Location,
		CreatedAt:  dbProfile.CreatedAt,
		UpdatedAt:  dbProfile.UpdatedAt,
	}, nil
}
