package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/craftconnect/authsvc/domain"
)

// AddressRepositoryImpl implements domain.AddressRepository using GORM.
// All default-flag mutations run in a transaction so exactly one default
// address exists per user at any time.
type AddressRepositoryImpl struct {
	db *gorm.DB
}

// DBAddress represents the database model for Address.
type DBAddress struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index"`
	HouseNo   string `gorm:"size:64"`
	Street    string `gorm:"size:128"`
	City      string `gorm:"size:64"`
	District  string `gorm:"size:64"`
	PinCode   string `gorm:"size:16"`
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (DBAddress) TableName() string {
	return "addresses"
}

// NewAddressRepository creates a new address repository.
func NewAddressRepository(db *gorm.DB) domain.AddressRepository {
	return &AddressRepositoryImpl{db: db}
}

// ListByUser implements domain.AddressRepository.
func (r *AddressRepositoryImpl) ListByUser(ctx context.Context, userID uint) ([]*domain.Address, error) {
	var dbAddrs []DBAddress
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&dbAddrs).Error
	if err != nil {
		return nil, err
	}
	addrs := make([]*domain.Address, 0, len(dbAddrs))
	for i := range dbAddrs {
		addrs = append(addrs, dbToAddress(&dbAddrs[i]))
	}
	return addrs, nil
}

// FindByID implements domain.AddressRepository.
func (r *AddressRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Address, error) {
	var dbAddr DBAddress
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbAddr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAddressNotFound
		}
		return nil, err
	}
	return dbToAddress(&dbAddr), nil
}

// Create implements domain.AddressRepository. The first address for a
// user becomes the default regardless of the requested flag.
func (r *AddressRepositoryImpl) Create(ctx context.Context, addr *domain.Address) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&DBAddress{}).Where("user_id = ?", addr.UserID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			addr.IsDefault = true
		} else if addr.IsDefault {
			if err := clearDefault(tx, addr.UserID); err != nil {
				return err
			}
		}
		dbAddr := addressToDB(addr)
		if err := tx.Create(dbAddr).Error; err != nil {
			return err
		}
		addr.ID = dbAddr.ID
		return nil
	})
}

// Update implements domain.AddressRepository.
func (r *AddressRepositoryImpl) Update(ctx context.Context, addr *domain.Address) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing DBAddress
		err := tx.Where("id = ? AND user_id = ?", addr.ID, addr.UserID).First(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAddressNotFound
			}
			return err
		}
		if addr.IsDefault && !existing.IsDefault {
			if err := clearDefault(tx, addr.UserID); err != nil {
				return err
			}
		}
		// The default flag can only move, never vanish.
		if !addr.IsDefault && existing.IsDefault {
			addr.IsDefault = true
		}
		return tx.Model(&DBAddress{}).Where("id = ?", addr.ID).
			Updates(map[string]interface{}{
				"house_no":   addr.HouseNo,
				"street":     addr.Street,
				"city":       addr.City,
				"district":   addr.District,
				"pin_code":   addr.PinCode,
				"is_default": addr.IsDefault,
			}).Error
	})
}

// Delete implements domain.AddressRepository. Deleting the default
// promotes the oldest remaining address.
func (r *AddressRepositoryImpl) Delete(ctx context.Context, userID, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing DBAddress
		err := tx.Where("id = ? AND user_id = ?", id, userID).First(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAddressNotFound
			}
			return err
		}
		if err := tx.Delete(&DBAddress{}, id).Error; err != nil {
			return err
		}
		if existing.IsDefault {
			var next DBAddress
			err := tx.Where("user_id = ?", userID).Order("id").First(&next).Error
			if err == nil {
				return tx.Model(&DBAddress{}).Where("id = ?", next.ID).
					Update("is_default", true).Error
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		return nil
	})
}

// SetDefault implements domain.AddressRepository.
func (r *AddressRepositoryImpl) SetDefault(ctx context.Context, userID, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing DBAddress
		err := tx.Where("id = ? AND user_id = ?", id, userID).First(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAddressNotFound
			}
			return err
		}
		if err := clearDefault(tx, userID); err != nil {
			return err
		}
		return tx.Model(&DBAddress{}).Where("id = ?", id).
			Update("is_default", true).Error
	})
}

// FindDefault implements domain.AddressRepository.
func (r *AddressRepositoryImpl) FindDefault(ctx context.Context, userID uint) (*domain.Address, error) {
	var dbAddr DBAddress
	err := r.db.WithContext(ctx).Where("user_id = ? AND is_default = ?", userID, true).First(&dbAddr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAddressNotFound
		}
		return nil, err
	}
	return dbToAddress(&dbAddr), nil
}

func clearDefault(tx *gorm.DB, userID uint) error {
	return tx.Model(&DBAddress{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}

func addressToDB(addr *domain.Address) *DBAddress {
	return &DBAddress{
		ID:        addr.ID,
		UserID:    addr.UserID,
		HouseNo:   addr.HouseNo,
		Street:    addr.Street,
		City:      addr.City,
		District:  addr.District,
		PinCode:   addr.PinCode,
		IsDefault: addr.IsDefault,
	}
}

func dbToAddress(dbAddr *DBAddress) *domain.Address {
	return &domain.Address{
		ID:        dbAddr.ID,
		UserID:    dbAddr.UserID,
		HouseNo:   dbAddr.HouseNo,
		Street:    dbAddr.Street,
		City:      dbAddr.City,
		District:  dbAddr.District,
		PinCode:   dbAddr.PinCode,
		IsDefault: dbAddr.IsDefault,
		CreatedAt: dbAddr.CreatedAt,
		UpdatedAt: dbAddr.UpdatedAt,
	}
}
