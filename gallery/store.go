package gallery

import (
	"errors"

	"galleria-backend/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned by any id-addressed operation whose target image
// does not exist. Absence is never treated as a no-op.
var ErrNotFound = errors.New("image not found")

// Store is the persistence collaborator the engine mutates gallery records
// through. Each call is atomic on its own; atomicity across calls (the
// primary-flag sweep reads siblings and then writes them) comes from running
// the whole operation inside Transaction.
type Store interface {
	GetAll() ([]models.ProductImage, error)
	// GetByProductID returns a product's images in ascending display order,
	// id ascending as the stable tie-break. This is the order gallery
	// clients index into.
	GetByProductID(productID uint) ([]models.ProductImage, error)
	GetByID(id uint) (models.ProductImage, error)
	Add(img *models.ProductImage) error
	Update(id uint, fields map[string]interface{}) error
	Delete(id uint) error
	Exists(id uint) (bool, error)
	// Transaction runs fn against a store view whose calls all commit or
	// roll back together.
	Transaction(fn func(tx Store) error) error
}

// GormStore is the GORM-backed Store. New image ids come from the table's
// autoincrement key, assigned during Add.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) GetAll() ([]models.ProductImage, error) {
	var images []models.ProductImage
	if err := s.DB.Order("id ASC").Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

func (s *GormStore) GetByProductID(productID uint) ([]models.ProductImage, error) {
	var images []models.ProductImage
	err := s.DB.Where("product_id = ?", productID).
		Order("display_order ASC, id ASC").
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (s *GormStore) GetByID(id uint) (models.ProductImage, error) {
	var img models.ProductImage
	if err := s.DB.First(&img, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ProductImage{}, ErrNotFound
		}
		return models.ProductImage{}, err
	}
	return img, nil
}

func (s *GormStore) Add(img *models.ProductImage) error {
	return s.DB.Create(img).Error
}

func (s *GormStore) Update(id uint, fields map[string]interface{}) error {
	result := s.DB.Model(&models.ProductImage{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Delete(id uint) error {
	result := s.DB.Delete(&models.ProductImage{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Exists(id uint) (bool, error) {
	var count int64
	if err := s.DB.Model(&models.ProductImage{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *GormStore) Transaction(fn func(tx Store) error) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{DB: tx})
	})
}
