package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrPackageNotFound   = errors.New("package does not exist")
	ErrPackageSlugExists = errors.New("a package with this title already exists")
)

type HolidayPackage struct {
	ID               uint    `gorm:"primaryKey"`
	Title            string  `gorm:"not null;index:idx_package_natural_key"`
	Slug             string  `gorm:"uniqueIndex;not null"`
	Description      string  `gorm:"not null;index:idx_package_natural_key"`
	MaxCapacity      int     `gorm:"not null"`
	CostPrice        float64 `gorm:"not null"`
	MarkupPercentage float64 `gorm:"not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type PackageDAO struct {
	db *gorm.DB
}

func NewPackageDAO(db *gorm.DB) *PackageDAO {
	return &PackageDAO{
		db: db,
	}
}

func (d *PackageDAO) Insert(ctx context.Context, p HolidayPackage) (HolidayPackage, error) {
	result := d.db.WithContext(ctx).Create(&p)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return HolidayPackage{}, ErrPackageSlugExists
		}

		return HolidayPackage{}, result.Error
	}

	return p, nil
}

func (d *PackageDAO) FindAll(ctx context.Context) ([]HolidayPackage, error) {
	var packages []HolidayPackage

	result := d.db.WithContext(ctx).Order("id").Find(&packages)
	if result.Error != nil {
		return nil, result.Error
	}

	return packages, nil
}

func (d *PackageDAO) FindByID(ctx context.Context, id uint) (HolidayPackage, error) {
	var p HolidayPackage

	result := d.db.WithContext(ctx).First(&p, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return HolidayPackage{}, ErrPackageNotFound
		}

		return HolidayPackage{}, result.Error
	}

	return p, nil
}

func (d *PackageDAO) FindBySlug(ctx context.Context, slug string) (HolidayPackage, error) {
	var p HolidayPackage

	result := d.db.WithContext(ctx).First(&p, "slug = ?", slug)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return HolidayPackage{}, ErrPackageNotFound
		}

		return HolidayPackage{}, result.Error
	}

	return p, nil
}

// FindByTitleAndDescription returns every exact match; callers decide what several matches mean.
func (d *PackageDAO) FindByTitleAndDescription(ctx context.Context, title, description string) ([]HolidayPackage, error) {
	var packages []HolidayPackage

	result := d.db.WithContext(ctx).
		Where("title = ? AND description = ?", title, description).
		Order("id").
		Find(&packages)
	if result.Error != nil {
		return nil, result.Error
	}

	return packages, nil
}

func (d *PackageDAO) Update(ctx context.Context, p HolidayPackage) (HolidayPackage, error) {
	result := d.db.WithContext(ctx).Model(&HolidayPackage{ID: p.ID}).Updates(map[string]interface{}{
		"title":             p.Title,
		"slug":              p.Slug,
		"description":       p.Description,
		"max_capacity":      p.MaxCapacity,
		"cost_price":        p.CostPrice,
		"markup_percentage": p.MarkupPercentage,
	})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return HolidayPackage{}, ErrPackageSlugExists
		}

		return HolidayPackage{}, result.Error
	}
	if result.RowsAffected == 0 {
		return HolidayPackage{}, ErrPackageNotFound
	}

	return d.FindByID(ctx, p.ID)
}

func (d *PackageDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&HolidayPackage{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPackageNotFound
	}

	return nil
}
