package repository

import (
	"context"
	"fmt"

	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/domain"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/repository/dao"
)

var (
	ErrPackageNotFound   = dao.ErrPackageNotFound
	ErrPackageSlugExists = dao.ErrPackageSlugExists
)

type PackageDAO interface {
	Insert(ctx context.Context, p dao.HolidayPackage) (dao.HolidayPackage, error)
	FindAll(ctx context.Context) ([]dao.HolidayPackage, error)
	FindByID(ctx context.Context, id uint) (dao.HolidayPackage, error)
	FindBySlug(ctx context.Context, slug string) (dao.HolidayPackage, error)
	FindByTitleAndDescription(ctx context.Context, title, description string) ([]dao.HolidayPackage, error)
	Update(ctx context.Context, p dao.HolidayPackage) (dao.HolidayPackage, error)
	Delete(ctx context.Context, id uint) error
}

type PackageRepository struct {
	dao PackageDAO
}

func NewPackageRepository(dao PackageDAO) *PackageRepository {
	return &PackageRepository{
		dao: dao,
	}
}

func (r *PackageRepository) Create(ctx context.Context, p domain.HolidayPackage) (domain.HolidayPackage, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(p))
	if err != nil {
		return domain.HolidayPackage{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *PackageRepository) FindAll(ctx context.Context) ([]domain.HolidayPackage, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *PackageRepository) FindByID(ctx context.Context, id uint) (domain.HolidayPackage, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.HolidayPackage{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *PackageRepository) FindBySlug(ctx context.Context, slug string) (domain.HolidayPackage, error) {
	found, err := r.dao.FindBySlug(ctx, slug)
	if err != nil {
		return domain.HolidayPackage{}, fmt.Errorf("r.dao.FindBySlug -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *PackageRepository) FindByKey(ctx context.Context, key domain.PackageKey) ([]domain.HolidayPackage, error) {
	found, err := r.dao.FindByTitleAndDescription(ctx, key.Title, key.Description)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByTitleAndDescription -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *PackageRepository) Update(ctx context.Context, p domain.HolidayPackage) (domain.HolidayPackage, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(p))
	if err != nil {
		return domain.HolidayPackage{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *PackageRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *PackageRepository) domainToDao(p domain.HolidayPackage) dao.HolidayPackage {
	return dao.HolidayPackage{
		ID:               p.ID,
		Title:            p.Title,
		Slug:             p.Slug,
		Description:      p.Description,
		MaxCapacity:      p.MaxCapacity,
		CostPrice:        p.CostPrice,
		MarkupPercentage: p.MarkupPercentage,
	}
}

// daoToDomain recomputes the derived fields, the selling price is never stored.
func (r *PackageRepository) daoToDomain(p dao.HolidayPackage) domain.HolidayPackage {
	return domain.HolidayPackage{
		ID:               p.ID,
		Title:            p.Title,
		Slug:             p.Slug,
		URLSlug:          domain.EscapeSlug(p.Slug),
		Description:      p.Description,
		MaxCapacity:      p.MaxCapacity,
		CostPrice:        p.CostPrice,
		MarkupPercentage: p.MarkupPercentage,
		SellingPrice:     domain.PriceWithMarkup(p.CostPrice, p.MarkupPercentage),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func (r *PackageRepository) daosToDomain(packages []dao.HolidayPackage) []domain.HolidayPackage {
	result := make([]domain.HolidayPackage, 0, len(packages))
	for _, p := range packages {
		result = append(result, r.daoToDomain(p))
	}

	return result
}
