package services

import (
	"context"
	"strings"

	"posbackend/internal/common"
	"posbackend/internal/models"
	"posbackend/internal/repositories"
)

type CategoryService interface {
	Create(ctx context.Context, db repositories.Database, category *models.Category) error
	GetByID(ctx context.Context, db repositories.Database, id int64) (*models.Category, error)
	Update(ctx context.Context, db repositories.Database, category *models.Category) error
	Delete(ctx context.Context, db repositories.Database, id int64) error
	List(ctx context.Context, db repositories.Database) ([]*models.Category, error)
}

type categoryService struct {
	newRepo func(repositories.Database) repositories.CategoryRepository
}

func NewCategoryService() CategoryService {
	return &categoryService{newRepo: repositories.NewCategoryRepo}
}

func (s *categoryService) Create(ctx context.Context, db repositories.Database, category *models.Category) error {
	category.Name = strings.TrimSpace(category.Name)
	if err := common.ValidateRequiredString(category.Name, "name"); err != nil {
		return err
	}
	return s.newRepo(db).Create(ctx, category)
}

func (s *categoryService) GetByID(ctx context.Context, db repositories.Database, id int64) (*models.Category, error) {
	return s.newRepo(db).GetByID(ctx, id)
}

func (s *categoryService) Update(ctx context.Context, db repositories.Database, category *models.Category) error {
	category.Name = strings.TrimSpace(category.Name)
	if err := common.ValidateRequiredString(category.Name, "name"); err != nil {
		return err
	}
	return s.newRepo(db).Update(ctx, category)
}

func (s *categoryService) Delete(ctx context.Context, db repositories.Database, id int64) error {
	return s.newRepo(db).Deactivate(ctx, id)
}

func (s *categoryService) List(ctx context.Context, db repositories.Database) ([]*models.Category, error) {
	return s.newRepo(db).List(ctx)
}
