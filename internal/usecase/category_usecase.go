package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type CategoryUsecase struct {
	categoryRepo repo.CategoryRepository
}

// DI
func NewCategoryUsecase(categoryRepo repo.CategoryRepository) *CategoryUsecase {
	return &CategoryUsecase{categoryRepo: categoryRepo}
}

type ListCategoriesInput struct {
	Page  int
	Limit int
	Name  string
}

type CategoryListOutput struct {
	Items []model.Category `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

func (u *CategoryUsecase) ListCategories(ctx context.Context, in ListCategoriesInput) (CategoryListOutput, error) {
	if in.Page < 1 {
		return CategoryListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 {
		return CategoryListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if in.Limit > repo.MaxPageSize {
		in.Limit = repo.MaxPageSize
	}

	items, total, err := u.categoryRepo.List(ctx, repo.CategoryListQuery{
		Page:  in.Page,
		Limit: in.Limit,
		Name:  strings.TrimSpace(in.Name),
	})
	if err != nil {
		return CategoryListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return CategoryListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

func (u *CategoryUsecase) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	if id <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid category id")
	}

	c, err := u.categoryRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusNotFound, "category not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func validateCategoryInput(in CategoryInput) error {
	if l := len(strings.TrimSpace(in.Name)); l < 4 || l > 100 {
		return NewHTTPError(http.StatusBadRequest, "name must be 4 to 100 characters")
	}
	if l := len(strings.TrimSpace(in.Description)); l < 2 || l > 80 {
		return NewHTTPError(http.StatusBadRequest, "description must be 2 to 80 characters")
	}
	return nil
}

func (u *CategoryUsecase) CreateCategory(ctx context.Context, in CategoryInput) (*model.Category, error) {
	if err := validateCategoryInput(in); err != nil {
		return nil, err
	}

	c := &model.Category{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
	}

	if err := u.categoryRepo.Create(ctx, c); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

func (u *CategoryUsecase) UpdateCategory(ctx context.Context, id int64, in CategoryInput) (*model.Category, error) {
	c, err := u.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validateCategoryInput(in); err != nil {
		return nil, err
	}

	c.Name = strings.TrimSpace(in.Name)
	c.Description = strings.TrimSpace(in.Description)

	if err := u.categoryRepo.Update(ctx, c); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

func (u *CategoryUsecase) DeleteCategory(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid category id")
	}

	if err := u.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "category not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
