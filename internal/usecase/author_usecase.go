package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type AuthorUsecase struct {
	authorRepo repo.AuthorRepository
}

// DI
func NewAuthorUsecase(authorRepo repo.AuthorRepository) *AuthorUsecase {
	return &AuthorUsecase{authorRepo: authorRepo}
}

type ListAuthorsInput struct {
	Page  int
	Limit int
	Name  string
}

type AuthorListOutput struct {
	Items []model.Author `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

func (u *AuthorUsecase) ListAuthors(ctx context.Context, in ListAuthorsInput) (AuthorListOutput, error) {
	if in.Page < 1 {
		return AuthorListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 {
		return AuthorListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if in.Limit > repo.MaxPageSize {
		in.Limit = repo.MaxPageSize
	}

	items, total, err := u.authorRepo.List(ctx, repo.AuthorListQuery{
		Page:  in.Page,
		Limit: in.Limit,
		Name:  strings.TrimSpace(in.Name),
	})
	if err != nil {
		return AuthorListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return AuthorListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

func (u *AuthorUsecase) GetAuthor(ctx context.Context, id int64) (*model.Author, error) {
	if id <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid author id")
	}

	a, err := u.authorRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusNotFound, "author not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return a, nil
}

type AuthorInput struct {
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Nationality string    `json:"nationality"`
	BirthDate   time.Time `json:"birth_date"`
}

func validateAuthorInput(in AuthorInput) error {
	if l := len(strings.TrimSpace(in.FirstName)); l < 2 || l > 40 {
		return NewHTTPError(http.StatusBadRequest, "first name must be 2 to 40 characters")
	}
	if l := len(strings.TrimSpace(in.LastName)); l < 2 || l > 40 {
		return NewHTTPError(http.StatusBadRequest, "last name must be 2 to 40 characters")
	}
	if l := len(strings.TrimSpace(in.Nationality)); l < 2 || l > 20 {
		return NewHTTPError(http.StatusBadRequest, "nationality must be 2 to 20 characters")
	}
	if y := in.BirthDate.Year(); y < 1500 || y > 3000 {
		return NewHTTPError(http.StatusBadRequest, "birth year must be between 1500 and 3000")
	}
	return nil
}

func (u *AuthorUsecase) CreateAuthor(ctx context.Context, in AuthorInput) (*model.Author, error) {
	if err := validateAuthorInput(in); err != nil {
		return nil, err
	}

	a := &model.Author{
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		Nationality: strings.TrimSpace(in.Nationality),
		BirthDate:   in.BirthDate,
	}

	if err := u.authorRepo.Create(ctx, a); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return a, nil
}

func (u *AuthorUsecase) UpdateAuthor(ctx context.Context, id int64, in AuthorInput) (*model.Author, error) {
	a, err := u.GetAuthor(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validateAuthorInput(in); err != nil {
		return nil, err
	}

	a.FirstName = strings.TrimSpace(in.FirstName)
	a.LastName = strings.TrimSpace(in.LastName)
	a.Nationality = strings.TrimSpace(in.Nationality)
	a.BirthDate = in.BirthDate

	if err := u.authorRepo.Update(ctx, a); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return a, nil
}

func (u *AuthorUsecase) DeleteAuthor(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid author id")
	}

	if err := u.authorRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "author not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
