package usecase

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type PublisherUsecase struct {
	publisherRepo repo.PublisherRepository
}

// DI
func NewPublisherUsecase(publisherRepo repo.PublisherRepository) *PublisherUsecase {
	return &PublisherUsecase{publisherRepo: publisherRepo}
}

type ListPublishersInput struct {
	Page  int
	Limit int
	Name  string
}

type PublisherListOutput struct {
	Items []model.Publisher `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

func (u *PublisherUsecase) ListPublishers(ctx context.Context, in ListPublishersInput) (PublisherListOutput, error) {
	if in.Page < 1 {
		return PublisherListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 {
		return PublisherListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if in.Limit > repo.MaxPageSize {
		in.Limit = repo.MaxPageSize
	}

	items, total, err := u.publisherRepo.List(ctx, repo.PublisherListQuery{
		Page:  in.Page,
		Limit: in.Limit,
		Name:  strings.TrimSpace(in.Name),
	})
	if err != nil {
		return PublisherListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return PublisherListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

func (u *PublisherUsecase) GetPublisher(ctx context.Context, id int64) (*model.Publisher, error) {
	if id <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid publisher id")
	}

	p, err := u.publisherRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusNotFound, "publisher not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

type PublisherInput struct {
	Name        string `json:"name"`
	Country     string `json:"country"`
	FoundedYear int    `json:"founded_year"`
	Website     string `json:"website"`
}

func validatePublisherInput(in PublisherInput) error {
	if l := len(strings.TrimSpace(in.Name)); l < 4 || l > 80 {
		return NewHTTPError(http.StatusBadRequest, "name must be 4 to 80 characters")
	}
	if l := len(strings.TrimSpace(in.Country)); l < 2 || l > 15 {
		return NewHTTPError(http.StatusBadRequest, "country must be 2 to 15 characters")
	}
	if in.FoundedYear < 1500 || in.FoundedYear > 2030 {
		return NewHTTPError(http.StatusBadRequest, "founded year must be between 1500 and 2030")
	}
	if in.Website != "" {
		parsed, err := url.ParseRequestURI(in.Website)
		if err != nil || parsed.Host == "" {
			return NewHTTPError(http.StatusBadRequest, "invalid website url")
		}
	}
	return nil
}

func (u *PublisherUsecase) CreatePublisher(ctx context.Context, in PublisherInput) (*model.Publisher, error) {
	if err := validatePublisherInput(in); err != nil {
		return nil, err
	}

	p := &model.Publisher{
		Name:        strings.TrimSpace(in.Name),
		Country:     strings.TrimSpace(in.Country),
		FoundedYear: in.FoundedYear,
		Website:     in.Website,
	}

	if err := u.publisherRepo.Create(ctx, p); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

func (u *PublisherUsecase) UpdatePublisher(ctx context.Context, id int64, in PublisherInput) (*model.Publisher, error) {
	p, err := u.GetPublisher(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validatePublisherInput(in); err != nil {
		return nil, err
	}

	p.Name = strings.TrimSpace(in.Name)
	p.Country = strings.TrimSpace(in.Country)
	p.FoundedYear = in.FoundedYear
	p.Website = in.Website

	if err := u.publisherRepo.Update(ctx, p); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

func (u *PublisherUsecase) DeletePublisher(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid publisher id")
	}

	if err := u.publisherRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "publisher not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
