package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

type BookUsecase struct {
	bookRepo      repo.BookRepository
	authorRepo    repo.AuthorRepository
	publisherRepo repo.PublisherRepository
	categoryRepo  repo.CategoryRepository
}

// DI
func NewBookUsecase(
	bookRepo repo.BookRepository,
	authorRepo repo.AuthorRepository,
	publisherRepo repo.PublisherRepository,
	categoryRepo repo.CategoryRepository,
) *BookUsecase {
	return &BookUsecase{
		bookRepo:      bookRepo,
		authorRepo:    authorRepo,
		publisherRepo: publisherRepo,
		categoryRepo:  categoryRepo,
	}
}

func (u *BookUsecase) ListBooks(ctx context.Context) ([]model.Book, error) {
	books, err := u.bookRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return books, nil
}

func (u *BookUsecase) GetBook(ctx context.Context, id int64) (*model.Book, error) {
	if id <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid book id")
	}

	b, err := u.bookRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusNotFound, "book not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return b, nil
}

// GET /books/searchの入力DTO
type SearchBooksInput struct {
	Page      int
	Limit     int
	Title     string
	Author    string
	Publisher string
	Category  string
	Year      *int
}

type BookListOutput struct {
	Items []model.Book `json:"items"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

func (u *BookUsecase) SearchBooks(ctx context.Context, in SearchBooksInput) (BookListOutput, error) {
	if in.Page < 1 {
		return BookListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 {
		return BookListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	//上限超えはエラーにせず丸める
	if in.Limit > repo.MaxPageSize {
		in.Limit = repo.MaxPageSize
	}
	if in.Year != nil && (*in.Year < 1500 || *in.Year > 2100) {
		return BookListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid year")
	}

	items, total, err := u.bookRepo.Search(ctx, repo.BookListQuery{
		Page:      in.Page,
		Limit:     in.Limit,
		Title:     strings.TrimSpace(in.Title),
		Author:    strings.TrimSpace(in.Author),
		Publisher: strings.TrimSpace(in.Publisher),
		Category:  strings.TrimSpace(in.Category),
		Year:      in.Year,
	})
	if err != nil {
		return BookListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return BookListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

type BookInput struct {
	Title           string  `json:"title"`
	AuthorID        int64   `json:"author_id"`
	PublisherID     int64   `json:"publisher_id"`
	PublicationYear int     `json:"publication_year"`
	CategoryIDs     []int64 `json:"category_ids"`
}

func (u *BookUsecase) validateBookInput(ctx context.Context, in BookInput) error {
	title := strings.TrimSpace(in.Title)
	if len(title) < 4 || len(title) > 150 {
		return NewHTTPError(http.StatusBadRequest, "title must be 4 to 150 characters")
	}
	if in.PublicationYear < 1500 || in.PublicationYear > 2100 {
		return NewHTTPError(http.StatusBadRequest, "publication year must be between 1500 and 2100")
	}

	//参照先が実在すること
	if _, err := u.authorRepo.FindByID(ctx, in.AuthorID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusBadRequest, "author not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if _, err := u.publisherRepo.FindByID(ctx, in.PublisherID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusBadRequest, "publisher not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 指定IDのカテゴリを全件解決する。1件でも欠けたら400
func (u *BookUsecase) resolveCategories(ctx context.Context, ids []int64) ([]model.Category, error) {
	if len(ids) == 0 {
		return []model.Category{}, nil
	}

	categories, err := u.categoryRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(categories) != len(uniqueIDs(ids)) {
		return nil, NewHTTPError(http.StatusBadRequest, "category not found")
	}
	return categories, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (u *BookUsecase) CreateBook(ctx context.Context, in BookInput) (*model.Book, error) {
	if err := u.validateBookInput(ctx, in); err != nil {
		return nil, err
	}

	categories, err := u.resolveCategories(ctx, in.CategoryIDs)
	if err != nil {
		return nil, err
	}

	b := &model.Book{
		Title:           strings.TrimSpace(in.Title),
		AuthorID:        in.AuthorID,
		PublisherID:     in.PublisherID,
		PublicationYear: in.PublicationYear,
		Categories:      categories,
	}

	if err := u.bookRepo.Create(ctx, b); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//Author/Publisher込みで返す
	return u.GetBook(ctx, b.ID)
}

func (u *BookUsecase) UpdateBook(ctx context.Context, id int64, in BookInput) (*model.Book, error) {
	b, err := u.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := u.validateBookInput(ctx, in); err != nil {
		return nil, err
	}

	b.Title = strings.TrimSpace(in.Title)
	b.AuthorID = in.AuthorID
	b.PublisherID = in.PublisherID
	b.PublicationYear = in.PublicationYear

	if err := u.bookRepo.Update(ctx, b); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if len(in.CategoryIDs) > 0 {
		categories, err := u.resolveCategories(ctx, in.CategoryIDs)
		if err != nil {
			return nil, err
		}
		if err := u.bookRepo.ReplaceCategories(ctx, id, categories); err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	return u.GetBook(ctx, id)
}

// ReplaceBookCategoriesは書籍のカテゴリ集合を置き換える。空なら全解除
func (u *BookUsecase) ReplaceBookCategories(ctx context.Context, id int64, categoryIDs []int64) (*model.Book, error) {
	if _, err := u.GetBook(ctx, id); err != nil {
		return nil, err
	}

	categories, err := u.resolveCategories(ctx, categoryIDs)
	if err != nil {
		return nil, err
	}

	if err := u.bookRepo.ReplaceCategories(ctx, id, categories); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.GetBook(ctx, id)
}

func (u *BookUsecase) DeleteBook(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid book id")
	}

	if err := u.bookRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "book not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
