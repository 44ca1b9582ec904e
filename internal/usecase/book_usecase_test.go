package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// Mock: BookRepository
// =====================

type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) List(ctx context.Context) ([]model.Book, error) {
	args := m.Called(ctx)
	books, _ := args.Get(0).([]model.Book)
	return books, args.Error(1)
}

func (m *MockBookRepository) FindByID(ctx context.Context, id int64) (*model.Book, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*model.Book)
	return b, args.Error(1)
}

func (m *MockBookRepository) Search(ctx context.Context, q repo.BookListQuery) ([]model.Book, int64, error) {
	args := m.Called(ctx, q)
	books, _ := args.Get(0).([]model.Book)
	return books, args.Get(1).(int64), args.Error(2)
}

func (m *MockBookRepository) Create(ctx context.Context, b *model.Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookRepository) Update(ctx context.Context, b *model.Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookRepository) ReplaceCategories(ctx context.Context, bookID int64, categories []model.Category) error {
	args := m.Called(ctx, bookID, categories)
	return args.Error(0)
}

func (m *MockBookRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// =====================
// Mock: AuthorRepository
// =====================

type MockAuthorRepository struct {
	mock.Mock
}

func (m *MockAuthorRepository) List(ctx context.Context, q repo.AuthorListQuery) ([]model.Author, int64, error) {
	args := m.Called(ctx, q)
	authors, _ := args.Get(0).([]model.Author)
	return authors, args.Get(1).(int64), args.Error(2)
}

func (m *MockAuthorRepository) FindByID(ctx context.Context, id int64) (*model.Author, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*model.Author)
	return a, args.Error(1)
}

func (m *MockAuthorRepository) Create(ctx context.Context, a *model.Author) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAuthorRepository) Update(ctx context.Context, a *model.Author) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAuthorRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// =====================
// Mock: PublisherRepository
// =====================

type MockPublisherRepository struct {
	mock.Mock
}

func (m *MockPublisherRepository) List(ctx context.Context, q repo.PublisherListQuery) ([]model.Publisher, int64, error) {
	args := m.Called(ctx, q)
	publishers, _ := args.Get(0).([]model.Publisher)
	return publishers, args.Get(1).(int64), args.Error(2)
}

func (m *MockPublisherRepository) FindByID(ctx context.Context, id int64) (*model.Publisher, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*model.Publisher)
	return p, args.Error(1)
}

func (m *MockPublisherRepository) Create(ctx context.Context, p *model.Publisher) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPublisherRepository) Update(ctx context.Context, p *model.Publisher) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPublisherRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// =====================
// Mock: CategoryRepository
// =====================

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) List(ctx context.Context, q repo.CategoryListQuery) ([]model.Category, int64, error) {
	args := m.Called(ctx, q)
	categories, _ := args.Get(0).([]model.Category)
	return categories, args.Get(1).(int64), args.Error(2)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id int64) (*model.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*model.Category)
	return c, args.Error(1)
}

func (m *MockCategoryRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Category, error) {
	args := m.Called(ctx, ids)
	categories, _ := args.Get(0).([]model.Category)
	return categories, args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, c *model.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCategoryRepository) Update(ctx context.Context, c *model.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// =====================
// Helper
// =====================

func newBookUC(bookRepo *MockBookRepository, authorRepo *MockAuthorRepository, publisherRepo *MockPublisherRepository, categoryRepo *MockCategoryRepository) *usecase.BookUsecase {
	return usecase.NewBookUsecase(bookRepo, authorRepo, publisherRepo, categoryRepo)
}

func assertHTTPStatus(t *testing.T, err error, status int) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok, "expected HTTPError, got %v", err)
	assert.Equal(t, status, he.Status)
}

func validBookInput() usecase.BookInput {
	return usecase.BookInput{
		Title:           "The Go Programming Language",
		AuthorID:        1,
		PublisherID:     2,
		PublicationYear: 2015,
		CategoryIDs:     []int64{3},
	}
}

// =====================
// GetBook
// =====================

func TestBookUsecase_GetBook_NotFound(t *testing.T) {
	ctx := context.Background()

	bookRepo := new(MockBookRepository)
	bookRepo.On("FindByID", mock.Anything, int64(99)).Return(nil, repo.ErrNotFound)

	u := newBookUC(bookRepo, new(MockAuthorRepository), new(MockPublisherRepository), new(MockCategoryRepository))

	_, err := u.GetBook(ctx, 99)
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestBookUsecase_GetBook_InvalidID(t *testing.T) {
	u := newBookUC(new(MockBookRepository), new(MockAuthorRepository), new(MockPublisherRepository), new(MockCategoryRepository))

	_, err := u.GetBook(context.Background(), 0)
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

// =====================
// SearchBooks
// =====================

func TestBookUsecase_SearchBooks_ClampsLimit(t *testing.T) {
	ctx := context.Background()

	bookRepo := new(MockBookRepository)

	// 上限超えのlimitは50に丸めて問い合わせる
	bookRepo.On("Search", mock.Anything, mock.MatchedBy(func(q repo.BookListQuery) bool {
		return q.Limit == repo.MaxPageSize && q.Page == 1
	})).Return([]model.Book{}, int64(0), nil)

	u := newBookUC(bookRepo, new(MockAuthorRepository), new(MockPublisherRepository), new(MockCategoryRepository))

	out, err := u.SearchBooks(ctx, usecase.SearchBooksInput{Page: 1, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, repo.MaxPageSize, out.Limit)

	bookRepo.AssertExpectations(t)
}

func TestBookUsecase_SearchBooks_InvalidPage(t *testing.T) {
	u := newBookUC(new(MockBookRepository), new(MockAuthorRepository), new(MockPublisherRepository), new(MockCategoryRepository))

	_, err := u.SearchBooks(context.Background(), usecase.SearchBooksInput{Page: 0, Limit: 10})
	assertHTTPStatus(t, err, http.StatusBadRequest)

	_, err = u.SearchBooks(context.Background(), usecase.SearchBooksInput{Page: 1, Limit: 0})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestBookUsecase_SearchBooks_InvalidYear(t *testing.T) {
	u := newBookUC(new(MockBookRepository), new(MockAuthorRepository), new(MockPublisherRepository), new(MockCategoryRepository))

	year := 1200
	_, err := u.SearchBooks(context.Background(), usecase.SearchBooksInput{Page: 1, Limit: 10, Year: &year})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

// =====================
// CreateBook
// =====================

func TestBookUsecase_CreateBook_Success(t *testing.T) {
	ctx := context.Background()

	bookRepo := new(MockBookRepository)
	authorRepo := new(MockAuthorRepository)
	publisherRepo := new(MockPublisherRepository)
	categoryRepo := new(MockCategoryRepository)

	authorRepo.On("FindByID", mock.Anything, int64(1)).Return(&model.Author{ID: 1}, nil)
	publisherRepo.On("FindByID", mock.Anything, int64(2)).Return(&model.Publisher{ID: 2}, nil)
	categoryRepo.On("FindByIDs", mock.Anything, []int64{3}).Return([]model.Category{{ID: 3}}, nil)

	bookRepo.On("Create", mock.Anything, mock.MatchedBy(func(b *model.Book) bool {
		return b.Title == "The Go Programming Language" && len(b.Categories) == 1
	})).Run(func(args mock.Arguments) {
		// DBが採番するIDを模す
		args.Get(1).(*model.Book).ID = 10
	}).Return(nil)

	bookRepo.On("FindByID", mock.Anything, int64(10)).Return(&model.Book{ID: 10, Title: "The Go Programming Language"}, nil)

	u := newBookUC(bookRepo, authorRepo, publisherRepo, categoryRepo)

	b, err := u.CreateBook(ctx, validBookInput())
	require.NoError(t, err)
	assert.Equal(t, int64(10), b.ID)

	bookRepo.AssertExpectations(t)
}

func TestBookUsecase_CreateBook_TitleTooShort(t *testing.T) {
	u := newBookUC(new(MockBookRepository), new(MockAuthorRepository), new(MockPublisherRepository), new(MockCategoryRepository))

	in := validBookInput()
	in.Title = "Go"

	_, err := u.CreateBook(context.Background(), in)
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestBookUsecase_CreateBook_UnknownAuthor(t *testing.T) {
	ctx := context.Background()

	bookRepo := new(MockBookRepository)
	authorRepo := new(MockAuthorRepository)

	authorRepo.On("FindByID", mock.Anything, int64(1)).Return(nil, repo.ErrNotFound)

	u := newBookUC(bookRepo, authorRepo, new(MockPublisherRepository), new(MockCategoryRepository))

	_, err := u.CreateBook(ctx, validBookInput())
	assertHTTPStatus(t, err, http.StatusBadRequest)

	bookRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBookUsecase_CreateBook_UnknownCategory(t *testing.T) {
	ctx := context.Background()

	bookRepo := new(MockBookRepository)
	authorRepo := new(MockAuthorRepository)
	publisherRepo := new(MockPublisherRepository)
	categoryRepo := new(MockCategoryRepository)

	authorRepo.On("FindByID", mock.Anything, int64(1)).Return(&model.Author{ID: 1}, nil)
	publisherRepo.On("FindByID", mock.Anything, int64(2)).Return(&model.Publisher{ID: 2}, nil)

	// 2件要求して1件しか見つからない
	categoryRepo.On("FindByIDs", mock.Anything, []int64{3, 4}).Return([]model.Category{{ID: 3}}, nil)

	u := newBookUC(bookRepo, authorRepo, publisherRepo, categoryRepo)

	in := validBookInput()
	in.CategoryIDs = []int64{3, 4}

	_, err := u.CreateBook(ctx, in)
	assertHTTPStatus(t, err, http.StatusBadRequest)

	bookRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// =====================
// ReplaceBookCategories
// =====================

func TestBookUsecase_ReplaceBookCategories_EmptyClearsAll(t *testing.T) {
	ctx := context.Background()

	bookRepo := new(MockBookRepository)
	categoryRepo := new(MockCategoryRepository)

	bookRepo.On("FindByID", mock.Anything, int64(10)).Return(&model.Book{ID: 10, Title: "Some Book"}, nil)
	bookRepo.On("ReplaceCategories", mock.Anything, int64(10), []model.Category{}).Return(nil)

	u := newBookUC(bookRepo, new(MockAuthorRepository), new(MockPublisherRepository), categoryRepo)

	_, err := u.ReplaceBookCategories(ctx, 10, nil)
	require.NoError(t, err)

	// 空指定なのでカテゴリ解決は走らない
	categoryRepo.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
	bookRepo.AssertExpectations(t)
}

// =====================
// DeleteBook
// =====================

func TestBookUsecase_DeleteBook_NotFound(t *testing.T) {
	ctx := context.Background()

	bookRepo := new(MockBookRepository)
	bookRepo.On("Delete", mock.Anything, int64(99)).Return(repo.ErrNotFound)

	u := newBookUC(bookRepo, new(MockAuthorRepository), new(MockPublisherRepository), new(MockCategoryRepository))

	err := u.DeleteBook(ctx, 99)
	assertHTTPStatus(t, err, http.StatusNotFound)
}
