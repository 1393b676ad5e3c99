package service

import (
	"context"
	"testing"

	"github.com/bookbuddy/api/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCatalog is an in-memory Catalog for the import tests.
type stubCatalog struct {
	volumes map[string]*data.Book
	fetches int
}

func (c *stubCatalog) Search(ctx context.Context, query string) ([]*data.Book, error) {
	books := []*data.Book{}
	for _, book := range c.volumes {
		copied := *book
		books = append(books, &copied)
	}
	return books, nil
}

func (c *stubCatalog) FetchByID(ctx context.Context, volumeID string) (*data.Book, error) {
	c.fetches++
	book, ok := c.volumes[volumeID]
	if !ok {
		return nil, nil
	}
	copied := *book
	return &copied, nil
}

func TestImportBook(t *testing.T) {
	volume := &data.Book{
		Title:         "The Go Programming Language",
		Author:        "Alan A. A. Donovan, Brian W. Kernighan",
		PageCount:     380,
		GoogleBooksID: "SJHvCgAAQBAJ",
	}

	t.Run("imports a volume into the store", func(t *testing.T) {
		repo := newMockRepo()
		catalog := &stubCatalog{volumes: map[string]*data.Book{volume.GoogleBooksID: volume}}
		s := newTestService(repo)
		s.catalog = catalog

		book, err := s.ImportBook(volume.GoogleBooksID)
		require.NoError(t, err)
		assert.NotZero(t, book.ID)
		assert.Equal(t, volume.Title, book.Title)
		assert.Equal(t, 0.0, book.AverageRating)
		assert.Equal(t, int32(0), book.RatingsCount)
	})

	t.Run("importing twice returns the existing record", func(t *testing.T) {
		repo := newMockRepo()
		catalog := &stubCatalog{volumes: map[string]*data.Book{volume.GoogleBooksID: volume}}
		s := newTestService(repo)
		s.catalog = catalog

		first, err := s.ImportBook(volume.GoogleBooksID)
		require.NoError(t, err)
		second, err := s.ImportBook(volume.GoogleBooksID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 1, catalog.fetches)
	})

	t.Run("unknown volume is not found", func(t *testing.T) {
		repo := newMockRepo()
		catalog := &stubCatalog{volumes: map[string]*data.Book{}}
		s := newTestService(repo)
		s.catalog = catalog

		_, err := s.ImportBook("nope")
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("missing volume id fails validation", func(t *testing.T) {
		repo := newMockRepo()
		s := newTestService(repo)
		s.catalog = &stubCatalog{}

		_, err := s.ImportBook("")
		assert.ErrorIs(t, err, ErrFailedValidation)
	})
}

func TestDeleteBook(t *testing.T) {
	repo := newMockRepo()
	s := newTestService(repo)
	book := seedBook(t, repo, 200)

	_, err := s.AddToLibrary(1, book.ID, data.ShelfRead, "")
	require.NoError(t, err)
	_, err = s.CreateReview(1, book.ID, reviewContent, 4)
	require.NoError(t, err)
	require.NoError(t, s.AddFavourite(1, book.ID))

	require.NoError(t, s.DeleteBook(book.ID))

	_, err = s.GetBook(book.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
	_, err = repo.GetEntryForUser(1, book.ID)
	assert.Error(t, err)
	assert.False(t, repo.ReviewExistsForUser(1, book.ID))

	err = s.DeleteBook(book.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestFavourites(t *testing.T) {
	repo := newMockRepo()
	s := newTestService(repo)
	book := seedBook(t, repo, 200)

	require.NoError(t, s.AddFavourite(1, book.ID))
	assert.ErrorIs(t, s.AddFavourite(1, book.ID), ErrDuplicateRecord)

	filters := data.Filters{Page: 1, PageSize: 20, Sort: "id", SortSafelist: []string{"id"}}
	books, _, err := s.ListFavourites(1, filters)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, book.ID, books[0].ID)

	require.NoError(t, s.RemoveFavourite(1, book.ID))
	assert.ErrorIs(t, s.RemoveFavourite(1, book.ID), ErrRecordNotFound)
}
