package service

import (
	"crypto/sha256"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/bookbuddy/api/config"
	"github.com/bookbuddy/api/data"
	"github.com/bookbuddy/api/internal/jsonlog"
	"github.com/bookbuddy/api/repository"
)

// mockRepo is an in-memory Repository used by the service tests. It
// mirrors the store's behaviour where the service depends on it:
// duplicate detection, version checks and the review aggregate kept in
// step with the review set.
type mockRepo struct {
	mu         sync.Mutex
	books      map[int64]*data.Book
	entries    map[int64]*data.LibraryEntry
	reviews    map[int64]*data.Review
	favourites map[string]bool
	users      map[int64]*data.User
	tokens     map[string]*data.Token
	nextID     int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		books:      make(map[int64]*data.Book),
		entries:    make(map[int64]*data.LibraryEntry),
		reviews:    make(map[int64]*data.Review),
		favourites: make(map[string]bool),
		users:      make(map[int64]*data.User),
		tokens:     make(map[string]*data.Token),
	}
}

func newTestService(repo repository.Repository) *service {
	var wg sync.WaitGroup
	logger := jsonlog.New(io.Discard, jsonlog.LevelOff)
	return New(config.Config{}, &wg, logger, repo, nil)
}

func (m *mockRepo) id() int64 {
	m.nextID++
	return m.nextID
}

func favKey(userID, bookID int64) string {
	return fmt.Sprintf("%d:%d", userID, bookID)
}

// refreshRating recomputes a book's aggregate from the review set, the
// way the store does inside a review transaction.
func (m *mockRepo) refreshRating(bookID int64) {
	book, ok := m.books[bookID]
	if !ok {
		return
	}
	var sum, count int64
	for _, review := range m.reviews {
		if review.BookID == bookID {
			sum += int64(review.Rating)
			count++
		}
	}
	book.RatingsCount = int32(count)
	if count == 0 {
		book.AverageRating = 0
	} else {
		book.AverageRating = float64(sum) / float64(count)
	}
}

// books

func (m *mockRepo) CreateBook(book *data.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.books {
		if book.GoogleBooksID != "" && b.GoogleBooksID == book.GoogleBooksID {
			return repository.ErrDuplicateRecord
		}
	}
	book.ID = m.id()
	book.CreatedAt = time.Now()
	book.Version = 1
	m.books[book.ID] = book
	return nil
}

func (m *mockRepo) GetBook(bookID int64) (*data.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	book, ok := m.books[bookID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	copied := *book
	return &copied, nil
}

func (m *mockRepo) GetBookByGoogleID(googleBooksID string) (*data.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, book := range m.books {
		if book.GoogleBooksID == googleBooksID {
			copied := *book
			return &copied, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (m *mockRepo) GetAllBooks(search string, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	books := []*data.Book{}
	for _, book := range m.books {
		copied := *book
		books = append(books, &copied)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books, data.CalculateMetadata(len(books), filters.Page, filters.PageSize), nil
}

func (m *mockRepo) DeleteBook(bookID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[bookID]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(m.books, bookID)
	for id, entry := range m.entries {
		if entry.BookID == bookID {
			delete(m.entries, id)
		}
	}
	for id, review := range m.reviews {
		if review.BookID == bookID {
			delete(m.reviews, id)
		}
	}
	for key := range m.favourites {
		var userID, favBookID int64
		fmt.Sscanf(key, "%d:%d", &userID, &favBookID)
		if favBookID == bookID {
			delete(m.favourites, key)
		}
	}
	return nil
}

// entries

func (m *mockRepo) CreateEntry(entry *data.LibraryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.UserID == entry.UserID && e.BookID == entry.BookID {
			return repository.ErrDuplicateRecord
		}
	}
	entry.ID = m.id()
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = entry.CreatedAt
	entry.Version = 1
	copied := *entry
	m.entries[entry.ID] = &copied
	return nil
}

func (m *mockRepo) GetEntryForUser(userID, bookID int64) (*data.LibraryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, entry := range m.entries {
		if entry.UserID == userID && entry.BookID == bookID {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (m *mockRepo) UpdateEntry(entry *data.LibraryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.entries[entry.ID]
	if !ok || stored.Version != entry.Version {
		return repository.ErrEditConflict
	}
	entry.Version++
	entry.UpdatedAt = time.Now()
	copied := *entry
	m.entries[entry.ID] = &copied
	return nil
}

func (m *mockRepo) DeleteEntryForUser(userID, bookID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, entry := range m.entries {
		if entry.UserID == userID && entry.BookID == bookID {
			delete(m.entries, id)
			return nil
		}
	}
	return repository.ErrRecordNotFound
}

func (m *mockRepo) GetAllEntriesForUser(userID int64, shelf data.Shelf, filters data.Filters) ([]*data.LibraryEntry, data.Metadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := []*data.LibraryEntry{}
	for _, entry := range m.entries {
		if entry.UserID == userID && (shelf == "" || entry.Shelf == shelf) {
			copied := *entry
			entries = append(entries, &copied)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, data.CalculateMetadata(len(entries), filters.Page, filters.PageSize), nil
}

func (m *mockRepo) GetTimelineForUser(userID int64, filters data.Filters) ([]*data.LibraryEntry, data.Metadata, error) {
	entries, metadata, err := m.GetAllEntriesForUser(userID, "", filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].UpdatedAt.After(entries[j].UpdatedAt) })
	return entries, metadata, nil
}

// reviews

func (m *mockRepo) CreateReview(review *data.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[review.BookID]; !ok {
		return repository.ErrRecordNotFound
	}
	for _, r := range m.reviews {
		if r.UserID == review.UserID && r.BookID == review.BookID {
			return repository.ErrDuplicateRecord
		}
	}
	review.ID = m.id()
	review.CreatedAt = time.Now()
	review.UpdatedAt = review.CreatedAt
	review.Version = 1
	copied := *review
	m.reviews[review.ID] = &copied
	m.refreshRating(review.BookID)
	return nil
}

func (m *mockRepo) GetReview(reviewID int64) (*data.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	review, ok := m.reviews[reviewID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	copied := *review
	return &copied, nil
}

func (m *mockRepo) UpdateReview(review *data.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.reviews[review.ID]
	if !ok || stored.Version != review.Version {
		return repository.ErrEditConflict
	}
	review.Version++
	review.UpdatedAt = time.Now()
	copied := *review
	m.reviews[review.ID] = &copied
	m.refreshRating(review.BookID)
	return nil
}

func (m *mockRepo) DeleteReview(reviewID int64, bookID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[reviewID]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(m.reviews, reviewID)
	m.refreshRating(bookID)
	return nil
}

func (m *mockRepo) ReviewExistsForUser(userID, bookID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, review := range m.reviews {
		if review.UserID == userID && review.BookID == bookID {
			return true
		}
	}
	return false
}

func (m *mockRepo) GetAllReviewsForBook(bookID int64, filters data.Filters) (data.Rating, []*data.Review, data.Metadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reviews := []*data.Review{}
	for _, review := range m.reviews {
		if review.BookID == bookID {
			copied := *review
			reviews = append(reviews, &copied)
		}
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ID < reviews[j].ID })
	rating := data.SummarizeRatings(reviews)
	return rating, reviews, data.CalculateMetadata(len(reviews), filters.Page, filters.PageSize), nil
}

func (m *mockRepo) GetAllReviewsForUser(userID int64, filters data.Filters) ([]*data.Review, data.Metadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reviews := []*data.Review{}
	for _, review := range m.reviews {
		if review.UserID == userID {
			copied := *review
			reviews = append(reviews, &copied)
		}
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ID < reviews[j].ID })
	return reviews, data.CalculateMetadata(len(reviews), filters.Page, filters.PageSize), nil
}

// favourites

func (m *mockRepo) AddFavouriteForUser(userID, bookID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := favKey(userID, bookID)
	if m.favourites[key] {
		return repository.ErrDuplicateRecord
	}
	m.favourites[key] = true
	return nil
}

func (m *mockRepo) RemoveFavouriteForUser(userID, bookID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := favKey(userID, bookID)
	if !m.favourites[key] {
		return repository.ErrRecordNotFound
	}
	delete(m.favourites, key)
	return nil
}

func (m *mockRepo) GetAllFavouritesForUser(userID int64, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	books := []*data.Book{}
	for _, book := range m.books {
		if m.favourites[favKey(userID, book.ID)] {
			copied := *book
			books = append(books, &copied)
		}
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books, data.CalculateMetadata(len(books), filters.Page, filters.PageSize), nil
}

// users

func (m *mockRepo) CreateUser(user *data.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateRecord
		}
	}
	user.ID = m.id()
	user.CreatedAt = time.Now()
	user.Version = 1
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockRepo) GetUser(userID int64) (*data.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockRepo) GetUserByEmail(email string) (*data.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (m *mockRepo) GetUserForToken(scope string, tokenPlaintext string) (*data.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	hash := sha256.Sum256([]byte(tokenPlaintext))
	token, ok := m.tokens[string(hash[:])]
	if !ok || token.Scope != scope || token.Expiry.Before(time.Now()) {
		return nil, repository.ErrRecordNotFound
	}
	user, ok := m.users[token.UserID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockRepo) UpdateUser(user *data.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.users[user.ID]
	if !ok || stored.Version != user.Version {
		return repository.ErrEditConflict
	}
	user.Version++
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

// tokens

func (m *mockRepo) CreateNewToken(userID int64, ttl time.Duration, scope string) (*data.Token, error) {
	token, err := data.GenerateToken(userID, ttl, scope)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[string(token.Hash)] = token
	return token, nil
}

func (m *mockRepo) DeleteAllTokensForUser(scope string, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for hash, token := range m.tokens {
		if token.Scope == scope && token.UserID == userID {
			delete(m.tokens, hash)
		}
	}
	return nil
}
