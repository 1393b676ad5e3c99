package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const volumeJSON = `{
	"id": "SJHvCgAAQBAJ",
	"volumeInfo": {
		"title": "The Go Programming Language",
		"authors": ["Alan A. A. Donovan", "Brian W. Kernighan"],
		"publisher": "Addison-Wesley",
		"publishedDate": "2015-11-16",
		"description": "The authoritative resource to writing clear and idiomatic Go.",
		"industryIdentifiers": [
			{"type": "ISBN_10", "identifier": "0134190564"},
			{"type": "ISBN_13", "identifier": "9780134190563"}
		],
		"pageCount": 380,
		"categories": ["Computers"],
		"imageLinks": {
			"smallThumbnail": "http://books.google.com/small.jpg",
			"thumbnail": "http://books.google.com/thumb.jpg"
		},
		"language": "en"
	}
}`

func TestGoogleBooksFetchByID(t *testing.T) {
	t.Run("fetches and converts a volume", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/volumes/SJHvCgAAQBAJ", r.URL.Path)
			w.Write([]byte(volumeJSON))
		}))
		defer srv.Close()

		client := NewGoogleBooksClient(srv.URL, "", time.Minute, srv.Client())
		book, err := client.FetchByID(context.Background(), "SJHvCgAAQBAJ")
		require.NoError(t, err)
		require.NotNil(t, book)
		assert.Equal(t, "The Go Programming Language", book.Title)
		assert.Equal(t, "Alan A. A. Donovan, Brian W. Kernighan", book.Author)
		assert.Equal(t, "9780134190563", book.Isbn)
		assert.Equal(t, int32(380), book.PageCount)
		assert.Equal(t, "http://books.google.com/thumb.jpg", book.CoverURL)
		assert.Equal(t, "SJHvCgAAQBAJ", book.GoogleBooksID)
	})

	t.Run("missing volume returns nil without error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		client := NewGoogleBooksClient(srv.URL, "", time.Minute, srv.Client())
		book, err := client.FetchByID(context.Background(), "nope")
		require.NoError(t, err)
		assert.Nil(t, book)
	})

	t.Run("second fetch is served from the cache", func(t *testing.T) {
		requests := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			w.Write([]byte(volumeJSON))
		}))
		defer srv.Close()

		client := NewGoogleBooksClient(srv.URL, "", time.Minute, srv.Client())
		_, err := client.FetchByID(context.Background(), "SJHvCgAAQBAJ")
		require.NoError(t, err)
		_, err = client.FetchByID(context.Background(), "SJHvCgAAQBAJ")
		require.NoError(t, err)
		assert.Equal(t, 1, requests)
	})

	t.Run("server error is returned", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := NewGoogleBooksClient(srv.URL, "", time.Minute, srv.Client())
		_, err := client.FetchByID(context.Background(), "SJHvCgAAQBAJ")
		assert.Error(t, err)
	})
}

func TestGoogleBooksSearch(t *testing.T) {
	t.Run("queries the volumes endpoint", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/volumes", r.URL.Path)
			assert.Equal(t, "golang", r.URL.Query().Get("q"))
			w.Write([]byte(`{"totalItems": 1, "items": [` + volumeJSON + `]}`))
		}))
		defer srv.Close()

		client := NewGoogleBooksClient(srv.URL, "", time.Minute, srv.Client())
		books, err := client.Search(context.Background(), "golang")
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, "The Go Programming Language", books[0].Title)
	})

	t.Run("no matches yields an empty list", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"totalItems": 0}`))
		}))
		defer srv.Close()

		client := NewGoogleBooksClient(srv.URL, "", time.Minute, srv.Client())
		books, err := client.Search(context.Background(), "zxcvbnm")
		require.NoError(t, err)
		assert.Empty(t, books)
	})
}

func TestConvertVolumeFallbacks(t *testing.T) {
	vol := &volume{ID: "abc"}
	book := convertVolume(vol)
	assert.Equal(t, "Untitled", book.Title)
	assert.Equal(t, "Unknown Author", book.Author)
	assert.Empty(t, book.Isbn)

	vol.VolumeInfo.IndustryIdentifiers = []struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	}{
		{Type: "ISBN_10", Identifier: "0134190564"},
	}
	vol.VolumeInfo.ImageLinks.SmallThumbnail = "http://books.google.com/small.jpg"
	book = convertVolume(vol)
	assert.Equal(t, "0134190564", book.Isbn)
	assert.Equal(t, "http://books.google.com/small.jpg", book.CoverURL)
}
