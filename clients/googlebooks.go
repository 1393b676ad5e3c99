package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bookbuddy/api/data"
	"github.com/jellydator/ttlcache/v3"
)

const searchMaxResults = 20

// GoogleBooksClient talks to the Google Books volumes API. Fetched
// volumes are cached by volume ID so repeated imports of a popular book
// stay off the wire.
type GoogleBooksClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	cache   *ttlcache.Cache[string, *data.Book]
}

// NewGoogleBooksClient creates a catalogue client. cacheTTL bounds how
// long a fetched volume is served from the cache.
func NewGoogleBooksClient(baseURL string, apiKey string, cacheTTL time.Duration, client *http.Client) *GoogleBooksClient {
	cache := ttlcache.New[string, *data.Book](
		ttlcache.WithTTL[string, *data.Book](cacheTTL),
		ttlcache.WithDisableTouchOnHit[string, *data.Book](),
	)
	go cache.Start()
	return &GoogleBooksClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
		cache:   cache,
	}
}

// volume mirrors the fields of a Google Books volume resource the app
// cares about.
type volume struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title               string   `json:"title"`
		Authors             []string `json:"authors"`
		Publisher           string   `json:"publisher"`
		PublishedDate       string   `json:"publishedDate"`
		Description         string   `json:"description"`
		IndustryIdentifiers []struct {
			Type       string `json:"type"`
			Identifier string `json:"identifier"`
		} `json:"industryIdentifiers"`
		PageCount  int32    `json:"pageCount"`
		Categories []string `json:"categories"`
		ImageLinks struct {
			SmallThumbnail string `json:"smallThumbnail"`
			Thumbnail      string `json:"thumbnail"`
		} `json:"imageLinks"`
		Language string `json:"language"`
	} `json:"volumeInfo"`
}

type volumeList struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

// Search queries the volumes API for books matching query.
func (c *GoogleBooksClient) Search(ctx context.Context, query string) ([]*data.Book, error) {
	values := url.Values{}
	values.Set("q", query)
	values.Set("maxResults", fmt.Sprintf("%d", searchMaxResults))
	if c.apiKey != "" {
		values.Set("key", c.apiKey)
	}
	endpoint := c.baseURL + "/volumes?" + values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google books search: unexpected status %d", resp.StatusCode)
	}

	var list volumeList
	err = json.NewDecoder(resp.Body).Decode(&list)
	if err != nil {
		return nil, err
	}

	books := []*data.Book{}
	for i := range list.Items {
		books = append(books, convertVolume(&list.Items[i]))
	}
	return books, nil
}

// FetchByID retrieves a single volume. A nil book with a nil error
// means the catalogue has no volume with that ID.
func (c *GoogleBooksClient) FetchByID(ctx context.Context, volumeID string) (*data.Book, error) {
	if item := c.cache.Get(volumeID); item != nil {
		return item.Value(), nil
	}

	endpoint := c.baseURL + "/volumes/" + url.PathEscape(volumeID)
	if c.apiKey != "" {
		endpoint += "?key=" + url.QueryEscape(c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("google books fetch: unexpected status %d", resp.StatusCode)
	}

	var vol volume
	err = json.NewDecoder(resp.Body).Decode(&vol)
	if err != nil {
		return nil, err
	}

	book := convertVolume(&vol)
	c.cache.Set(volumeID, book, ttlcache.DefaultTTL)
	return book, nil
}

// convertVolume maps a volume resource onto a book record. Sparse
// volume metadata is common, so missing titles and authors get
// placeholder values rather than failing the import.
func convertVolume(vol *volume) *data.Book {
	info := vol.VolumeInfo

	title := info.Title
	if title == "" {
		title = "Untitled"
	}

	author := strings.Join(info.Authors, ", ")
	if author == "" {
		author = "Unknown Author"
	}

	// Prefer the ISBN-13 identifier, falling back to ISBN-10.
	var isbn string
	for _, id := range info.IndustryIdentifiers {
		if id.Type == "ISBN_13" {
			isbn = id.Identifier
			break
		}
		if id.Type == "ISBN_10" && isbn == "" {
			isbn = id.Identifier
		}
	}

	coverURL := info.ImageLinks.Thumbnail
	if coverURL == "" {
		coverURL = info.ImageLinks.SmallThumbnail
	}

	// Catalogue descriptions can run to several pages; keep what fits
	// the book record.
	description := info.Description
	if len(description) > 2000 {
		description = description[:2000]
	}

	return &data.Book{
		Title:         title,
		Author:        author,
		Isbn:          isbn,
		Description:   description,
		Publisher:     info.Publisher,
		PublishedDate: info.PublishedDate,
		PageCount:     info.PageCount,
		CoverURL:      coverURL,
		Categories:    info.Categories,
		Language:      info.Language,
		GoogleBooksID: vol.ID,
	}
}
