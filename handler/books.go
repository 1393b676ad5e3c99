package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bookbuddy/api/data"
	"github.com/bookbuddy/api/data/dto"
	"github.com/bookbuddy/api/internal/validator"
	"github.com/bookbuddy/api/service"
)

// ListBooks godoc
// @Summary List stored books
// @Description This endpoint lists the books in the store, optionally filtered by a full-text search term
// @Tags books
// @Produce json
// @Param token header string true "Bearer token"
// @Param search query string false "Search term"
// @Success 200 {array} data.Book
// @Failure 422
// @Failure 500
// @Router /v1/books [get]
func (h *Handler) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	var filters data.Filters
	v := validator.New()
	qs := r.URL.Query()
	search := h.readString(qs, "search", "")
	filters.Page = h.readInt(qs, "page", 1, v)
	filters.PageSize = h.readInt(qs, "page_size", 20, v)
	filters.Sort = h.readString(qs, "sort", "id")
	filters.SortSafelist = []string{"id", "title", "author", "average_rating", "ratings_count", "created_at", "-id", "-title", "-author", "-average_rating", "-ratings_count", "-created_at"}
	books, metadata, err := h.service.SearchStoredBooks(search, filters)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"books": books, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// SearchExternalBooks godoc
// @Summary Search the external catalogue
// @Description This endpoint searches the Google Books catalogue without storing any results
// @Tags books
// @Produce json
// @Param token header string true "Bearer token"
// @Param q query string true "Search query"
// @Success 200 {array} data.Book
// @Failure 422
// @Failure 500
// @Router /v1/catalog [get]
func (h *Handler) searchExternalBooksHandler(w http.ResponseWriter, r *http.Request) {
	query := h.readString(r.URL.Query(), "q", "")
	books, err := h.service.SearchCatalog(query)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"books": books}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ImportBook godoc
// @Summary Import a book from the external catalogue
// @Description This endpoint copies a Google Books volume into the store. Importing an already imported volume returns the existing record
// @Tags books
// @Accept  json
// @Produce json
// @Param token header string true "Bearer token"
// @Param body body dto.ImportBookRequestBody true "JSON payload required to import a book"
// @Success 201 {object} data.Book
// @Failure 400
// @Failure 404
// @Failure 422
// @Failure 500
// @Router /v1/catalog [post]
func (h *Handler) importBookHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.ImportBookRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	book, err := h.service.ImportBook(requestBody.GoogleBooksID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/v1/books/%d", book.ID))
	err = h.encodeJSON(w, http.StatusCreated, envelope{"book": book}, headers)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ShowBook godoc
// @Summary Show details of a book
// @Description This endpoint shows the details of a specific stored book
// @Tags books
// @Produce json
// @Param token header string true "Bearer token"
// @Param bookId path int true "ID of book to show"
// @Success 200 {object} data.Book
// @Failure 404
// @Failure 500
// @Router /v1/books/{bookId} [get]
func (h *Handler) showBookHandler(w http.ResponseWriter, r *http.Request) {
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	book, err := h.service.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"book": book}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) deleteBookHandler(w http.ResponseWriter, r *http.Request) {
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	err = h.service.DeleteBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"message": "book successfully deleted"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
