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

// AddToLibrary godoc
// @Summary Add a book to the library
// @Description This endpoint places a stored book on one of the user's shelves. A user holds at most one library entry per book
// @Tags library
// @Accept  json
// @Produce json
// @Param token header string true "Bearer token"
// @Param body body dto.AddToLibraryRequestBody true "JSON payload required to add a book to the library"
// @Success 201 {object} data.LibraryEntry
// @Failure 400
// @Failure 404
// @Failure 409
// @Failure 422
// @Failure 500
// @Router /v1/library [post]
func (h *Handler) addToLibraryHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.AddToLibraryRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	user := h.contextGetUser(r)
	entry, err := h.service.AddToLibrary(user.ID, requestBody.BookID, requestBody.Shelf, requestBody.Notes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrDuplicateRecord):
			h.recordAlreadyExistsResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/v1/library/%d", entry.BookID))
	err = h.encodeJSON(w, http.StatusCreated, envelope{"entry": entry}, headers)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// MoveShelf godoc
// @Summary Move a book to another shelf
// @Description This endpoint moves the user's entry for a book onto another shelf. Moving onto the current shelf is a no-op
// @Tags library
// @Accept  json
// @Produce json
// @Param token header string true "Bearer token"
// @Param bookId path int true "ID of book to move"
// @Param body body dto.MoveShelfRequestBody true "JSON payload required to move a book between shelves"
// @Success 200 {object} data.LibraryEntry
// @Failure 400
// @Failure 404
// @Failure 409
// @Failure 422
// @Failure 500
// @Router /v1/library/{bookId}/shelf [put]
func (h *Handler) moveShelfHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.MoveShelfRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	user := h.contextGetUser(r)
	entry, err := h.service.MoveShelf(user.ID, bookID, requestBody.Shelf)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrEditConflict):
			h.editConflictResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"entry": entry}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// UpdateProgress godoc
// @Summary Update reading progress
// @Description This endpoint records a progress update on the user's entry for a book. Reaching 100% completes the book and moves it to the READ shelf
// @Tags library
// @Accept  json
// @Produce json
// @Param token header string true "Bearer token"
// @Param bookId path int true "ID of book to update"
// @Param body body dto.UpdateProgressRequestBody true "JSON payload required to update reading progress"
// @Success 200 {object} data.LibraryEntry
// @Failure 400
// @Failure 404
// @Failure 409
// @Failure 422
// @Failure 500
// @Router /v1/library/{bookId}/progress [put]
func (h *Handler) updateProgressHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.UpdateProgressRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	user := h.contextGetUser(r)
	entry, err := h.service.UpdateProgress(user.ID, bookID, requestBody.CurrentPage, requestBody.ProgressPercentage)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrEditConflict):
			h.editConflictResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"entry": entry}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// RateBook godoc
// @Summary Rate a book in the library
// @Description This endpoint records the user's personal 1-5 star rating on their library entry. It does not affect the book's review aggregate
// @Tags library
// @Accept  json
// @Produce json
// @Param token header string true "Bearer token"
// @Param bookId path int true "ID of book to rate"
// @Param body body dto.RateBookRequestBody true "JSON payload required to rate a book"
// @Success 200 {object} data.LibraryEntry
// @Failure 400
// @Failure 404
// @Failure 409
// @Failure 422
// @Failure 500
// @Router /v1/library/{bookId}/rating [put]
func (h *Handler) rateBookHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.RateBookRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	user := h.contextGetUser(r)
	entry, err := h.service.RateBook(user.ID, bookID, requestBody.Rating)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrEditConflict):
			h.editConflictResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"entry": entry}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) removeFromLibraryHandler(w http.ResponseWriter, r *http.Request) {
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	user := h.contextGetUser(r)
	err = h.service.RemoveFromLibrary(user.ID, bookID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"message": "book successfully removed from library"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ListLibrary godoc
// @Summary List the user's library
// @Description This endpoint lists the user's library entries, optionally restricted to a single shelf
// @Tags library
// @Produce json
// @Param token header string true "Bearer token"
// @Param shelf query string false "Shelf filter (WANT_TO_READ, CURRENTLY_READING or READ)"
// @Success 200 {array} data.LibraryEntry
// @Failure 422
// @Failure 500
// @Router /v1/users/library [get]
func (h *Handler) listLibraryHandler(w http.ResponseWriter, r *http.Request) {
	var filters data.Filters
	v := validator.New()
	qs := r.URL.Query()
	shelf := data.Shelf(h.readString(qs, "shelf", ""))
	filters.Page = h.readInt(qs, "page", 1, v)
	filters.PageSize = h.readInt(qs, "page_size", 20, v)
	filters.Sort = h.readString(qs, "sort", "-updated_at")
	filters.SortSafelist = []string{"id", "shelf", "created_at", "updated_at", "-id", "-shelf", "-created_at", "-updated_at"}
	user := h.contextGetUser(r)
	entries, metadata, err := h.service.ListLibrary(user.ID, shelf, filters)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"entries": entries, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) listTimelineHandler(w http.ResponseWriter, r *http.Request) {
	var filters data.Filters
	v := validator.New()
	qs := r.URL.Query()
	filters.Page = h.readInt(qs, "page", 1, v)
	filters.PageSize = h.readInt(qs, "page_size", 20, v)
	filters.Sort = h.readString(qs, "sort", "-updated_at")
	filters.SortSafelist = []string{"updated_at", "-updated_at"}
	user := h.contextGetUser(r)
	entries, metadata, err := h.service.Timeline(user.ID, filters)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"entries": entries, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) listCurrentlyReadingHandler(w http.ResponseWriter, r *http.Request) {
	var filters data.Filters
	v := validator.New()
	qs := r.URL.Query()
	filters.Page = h.readInt(qs, "page", 1, v)
	filters.PageSize = h.readInt(qs, "page_size", 20, v)
	filters.Sort = h.readString(qs, "sort", "-updated_at")
	filters.SortSafelist = []string{"id", "created_at", "updated_at", "-id", "-created_at", "-updated_at"}
	user := h.contextGetUser(r)
	entries, metadata, err := h.service.CurrentlyReading(user.ID, filters)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"entries": entries, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
