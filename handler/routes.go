package handler

import (
	"expvar"
	"net/http"

	"github.com/julienschmidt/httprouter"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func (h *Handler) Routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(h.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(h.methodNotAllowed)

	router.HandlerFunc(http.MethodGet, "/v1/books", h.requireActivatedUser(h.listBooksHandler))
	router.HandlerFunc(http.MethodGet, "/v1/catalog", h.requireActivatedUser(h.searchExternalBooksHandler))
	router.HandlerFunc(http.MethodPost, "/v1/catalog", h.requireActivatedUser(h.importBookHandler))
	router.HandlerFunc(http.MethodGet, "/v1/books/:bookId", h.requireActivatedUser(h.showBookHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/books/:bookId", h.requireActivatedUser(h.deleteBookHandler))
	router.HandlerFunc(http.MethodPost, "/v1/books/:bookId/favourite", h.requireActivatedUser(h.favouriteBookHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/books/:bookId/favourite", h.requireActivatedUser(h.deleteFavouriteBookHandler))

	router.HandlerFunc(http.MethodGet, "/v1/books/:bookId/reviews", h.requireActivatedUser(h.listReviewsHandler))
	router.HandlerFunc(http.MethodPost, "/v1/books/:bookId/reviews", h.requireActivatedUser(h.createReviewHandler))
	router.HandlerFunc(http.MethodGet, "/v1/books/:bookId/reviews/:reviewId", h.requireActivatedUser(h.showReviewHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/books/:bookId/reviews/:reviewId", h.requireReviewOwnerPermission(h.updateReviewHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/books/:bookId/reviews/:reviewId", h.requireReviewOwnerPermission(h.deleteReviewHandler))

	router.HandlerFunc(http.MethodPost, "/v1/library", h.requireActivatedUser(h.addToLibraryHandler))
	router.HandlerFunc(http.MethodPut, "/v1/library/:bookId/shelf", h.requireActivatedUser(h.moveShelfHandler))
	router.HandlerFunc(http.MethodPut, "/v1/library/:bookId/progress", h.requireActivatedUser(h.updateProgressHandler))
	router.HandlerFunc(http.MethodPut, "/v1/library/:bookId/rating", h.requireActivatedUser(h.rateBookHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/library/:bookId", h.requireActivatedUser(h.removeFromLibraryHandler))

	router.HandlerFunc(http.MethodPost, "/v1/users", h.registerUserHandler)
	router.HandlerFunc(http.MethodPut, "/v1/users/activated", h.activateUserHandler)
	router.HandlerFunc(http.MethodGet, "/v1/users/profile", h.requireActivatedUser(h.showUserHandler))

	router.HandlerFunc(http.MethodGet, "/v1/users/library", h.requireActivatedUser(h.listLibraryHandler))
	router.HandlerFunc(http.MethodGet, "/v1/users/library/timeline", h.requireActivatedUser(h.listTimelineHandler))
	router.HandlerFunc(http.MethodGet, "/v1/users/library/reading", h.requireActivatedUser(h.listCurrentlyReadingHandler))
	router.HandlerFunc(http.MethodGet, "/v1/users/reviews", h.requireActivatedUser(h.listUserReviewsHandler))
	router.HandlerFunc(http.MethodGet, "/v1/users/favourites", h.requireActivatedUser(h.listUserFavouritesHandler))

	router.HandlerFunc(http.MethodPost, "/v1/tokens/activation", h.createActivationTokenHandler)
	router.HandlerFunc(http.MethodPost, "/v1/tokens/authentication", h.createAuthenticationTokenHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/tokens/authentication", h.requireAuthenticatedUser(h.deleteAuthenticationTokenHandler))

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", h.healthcheckHandler)
	router.HandlerFunc(http.MethodGet, "/debug/vars", h.basicAuth(expvar.Handler().ServeHTTP))

	// Swagger routes
	router.HandlerFunc(http.MethodGet, "/spec", h.handleSwaggerFile())
	router.HandlerFunc(http.MethodGet, "/docs/*any", httpSwagger.Handler(httpSwagger.URL("/spec")))

	return h.metrics(h.recoverPanic(h.enableCORS(h.rateLimit(h.authenticate(router)))))
}
