package service

import (
	"sync"

	"github.com/bookbuddy/api/config"
	"github.com/bookbuddy/api/internal/jsonlog"
	"github.com/bookbuddy/api/repository"
)

type Service interface {
	books
	library
	reviews
	favourites
	users
	tokens
}

// service defines the service layer.
type service struct {
	config  config.Config
	wg      *sync.WaitGroup
	logger  *jsonlog.Logger
	repo    repository.Repository
	catalog Catalog
}

// New creates a new instance of Service.
func New(cfg config.Config, wg *sync.WaitGroup, logger *jsonlog.Logger, repo repository.Repository, catalog Catalog) *service {
	return &service{
		config:  cfg,
		wg:      wg,
		logger:  logger,
		repo:    repo,
		catalog: catalog,
	}
}
