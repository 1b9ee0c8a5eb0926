package handler

import (
	"github.com/newsdesk/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	changes    *service.ChangeService
	articles   *service.ArticleService
	categories *service.CategoryService
	users      *service.UserService
	lifecycle  *service.LifecycleService
	uploadDir  string
	uploadURL  string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, uploadDir, uploadURL string) *API {
	return &API{
		db:         db,
		changes:    service.NewChangeService(db),
		articles:   service.NewArticleService(db),
		categories: service.NewCategoryService(db),
		users:      service.NewUserService(db),
		lifecycle:  service.NewLifecycleService(db),
		uploadDir:  uploadDir,
		uploadURL:  uploadURL,
	}
}
