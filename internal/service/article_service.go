package service

import (
	"errors"

	"github.com/newsdesk/internal/db"
	"gorm.io/gorm"
)

var ErrArticleNotFound = errors.New("article not found")

// ArticleService wraps the read surface over the article store.
type ArticleService struct {
	db *gorm.DB
}

// ArticleFilter describes filters for listing articles.
type ArticleFilter struct {
	Status     string
	Published  *bool
	CategoryID uint
	Search     string
	Page       int
	PerPage    int
}

// ArticleListResult aggregates paginated list data and counters.
type ArticleListResult struct {
	Articles       []db.Article
	Total          int64
	PublishedCount int64
	ArchivedCount  int64
	TotalPages     int
	Page           int
	PerPage        int
}

// NewArticleService creates an ArticleService instance.
func NewArticleService(gdb *gorm.DB) *ArticleService {
	return &ArticleService{db: gdb}
}

// Get fetches an article by id with categories and media preloaded.
func (s *ArticleService) Get(id uint) (*db.Article, error) {
	var article db.Article
	if err := s.db.
		Preload("Categories").
		Preload("Media", func(q *gorm.DB) *gorm.DB {
			return q.Order("media_items.sort_order asc, media_items.id asc")
		}).
		Preload("Author").
		First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return &article, nil
}

// List provides paginated articles with aggregated counters based on filters.
func (s *ArticleService) List(filter ArticleFilter) (*ArticleListResult, error) {
	result := &ArticleListResult{Page: filter.Page, PerPage: filter.PerPage}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PerPage <= 0 {
		result.PerPage = 10
	}

	countQuery := s.applyFilters(s.db.Model(&db.Article{}), filter, true)
	if err := countQuery.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	offset := (result.Page - 1) * result.PerPage

	var articles []db.Article
	dataQuery := s.applyFilters(
		s.db.Model(&db.Article{}).
			Preload("Categories").
			Preload("Media", func(q *gorm.DB) *gorm.DB {
				return q.Order("media_items.sort_order asc, media_items.id asc")
			}),
		filter, true)

	if err := dataQuery.
		Order("articles.published_at desc, articles.id desc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&articles).Error; err != nil {
		return nil, err
	}

	filterWithoutStatus := filter
	filterWithoutStatus.Status = ""
	filterWithoutStatus.Published = nil

	if err := s.applyFilters(s.db.Model(&db.Article{}), filterWithoutStatus, false).
		Where("articles.published = ?", true).
		Count(&result.PublishedCount).Error; err != nil {
		return nil, err
	}
	if err := s.applyFilters(s.db.Model(&db.Article{}), filterWithoutStatus, false).
		Where("articles.status = ?", db.ArticleStatusArchived).
		Count(&result.ArchivedCount).Error; err != nil {
		return nil, err
	}

	if result.Total == 0 {
		result.TotalPages = 1
	} else {
		result.TotalPages = int((result.Total + int64(result.PerPage) - 1) / int64(result.PerPage))
	}

	result.Articles = articles
	return result, nil
}

func (s *ArticleService) applyFilters(query *gorm.DB, filter ArticleFilter, includeStatus bool) *gorm.DB {
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("(articles.title LIKE ? OR articles.body LIKE ?)", search, search)
	}

	if includeStatus && filter.Status != "" {
		query = query.Where("articles.status = ?", filter.Status)
	}

	if includeStatus && filter.Published != nil {
		query = query.Where("articles.published = ?", *filter.Published)
	}

	if filter.CategoryID != 0 {
		subQuery := s.db.Model(&db.Article{}).
			Select("articles.id").
			Joins("JOIN article_categories ON articles.id = article_categories.article_id").
			Where("article_categories.category_id = ?", filter.CategoryID).
			Distinct()

		query = query.Where("articles.id IN (?)", subQuery)
	}

	return query
}
