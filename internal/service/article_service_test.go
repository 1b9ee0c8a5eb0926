package service

import (
	"errors"
	"testing"
	"time"

	"github.com/newsdesk/internal/db"
)

func TestArticleServiceGetNotFound(t *testing.T) {
	gdb := setupLifecycleTestDB(t)
	svc := NewArticleService(gdb)

	if _, err := svc.Get(12345); !errors.Is(err, ErrArticleNotFound) {
		t.Fatalf("expected ErrArticleNotFound, got %v", err)
	}
}

func TestArticleServiceListFiltersByStatus(t *testing.T) {
	gdb := setupLifecycleTestDB(t)
	svc := NewArticleService(gdb)

	now := time.Now()
	seedArticle(t, gdb, db.Article{Title: "a", Status: db.ArticleStatusApproved, Published: true, PublishedAt: &now})
	seedArticle(t, gdb, db.Article{Title: "b", Status: db.ArticleStatusArchived, Published: true, PublishedAt: &now})

	result, err := svc.List(ArticleFilter{Status: db.ArticleStatusApproved})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("expected 1 approved article, got %d", result.Total)
	}
	if result.PublishedCount != 2 {
		t.Fatalf("expected published counter 2, got %d", result.PublishedCount)
	}
	if result.ArchivedCount != 1 {
		t.Fatalf("expected archived counter 1, got %d", result.ArchivedCount)
	}
}

func TestArticleServiceListFiltersByCategory(t *testing.T) {
	gdb := setupLifecycleTestDB(t)
	svc := NewArticleService(gdb)

	category := seedCategory(t, gdb, "Sports")
	now := time.Now()

	tagged := seedArticle(t, gdb, db.Article{Title: "in", Status: db.ArticleStatusApproved, Published: true, PublishedAt: &now})
	seedArticle(t, gdb, db.Article{Title: "out", Status: db.ArticleStatusApproved, Published: true, PublishedAt: &now})

	if err := gdb.Model(&tagged).Association("Categories").Replace([]db.Category{category}); err != nil {
		t.Fatalf("link category: %v", err)
	}

	result, err := svc.List(ArticleFilter{CategoryID: category.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.Total != 1 || result.Articles[0].ID != tagged.ID {
		t.Fatalf("expected only tagged article, got total=%d", result.Total)
	}
}

func TestArticleServiceListPaginates(t *testing.T) {
	gdb := setupLifecycleTestDB(t)
	svc := NewArticleService(gdb)

	for i := 0; i < 3; i++ {
		at := time.Now().Add(time.Duration(i) * time.Minute)
		seedArticle(t, gdb, db.Article{Title: "n", Status: db.ArticleStatusApproved, Published: true, PublishedAt: &at})
	}

	result, err := svc.List(ArticleFilter{Page: 2, PerPage: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Articles) != 1 {
		t.Fatalf("expected 1 article on page 2, got %d", len(result.Articles))
	}
	if result.TotalPages != 2 {
		t.Fatalf("expected 2 total pages, got %d", result.TotalPages)
	}
}

func TestMediaPreloadKeepsSortOrder(t *testing.T) {
	gdb := setupLifecycleTestDB(t)
	svc := NewArticleService(gdb)

	now := time.Now()
	article := seedArticle(t, gdb, db.Article{Title: "m", Status: db.ArticleStatusApproved, Published: true, PublishedAt: &now})

	for _, order := range []int{3, 1, 2} {
		item := db.MediaItem{ArticleID: article.ID, URL: "/m.jpg", SortOrder: order}
		if err := gdb.Create(&item).Error; err != nil {
			t.Fatalf("seed media: %v", err)
		}
	}

	loaded, err := svc.Get(article.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(loaded.Media) != 3 {
		t.Fatalf("expected 3 media items, got %d", len(loaded.Media))
	}
	for i, want := range []int{1, 2, 3} {
		if loaded.Media[i].SortOrder != want {
			t.Fatalf("media %d: expected sort order %d, got %d", i, want, loaded.Media[i].SortOrder)
		}
	}
}
