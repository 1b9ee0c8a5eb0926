package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/newsdesk/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupLifecycleTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:lifecycle-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.User{}, &db.Category{}, &db.Article{}, &db.MediaItem{}, &db.PendingChange{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return gdb
}

func seedArticle(t *testing.T, gdb *gorm.DB, article db.Article) db.Article {
	t.Helper()
	if article.AuthorID == 0 {
		author := seedUser(t, gdb, fmt.Sprintf("author-%d", time.Now().UnixNano()), db.RoleContributor)
		article.AuthorID = author.ID
	}
	if err := gdb.Create(&article).Error; err != nil {
		t.Fatalf("seed article: %v", err)
	}
	return article
}

func TestSweepPublishesDueArticles(t *testing.T) {
	gdb := setupLifecycleTestDB(t)
	svc := NewLifecycleService(gdb)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	due := seedArticle(t, gdb, db.Article{Title: "due", Status: db.ArticleStatusApproved, Published: false, PublishedAt: &past})
	scheduled := seedArticle(t, gdb, db.Article{Title: "later", Status: db.ArticleStatusApproved, Published: false, PublishedAt: &future})
	unscheduled := seedArticle(t, gdb, db.Article{Title: "never", Status: db.ArticleStatusApproved, Published: false})
	pending := seedArticle(t, gdb, db.Article{Title: "pending", Status: db.ArticleStatusPending, Published: false, PublishedAt: &past})

	result := svc.RunSweep()
	if result.Published != 1 {
		t.Fatalf("expected 1 published, got %d", result.Published)
	}
	if result.Archived != 0 {
		t.Fatalf("expected 0 archived, got %d", result.Archived)
	}

	assertPublished := func(id uint, want bool) {
		t.Helper()
		var a db.Article
		if err := gdb.First(&a, id).Error; err != nil {
			t.Fatalf("reload article %d: %v", id, err)
		}
		if a.Published != want {
			t.Fatalf("article %d: expected published=%v, got %v", id, want, a.Published)
		}
	}

	assertPublished(due.ID, true)
	assertPublished(scheduled.ID, false)
	assertPublished(unscheduled.ID, false)
	assertPublished(pending.ID, false)
}

func TestSweepArchivesExpiredArticles(t *testing.T) {
	gdb := setupLifecycleTestDB(t)
	svc := NewLifecycleService(gdb)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	expired := seedArticle(t, gdb, db.Article{Title: "old", Status: db.ArticleStatusApproved, Published: true, ExpirationDate: &past})
	fresh := seedArticle(t, gdb, db.Article{Title: "fresh", Status: db.ArticleStatusApproved, Published: true, ExpirationDate: &future})
	unpublished := seedArticle(t, gdb, db.Article{Title: "hidden", Status: db.ArticleStatusApproved, Published: false, ExpirationDate: &past})

	result := svc.RunSweep()
	if result.Archived != 1 {
		t.Fatalf("expected 1 archived, got %d", result.Archived)
	}

	assertStatus := func(id uint, want string) db.Article {
		t.Helper()
		var a db.Article
		if err := gdb.First(&a, id).Error; err != nil {
			t.Fatalf("reload article %d: %v", id, err)
		}
		if a.Status != want {
			t.Fatalf("article %d: expected status %q, got %q", id, want, a.Status)
		}
		return a
	}

	archived := assertStatus(expired.ID, db.ArticleStatusArchived)
	// archival flips status only
	if !archived.Published {
		t.Fatalf("archive pass must not clear the published flag")
	}

	assertStatus(fresh.ID, db.ArticleStatusApproved)
	assertStatus(unpublished.ID, db.ArticleStatusApproved)
}

func TestSweepIsIdempotent(t *testing.T) {
	gdb := setupLifecycleTestDB(t)
	svc := NewLifecycleService(gdb)

	past := time.Now().Add(-time.Hour)
	seedArticle(t, gdb, db.Article{Title: "due", Status: db.ArticleStatusApproved, Published: false, PublishedAt: &past})
	seedArticle(t, gdb, db.Article{Title: "old", Status: db.ArticleStatusApproved, Published: true, ExpirationDate: &past})

	first := svc.RunSweep()
	if first.Published != 1 || first.Archived != 1 {
		t.Fatalf("unexpected first sweep result: %+v", first)
	}

	second := svc.RunSweep()
	if second.Published != 0 || second.Archived != 0 {
		t.Fatalf("second sweep must write nothing, got %+v", second)
	}
}

func TestSweepPublishIsMonotonic(t *testing.T) {
	gdb := setupLifecycleTestDB(t)
	svc := NewLifecycleService(gdb)

	past := time.Now().Add(-time.Hour)
	article := seedArticle(t, gdb, db.Article{Title: "due", Status: db.ArticleStatusApproved, Published: false, PublishedAt: &past})

	svc.RunSweep()
	svc.RunSweep()

	var a db.Article
	if err := gdb.First(&a, article.ID).Error; err != nil {
		t.Fatalf("reload article: %v", err)
	}
	if !a.Published {
		t.Fatalf("published flag must never revert to false")
	}
}

func TestSweepArchivedIsTerminal(t *testing.T) {
	gdb := setupLifecycleTestDB(t)
	svc := NewLifecycleService(gdb)

	past := time.Now().Add(-time.Hour)
	article := seedArticle(t, gdb, db.Article{Title: "old", Status: db.ArticleStatusApproved, Published: true, ExpirationDate: &past})

	first := svc.RunSweep()
	if first.Archived != 1 {
		t.Fatalf("expected 1 archived, got %d", first.Archived)
	}

	// a second pass must exclude the already archived row
	second := svc.RunSweep()
	if second.Archived != 0 {
		t.Fatalf("archived articles must not match again, got %d", second.Archived)
	}

	var a db.Article
	if err := gdb.First(&a, article.ID).Error; err != nil {
		t.Fatalf("reload article: %v", err)
	}
	if a.Status != db.ArticleStatusArchived {
		t.Fatalf("expected terminal archived status, got %q", a.Status)
	}
}

func TestSweepUsesInjectedClock(t *testing.T) {
	gdb := setupLifecycleTestDB(t)
	svc := NewLifecycleService(gdb)

	publishAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	seedArticle(t, gdb, db.Article{Title: "scheduled", Status: db.ArticleStatusApproved, Published: false, PublishedAt: &publishAt})

	svc.now = func() time.Time { return publishAt.Add(-time.Minute) }
	if result := svc.RunSweep(); result.Published != 0 {
		t.Fatalf("sweep before the scheduled time must not publish, got %d", result.Published)
	}

	svc.now = func() time.Time { return publishAt.Add(time.Minute) }
	if result := svc.RunSweep(); result.Published != 1 {
		t.Fatalf("sweep after the scheduled time must publish, got %d", result.Published)
	}
}
