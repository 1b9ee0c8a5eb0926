package service

import (
	"context"
	"testing"
	"time"

	"github.com/newsdesk/internal/db"
	"gorm.io/gorm"
)

func TestSchedulerSweepsOnTick(t *testing.T) {
	gdb := setupLifecycleTestDB(t)
	lifecycle := NewLifecycleService(gdb)

	past := time.Now().Add(-time.Hour)
	article := seedArticle(t, gdb, db.Article{Title: "due", Status: db.ArticleStatusApproved, Published: false, PublishedAt: &past})

	scheduler := NewScheduler(lifecycle, time.Hour)

	ticks := make(chan time.Time)
	scheduler.newTicker = func(time.Duration) (<-chan time.Time, func()) {
		return ticks, func() {}
	}

	scheduler.Start(context.Background())
	defer scheduler.Stop()

	// Start runs one sweep before the first tick
	waitForPublished(t, gdb, article.ID)

	due := time.Now().Add(-time.Minute)
	late := seedArticle(t, gdb, db.Article{Title: "late", Status: db.ArticleStatusApproved, Published: false, PublishedAt: &due})

	ticks <- time.Now()
	waitForPublished(t, gdb, late.ID)
}

func TestSchedulerStopEndsSweeping(t *testing.T) {
	gdb := setupLifecycleTestDB(t)
	lifecycle := NewLifecycleService(gdb)

	past := time.Now().Add(-time.Hour)
	first := seedArticle(t, gdb, db.Article{Title: "before-stop", Status: db.ArticleStatusApproved, Published: false, PublishedAt: &past})

	scheduler := NewScheduler(lifecycle, time.Hour)

	ticks := make(chan time.Time, 1)
	done := make(chan struct{})
	scheduler.newTicker = func(time.Duration) (<-chan time.Time, func()) {
		return ticks, func() { close(done) }
	}

	scheduler.Start(context.Background())
	waitForPublished(t, gdb, first.ID)

	scheduler.Stop()

	// the loop releases its ticker on exit; wait for that before probing
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("sweep loop did not exit after Stop")
	}

	// a tick arriving after Stop must not trigger another sweep
	late := seedArticle(t, gdb, db.Article{Title: "after-stop", Status: db.ArticleStatusApproved, Published: false, PublishedAt: &past})
	ticks <- time.Now()
	time.Sleep(50 * time.Millisecond)

	var a db.Article
	if err := gdb.First(&a, late.ID).Error; err != nil {
		t.Fatalf("reload article: %v", err)
	}
	if a.Published {
		t.Fatalf("sweep ran after Stop returned")
	}
}

func TestSchedulerStopIsSafe(t *testing.T) {
	gdb := setupLifecycleTestDB(t)
	scheduler := NewScheduler(NewLifecycleService(gdb), time.Hour)

	// stopping a never-started scheduler must not panic
	scheduler.Stop()

	scheduler.Start(context.Background())
	scheduler.Stop()
	scheduler.Stop()
}

func TestSchedulerStartTwiceKeepsOneLoop(t *testing.T) {
	gdb := setupLifecycleTestDB(t)
	scheduler := NewScheduler(NewLifecycleService(gdb), time.Hour)

	scheduler.Start(context.Background())
	first := scheduler.stop
	scheduler.Start(context.Background())
	if scheduler.stop != first {
		t.Fatalf("second Start must not replace the running loop")
	}
	scheduler.Stop()
}

// waitForPublished polls until the sweep goroutine flips the flag.
func waitForPublished(t *testing.T, gdb *gorm.DB, id uint) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		var a db.Article
		if err := gdb.First(&a, id).Error; err != nil {
			t.Fatalf("reload article %d: %v", id, err)
		}
		if a.Published {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("article %d was not published in time", id)
}
