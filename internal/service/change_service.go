package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/newsdesk/internal/db"
	"gorm.io/gorm"
)

var (
	ErrChangeNotFound    = errors.New("pending change not found")
	ErrChangeResolved    = errors.New("pending change already resolved")
	ErrReviewerNotFound  = errors.New("reviewer not found")
	ErrReviewerForbidden = errors.New("user is not a reviewer")
	ErrDraftInvalid      = errors.New("change draft is invalid")
	ErrArticleArchived   = errors.New("article is archived")
)

// ChangeService owns the pending-change workflow: contributors submit
// drafts, reviewers resolve them, approval applies the draft to the
// article store.
type ChangeService struct {
	db    *gorm.DB
	users *UserService
}

// ChangeFilter describes filters for listing pending changes.
type ChangeFilter struct {
	Status   string
	Type     string
	AuthorID uint
}

// ApprovalResult bundles the resolved change with the article it affected.
type ApprovalResult struct {
	Change  *db.PendingChange
	Article *db.Article
}

// NewChangeService creates a ChangeService instance.
func NewChangeService(gdb *gorm.DB) *ChangeService {
	return &ChangeService{
		db:    gdb,
		users: NewUserService(gdb),
	}
}

// SubmitCreate records a proposal for a brand new article. The draft is
// validated once here; the article id stays empty until approval creates it.
func (s *ChangeService) SubmitCreate(authorID uint, draft db.ChangeDraft) (*db.PendingChange, error) {
	if err := validateCreateDraft(draft); err != nil {
		return nil, err
	}

	change := db.PendingChange{
		Type:     db.ChangeTypeCreate,
		Status:   db.ChangeStatusPending,
		AuthorID: authorID,
		Payload:  draft,
	}

	if err := s.db.Create(&change).Error; err != nil {
		return nil, err
	}
	return &change, nil
}

// SubmitUpdate records a proposal against an existing article.
func (s *ChangeService) SubmitUpdate(authorID, articleID uint, draft db.ChangeDraft) (*db.PendingChange, error) {
	if err := validateUpdateDraft(draft); err != nil {
		return nil, err
	}

	var article db.Article
	if err := s.db.First(&article, articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	if article.IsArchived() {
		return nil, ErrArticleArchived
	}

	change := db.PendingChange{
		Type:      db.ChangeTypeUpdate,
		Status:    db.ChangeStatusPending,
		AuthorID:  authorID,
		ArticleID: &article.ID,
		Payload:   draft,
	}

	if err := s.db.Create(&change).Error; err != nil {
		return nil, err
	}
	return &change, nil
}

// Get fetches a pending change by id.
func (s *ChangeService) Get(id uint) (*db.PendingChange, error) {
	var change db.PendingChange
	if err := s.db.Preload("Author").First(&change, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChangeNotFound
		}
		return nil, err
	}
	return &change, nil
}

// List returns changes matching the filter, newest first.
func (s *ChangeService) List(filter ChangeFilter) ([]db.PendingChange, error) {
	query := s.db.Model(&db.PendingChange{}).Preload("Author")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.AuthorID != 0 {
		query = query.Where("author_id = ?", filter.AuthorID)
	}

	var changes []db.PendingChange
	if err := query.Order("created_at desc, id desc").Find(&changes).Error; err != nil {
		return nil, err
	}
	return changes, nil
}

// ListPending returns all unresolved changes, oldest first (review queue order).
func (s *ChangeService) ListPending() ([]db.PendingChange, error) {
	var changes []db.PendingChange
	if err := s.db.Preload("Author").
		Where("status = ?", db.ChangeStatusPending).
		Order("created_at asc, id asc").
		Find(&changes).Error; err != nil {
		return nil, err
	}
	return changes, nil
}

// Approve resolves a pending change and applies its draft to the article
// store. The status flip and the article writes run in one transaction; the
// flip is a conditional update keyed on the pending status, so a concurrent
// resolution of the same change loses with ErrChangeResolved and writes
// nothing.
func (s *ChangeService) Approve(changeID, reviewerID uint) (*ApprovalResult, error) {
	change, err := s.Get(changeID)
	if err != nil {
		return nil, err
	}
	if change.IsResolved() {
		return nil, ErrChangeResolved
	}

	reviewer, err := s.resolveReviewer(reviewerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var article db.Article

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		flip := tx.Model(&db.PendingChange{}).
			Where("id = ? AND status = ?", change.ID, db.ChangeStatusPending).
			Updates(map[string]interface{}{
				"status":      db.ChangeStatusApproved,
				"reviewer_id": reviewer.ID,
			})
		if flip.Error != nil {
			return flip.Error
		}
		if flip.RowsAffected == 0 {
			return ErrChangeResolved
		}

		switch change.Type {
		case db.ChangeTypeCreate:
			created, err := s.applyCreate(tx, change, reviewer.ID, now)
			if err != nil {
				return err
			}
			article = *created

			return tx.Model(&db.PendingChange{}).
				Where("id = ?", change.ID).
				Update("article_id", created.ID).Error
		case db.ChangeTypeUpdate:
			updated, err := s.applyUpdate(tx, change, reviewer.ID, now)
			if err != nil {
				return err
			}
			article = *updated
			return nil
		default:
			return fmt.Errorf("unknown change type %q", change.Type)
		}
	}); err != nil {
		if errors.Is(err, ErrChangeResolved) || errors.Is(err, ErrArticleNotFound) || errors.Is(err, ErrArticleArchived) {
			return nil, err
		}
		return nil, fmt.Errorf("apply change %d: %w", change.ID, err)
	}

	resolved, err := s.Get(change.ID)
	if err != nil {
		return nil, err
	}

	return &ApprovalResult{Change: resolved, Article: &article}, nil
}

// Reject resolves a pending change without touching any article.
func (s *ChangeService) Reject(changeID, reviewerID uint, reason string) (*db.PendingChange, error) {
	change, err := s.Get(changeID)
	if err != nil {
		return nil, err
	}
	if change.IsResolved() {
		return nil, ErrChangeResolved
	}

	reviewer, err := s.resolveReviewer(reviewerID)
	if err != nil {
		return nil, err
	}

	flip := s.db.Model(&db.PendingChange{}).
		Where("id = ? AND status = ?", change.ID, db.ChangeStatusPending).
		Updates(map[string]interface{}{
			"status":           db.ChangeStatusRejected,
			"reviewer_id":      reviewer.ID,
			"rejection_reason": strings.TrimSpace(reason),
		})
	if flip.Error != nil {
		return nil, flip.Error
	}
	if flip.RowsAffected == 0 {
		return nil, ErrChangeResolved
	}

	return s.Get(change.ID)
}

// applyCreate builds a new article from the draft. Categories are resolved
// against the category table and unknown ids are dropped silently; the media
// list is attached verbatim in the submitted order.
func (s *ChangeService) applyCreate(tx *gorm.DB, change *db.PendingChange, reviewerID uint, now time.Time) (*db.Article, error) {
	draft := change.Payload

	article := db.Article{
		Title:        derefString(draft.Title),
		Body:         derefString(draft.Body),
		Status:       db.ArticleStatusApproved,
		Published:    true,
		PublishedAt:  &now,
		AuthorID:     change.AuthorID,
		RevisorID:    &reviewerID,
		RevisionDate: &now,
	}
	if draft.Tags != nil {
		article.Tags = *draft.Tags
	}
	if draft.ExpirationDate != nil {
		article.ExpirationDate = draft.ExpirationDate
	}
	if draft.MainPageDisplayDate != nil {
		article.MainPageDisplayDate = draft.MainPageDisplayDate
	}
	if draft.ListPageDate != nil {
		article.ListPageDate = draft.ListPageDate
	}
	// Publication defaults to immediate; a draft may carry an explicit
	// schedule instead, which the lifecycle sweep picks up later.
	if draft.Published != nil {
		article.Published = *draft.Published
	}
	if draft.PublishedAt != nil {
		article.PublishedAt = draft.PublishedAt
	}

	if err := tx.Create(&article).Error; err != nil {
		return nil, err
	}

	if draft.CategoryIDs != nil {
		categories, err := s.resolveCategories(tx, *draft.CategoryIDs)
		if err != nil {
			return nil, err
		}
		if err := tx.Model(&article).Association("Categories").Replace(categories); err != nil {
			return nil, err
		}
	}

	for _, m := range draft.Media {
		item := db.MediaItem{
			ArticleID: article.ID,
			URL:       m.URL,
			MimeType:  m.MimeType,
			Width:     m.Width,
			Height:    m.Height,
			SortOrder: m.SortOrder,
		}
		if err := tx.Create(&item).Error; err != nil {
			return nil, err
		}
		article.Media = append(article.Media, item)
	}

	return &article, nil
}

// applyUpdate overwrites the fields present in the draft onto the target
// article. A present CategoryIDs slice replaces the whole category set, it
// never merges. Published and PublishedAt default to true/now when the draft
// omits them.
func (s *ChangeService) applyUpdate(tx *gorm.DB, change *db.PendingChange, reviewerID uint, now time.Time) (*db.Article, error) {
	if change.ArticleID == nil {
		return nil, ErrArticleNotFound
	}

	var article db.Article
	if err := tx.First(&article, *change.ArticleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	// archived is terminal: the sweep may have archived the article while
	// this change sat in the queue, and no approval moves it back out
	if article.IsArchived() {
		return nil, ErrArticleArchived
	}

	draft := change.Payload

	if draft.Title != nil {
		article.Title = *draft.Title
	}
	if draft.Body != nil {
		article.Body = *draft.Body
	}
	if draft.Tags != nil {
		article.Tags = *draft.Tags
	}
	if draft.Status != nil {
		article.Status = *draft.Status
	}
	if draft.ExpirationDate != nil {
		article.ExpirationDate = draft.ExpirationDate
	}
	if draft.MainPageDisplayDate != nil {
		article.MainPageDisplayDate = draft.MainPageDisplayDate
	}
	if draft.ListPageDate != nil {
		article.ListPageDate = draft.ListPageDate
	}

	if draft.Published != nil {
		article.Published = *draft.Published
	} else {
		article.Published = true
	}
	if draft.PublishedAt != nil {
		article.PublishedAt = draft.PublishedAt
	} else {
		article.PublishedAt = &now
	}

	article.RevisorID = &reviewerID
	article.RevisionDate = &now

	if err := tx.Save(&article).Error; err != nil {
		return nil, err
	}

	if draft.CategoryIDs != nil {
		categories, err := s.resolveCategories(tx, *draft.CategoryIDs)
		if err != nil {
			return nil, err
		}
		if err := tx.Model(&article).Association("Categories").Replace(categories); err != nil {
			return nil, err
		}
		article.Categories = categories
	}

	if len(draft.Media) > 0 {
		if err := tx.Where("article_id = ?", article.ID).Delete(&db.MediaItem{}).Error; err != nil {
			return nil, err
		}
		article.Media = nil
		for _, m := range draft.Media {
			item := db.MediaItem{
				ArticleID: article.ID,
				URL:       m.URL,
				MimeType:  m.MimeType,
				Width:     m.Width,
				Height:    m.Height,
				SortOrder: m.SortOrder,
			}
			if err := tx.Create(&item).Error; err != nil {
				return nil, err
			}
			article.Media = append(article.Media, item)
		}
	}

	return &article, nil
}

func (s *ChangeService) resolveReviewer(reviewerID uint) (*db.User, error) {
	reviewer, err := s.users.FindByID(reviewerID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrReviewerNotFound
		}
		return nil, err
	}
	if reviewer.Role != db.RoleReviewer {
		return nil, ErrReviewerForbidden
	}
	return reviewer, nil
}

// resolveCategories delegates to the category collaborator, scoped to the
// approval transaction so the lookup sees its own pending writes.
func (s *ChangeService) resolveCategories(tx *gorm.DB, ids []uint) ([]db.Category, error) {
	return NewCategoryService(tx).FindByIDs(ids)
}

func validateCreateDraft(draft db.ChangeDraft) error {
	if draft.Title == nil || strings.TrimSpace(*draft.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrDraftInvalid)
	}
	if draft.Body == nil || strings.TrimSpace(*draft.Body) == "" {
		return fmt.Errorf("%w: body is required", ErrDraftInvalid)
	}
	if draft.CategoryIDs == nil || len(*draft.CategoryIDs) == 0 {
		return fmt.Errorf("%w: at least one category is required", ErrDraftInvalid)
	}
	return validateMediaDrafts(draft.Media)
}

func validateUpdateDraft(draft db.ChangeDraft) error {
	if draft.Title != nil && strings.TrimSpace(*draft.Title) == "" {
		return fmt.Errorf("%w: title must not be blank", ErrDraftInvalid)
	}
	if draft.Body != nil && strings.TrimSpace(*draft.Body) == "" {
		return fmt.Errorf("%w: body must not be blank", ErrDraftInvalid)
	}
	return validateMediaDrafts(draft.Media)
}

func validateMediaDrafts(media []db.MediaDraft) error {
	for _, m := range media {
		if strings.TrimSpace(m.URL) == "" {
			return fmt.Errorf("%w: media url is required", ErrDraftInvalid)
		}
		if m.SortOrder <= 0 {
			return fmt.Errorf("%w: media sort order must be positive", ErrDraftInvalid)
		}
	}
	return nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
