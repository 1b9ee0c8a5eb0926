package db

import (
	"time"

	"gorm.io/gorm"
)

// PendingChange 类型与状态常量。状态只会从 pending 迁移一次。
const (
	ChangeTypeCreate = "create"
	ChangeTypeUpdate = "update"

	ChangeStatusPending  = "pending"
	ChangeStatusApproved = "approved"
	ChangeStatusRejected = "rejected"
)

// MediaDraft describes one media entry inside a change payload.
type MediaDraft struct {
	URL       string `json:"url"`
	MimeType  string `json:"mimeType,omitempty"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	SortOrder int    `json:"sortOrder"`
}

// ChangeDraft is the typed payload of a pending change: a partial Article.
// Pointer fields distinguish "absent" from a zero value; absent fields are
// left untouched when the change is applied.
type ChangeDraft struct {
	Title               *string      `json:"title,omitempty"`
	Body                *string      `json:"body,omitempty"`
	Tags                *[]string    `json:"tags,omitempty"`
	CategoryIDs         *[]uint      `json:"categoryIds,omitempty"`
	Media               []MediaDraft `json:"media,omitempty"`
	Status              *string      `json:"status,omitempty"`
	Published           *bool        `json:"published,omitempty"`
	PublishedAt         *time.Time   `json:"publishedAt,omitempty"`
	ExpirationDate      *time.Time   `json:"expirationDate,omitempty"`
	MainPageDisplayDate *time.Time   `json:"mainPageDisplayDate,omitempty"`
	ListPageDate        *time.Time   `json:"listPageDate,omitempty"`
}

// PendingChange 记录贡献者提交的待审变更。
// ArticleID 对 create 类型在审批通过前为空，对 update 类型在提交时即固定。
type PendingChange struct {
	gorm.Model
	Type   string `gorm:"not null"`
	Status string `gorm:"not null;default:pending;index"`

	AuthorID   uint `gorm:"not null;index"`
	Author     User
	ReviewerID *uint
	Reviewer   *User

	ArticleID *uint `gorm:"index"`
	Article   *Article

	Payload ChangeDraft `gorm:"serializer:json;type:text"`

	RejectionReason string
}

// TableName 指定自定义表名。
func (PendingChange) TableName() string {
	return "pending_changes"
}

// IsResolved reports whether the change already left the pending state.
func (p *PendingChange) IsResolved() bool {
	return p.Status != ChangeStatusPending
}
