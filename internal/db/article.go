package db

import (
	"time"

	"gorm.io/gorm"
)

// Article 状态常量。archived 为终态，任何组件都不会再迁出。
const (
	ArticleStatusPending  = "pending"
	ArticleStatusApproved = "approved"
	ArticleStatusRejected = "rejected"
	ArticleStatusArchived = "archived"
)

// Article 定义了文章模型
type Article struct {
	gorm.Model
	Title string   `gorm:"not null"`
	Body  string   `gorm:"type:text"`
	Tags  []string `gorm:"serializer:json"`

	Status      string `gorm:"not null;default:pending;index"`
	Published   bool   `gorm:"not null;default:false;index"`
	PublishedAt *time.Time
	// ExpirationDate 过期后由调度器归档
	ExpirationDate      *time.Time
	MainPageDisplayDate *time.Time
	ListPageDate        *time.Time

	AuthorID     uint `gorm:"not null"`
	Author       User
	RevisorID    *uint
	RevisionDate *time.Time

	Categories []Category  `gorm:"many2many:article_categories;"`
	Media      []MediaItem `gorm:"foreignKey:ArticleID"`
}

// IsArchived reports whether the article reached its terminal state.
func (a *Article) IsArchived() bool {
	return a.Status == ArticleStatusArchived
}
