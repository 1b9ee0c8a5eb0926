package db

import "gorm.io/gorm"

// MediaItem 记录文章附带的媒体资源，按 sort_order 排序展示。
// SortOrder 按提交时的值原样保存，不做去重校验。
type MediaItem struct {
	gorm.Model
	ArticleID uint   `gorm:"not null;index"`
	URL       string `gorm:"not null"`
	MimeType  string
	Width     int
	Height    int
	SortOrder int `gorm:"not null"`
}

// TableName 指定自定义表名。
func (MediaItem) TableName() string {
	return "media_items"
}
