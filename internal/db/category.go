package db

import "gorm.io/gorm"

// Category 定义了栏目模型
type Category struct {
	gorm.Model
	Name     string    `gorm:"unique;not null"`
	Articles []Article `gorm:"many2many:article_categories;"`
}
