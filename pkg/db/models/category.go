package models

import "time"

const (
	DefaultCategoryIcon  = "📦"
	DefaultCategoryColor = "bg-gray-100 text-gray-800"
)

// Category groups products through the nullable products.category_id FK.
type Category struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `gorm:"column:name;not null;uniqueIndex:categories_name_key"`
	Description *string   `gorm:"column:description;type:text"`
	Icon        string    `gorm:"column:icon;not null"`
	Color       string    `gorm:"column:color;not null"`
	Products    []Product `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Category) TableName() string {
	return "categories"
}
