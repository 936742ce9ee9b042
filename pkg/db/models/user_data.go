package models

import (
	"encoding/json"
	"time"
)

// UserData is an opaque JSON document owned by a user.
type UserData struct {
	ID        uint            `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    uint            `gorm:"column:user_id;not null;index"`
	Data      json.RawMessage `gorm:"column:data;type:jsonb;not null;serializer:json"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (UserData) TableName() string {
	return "user_data"
}
