package models

import "time"

// Admin 管理员表
type Admin struct {
	ID           uint       `gorm:"primarykey" json:"id" bson:"_id"`
	Username     string     `gorm:"uniqueIndex;not null" json:"username" bson:"username"`
	PasswordHash string     `gorm:"not null" json:"-" bson:"password_hash"` // 不返回给前端
	LastLoginAt  *time.Time `json:"last_login_at" bson:"last_login_at,omitempty"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" bson:"updated_at"`
}

// TableName 指定表名
func (Admin) TableName() string {
	return "admins"
}
