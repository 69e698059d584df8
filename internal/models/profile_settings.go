package models

import "time"

// ProfileSettings 站点资料单例记录（施工模式与个人资料文件）
type ProfileSettings struct {
	Key                     string     `gorm:"primarykey;type:varchar(32)" json:"-" bson:"_id"`
	IsUnderConstruction     bool       `gorm:"not null;default:false" json:"is_under_construction" bson:"is_under_construction"`
	ConstructionActiveUntil *time.Time `json:"construction_active_until" bson:"construction_active_until"`
	ProfileImageURL         string     `gorm:"type:varchar(500)" json:"profile_image_url" bson:"profile_image_url"`
	CVFileURL               string     `gorm:"type:varchar(500)" json:"cv_file_url" bson:"cv_file_url"`
	CVFileName              string     `gorm:"type:varchar(255)" json:"cv_file_name" bson:"cv_file_name"`
	UpdatedAt               time.Time  `json:"updated_at" bson:"updated_at"`
}

// TableName 指定表名
func (ProfileSettings) TableName() string {
	return "profile_settings"
}

// ConstructionState 施工模式状态快照
type ConstructionState struct {
	IsActive    bool       `json:"is_active"`
	ActiveUntil *time.Time `json:"active_until"`
}

// Construction 从记录中提取施工模式状态
func (p *ProfileSettings) Construction() ConstructionState {
	if p == nil {
		return ConstructionState{}
	}
	state := ConstructionState{IsActive: p.IsUnderConstruction}
	if p.ConstructionActiveUntil != nil {
		until := *p.ConstructionActiveUntil
		state.ActiveUntil = &until
	}
	return state
}
