package cache

import (
	"context"

	"github.com/folio-next/internal/constants"
	"github.com/folio-next/internal/models"
)

// PublicProfileSnapshot 公开资料内容快照（不含施工状态，施工状态每次实时读取）
type PublicProfileSnapshot struct {
	Site            models.JSON `json:"site"`
	ProfileImageURL string      `json:"profile_image_url"`
	CVFileURL       string      `json:"cv_file_url"`
	CVFileName      string      `json:"cv_file_name"`
}

// GetPublicProfile 读取公开资料快照
func GetPublicProfile(ctx context.Context) (*PublicProfileSnapshot, bool, error) {
	var snapshot PublicProfileSnapshot
	hit, err := GetJSON(ctx, constants.CacheKeyPublicProfile, &snapshot)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &snapshot, true, nil
}

// SetPublicProfile 写入公开资料快照
func SetPublicProfile(ctx context.Context, snapshot *PublicProfileSnapshot) error {
	if snapshot == nil {
		return nil
	}
	return SetJSON(ctx, constants.CacheKeyPublicProfile, snapshot, constants.PublicProfileCacheTTL)
}

// DelPublicProfile 失效公开资料快照
func DelPublicProfile(ctx context.Context) error {
	return Del(ctx, constants.CacheKeyPublicProfile)
}
