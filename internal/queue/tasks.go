package queue

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/folio-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskAssetCleanup 删除被替换的上传文件
	TaskAssetCleanup = constants.TaskAssetCleanup
)

// AssetCleanupPayload 旧文件清理任务载荷
type AssetCleanupPayload struct {
	URL   string `json:"url"`
	Scene string `json:"scene"`
}

// NewAssetCleanupTask 创建旧文件清理任务
func NewAssetCleanupTask(payload AssetCleanupPayload) (*asynq.Task, error) {
	if strings.TrimSpace(payload.URL) == "" {
		return nil, fmt.Errorf("asset url is empty")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAssetCleanup, body), nil
}

// ParseAssetCleanupPayload 解析旧文件清理任务载荷
func ParseAssetCleanupPayload(task *asynq.Task) (AssetCleanupPayload, error) {
	var payload AssetCleanupPayload
	if task == nil {
		return payload, fmt.Errorf("task is nil")
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, err
	}
	return payload, nil
}
