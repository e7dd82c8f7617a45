package jobs

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskQualityScan is the task type for the data-quality scan.
	TaskQualityScan = "quality:scan"
)

// QualityScanPayload identifies one scan run.
type QualityScanPayload struct {
	RunID string `json:"runId"`
}

// NewQualityScanTask constructs an Asynq task with a fresh run ID.
func NewQualityScanTask() (*asynq.Task, error) {
	data, err := json.Marshal(QualityScanPayload{RunID: uuid.NewString()})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskQualityScan, data), nil
}
