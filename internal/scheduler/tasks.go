package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskMetricsRefresh = "metrics.refresh"

const TaskMetricsDigest = "metrics.digest"

type MetricsRefreshPayload struct {
	ProjectID   *string `json:"projectId,omitempty"`
	TriggerKind string  `json:"triggerKind"`
}

type MetricsDigestPayload struct {
	// Date is informational only; the digest always reports the current
	// snapshot at execution time.
	Date string `json:"date"`
}

func NewMetricsRefreshTask(payload MetricsRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMetricsRefresh, data), nil
}

func ParseMetricsRefreshPayload(task *asynq.Task) (MetricsRefreshPayload, error) {
	var payload MetricsRefreshPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return MetricsRefreshPayload{}, err
	}
	return payload, nil
}

func NewMetricsDigestTask(payload MetricsDigestPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMetricsDigest, data), nil
}

func ParseMetricsDigestPayload(task *asynq.Task) (MetricsDigestPayload, error) {
	var payload MetricsDigestPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return MetricsDigestPayload{}, err
	}
	return payload, nil
}
