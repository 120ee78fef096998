// Package reminders runs the daily due-date scan: asynq schedules the task,
// the worker resolves what falls due today and messages the owners.
package reminders

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskTypeDueScan = "reminders:due_scan"

const (
	QueueDefault = "default"
	QueueLow     = "low"
)

// DueScanPayload optionally pins the scan to a specific calendar day.
// Empty Date means "the day the task is processed".
type DueScanPayload struct {
	Date string `json:"date,omitempty"`
}

const payloadDateLayout = "2006-01-02"

// NewDueScanTask builds a scan task. Pass the zero time for "today".
func NewDueScanTask(date time.Time) (*asynq.Task, error) {
	var p DueScanPayload
	if !date.IsZero() {
		p.Date = date.Format(payloadDateLayout)
	}

	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TaskTypeDueScan, payload, asynq.Queue(QueueDefault)), nil
}
