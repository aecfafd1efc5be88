package tasks

import "github.com/hibiken/asynq"

// Task type names
const (
	TypeOverdueSweep = "ticket:overdue_sweep"
	TypeSessionPurge = "session:purge"
)

func NewOverdueSweepTask() *asynq.Task {
	return asynq.NewTask(TypeOverdueSweep, nil)
}

func NewSessionPurgeTask() *asynq.Task {
	return asynq.NewTask(TypeSessionPurge, nil)
}
