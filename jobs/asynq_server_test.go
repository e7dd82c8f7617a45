package jobs

import (
	"context"
	"encoding/json"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

func TestEnqueueQualityScan(t *testing.T) {
	mr := miniredis.RunT(t)
	opts := asynq.RedisClientOpt{Addr: mr.Addr()}

	client, err := NewClient(opts)
	require.NoError(t, err)
	defer client.Close()

	info, err := client.EnqueueQualityScan(context.Background())
	require.NoError(t, err)
	require.Equal(t, TaskQualityScan, info.Type)
	require.Equal(t, QueueDefault, info.Queue)

	var payload QualityScanPayload
	require.NoError(t, json.Unmarshal(info.Payload, &payload))
	require.NotEmpty(t, payload.RunID, "every run carries a fresh id")

	inspector := asynq.NewInspector(opts)
	defer inspector.Close()
	qinfo, err := inspector.GetQueueInfo(QueueDefault)
	require.NoError(t, err)
	require.Equal(t, 1, qinfo.Pending)
}

func TestNewWorkerRegistersCron(t *testing.T) {
	mr := miniredis.RunT(t)

	task, err := NewQualityScanTask()
	require.NoError(t, err)

	w, err := NewWorker(WorkerConfig{
		RedisOpts:   asynq.RedisClientOpt{Addr: mr.Addr()},
		QualityScan: &QualityScanJob{},
		Cron: []CronRegistration{
			{Spec: "@every 24h", Task: task},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, w)
}
