package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestClassifyStoreReason(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"deadline", context.DeadlineExceeded, ReasonDeadlineExceeded},
		{"db_lock_timeout", &pgconn.PgError{Code: "55P03"}, ReasonDBLockTimeout},
		{"serialization_failure", &pgconn.PgError{Code: "40001"}, ReasonSerializationFailure},
		{"unique_violation", gorm.ErrDuplicatedKey, ReasonUniqueViolation},
		{"sqlite unique", errors.New("UNIQUE constraint failed: proposals.proposal_number"), ReasonUniqueViolation},
		{"other pg error", &pgconn.PgError{Code: "42P01"}, ReasonDB},
		{"unknown", errors.New("boom"), ReasonUnknown},
		{"nil", nil, ReasonUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyStoreReason(tc.err))
		})
	}
}

func TestPipelineMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newPipelineMetrics(registry, Config{ServiceName: "roofcrm", Environment: "test"})

	m.IncStageError(StagePersist, ReasonUniqueViolation)
	m.IncStageError(StagePersist, ReasonUniqueViolation)
	m.IncRun("success")
	m.ObserveStage(StagePrice, 3*time.Millisecond)
	m.ObserveStage("custom", time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.stageErrors.WithLabelValues(StagePersist, ReasonUniqueViolation)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.runs.WithLabelValues("success")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.stageDuration))
}

func TestNilPipelineMetricsAreSafe(t *testing.T) {
	var m *PipelineMetrics
	assert.NotPanics(t, func() {
		m.ObserveStage(StageAssess, time.Second)
		m.IncStageError(StageAssess, ReasonUnknown)
		m.IncRun("failure")
	})
}
