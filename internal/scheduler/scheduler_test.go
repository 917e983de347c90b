package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fintrack/internal/log"
)

type fakeMaintenanceStore struct {
	voucherCalls int
	sessionCalls int
	err          error
}

func (f *fakeMaintenanceStore) DeactivateExpiredVouchers(context.Context, time.Time) (int64, error) {
	f.voucherCalls++
	return 2, f.err
}

func (f *fakeMaintenanceStore) DeleteExpiredSessions(context.Context, time.Time) (int64, error) {
	f.sessionCalls++
	return 1, f.err
}

func quietLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

func TestStartStop(t *testing.T) {
	s := New(&fakeMaintenanceStore{}, quietLogger())
	require.NoError(t, s.Start())
	s.Stop()
}

func TestJobsCallStore(t *testing.T) {
	store := &fakeMaintenanceStore{}
	s := New(store, quietLogger())

	s.deactivateVouchers()
	s.purgeSessions()
	require.Equal(t, 1, store.voucherCalls)
	require.Equal(t, 1, store.sessionCalls)
}

func TestJobsSurviveStoreErrors(t *testing.T) {
	store := &fakeMaintenanceStore{err: errors.New("db locked")}
	s := New(store, quietLogger())

	s.deactivateVouchers()
	s.purgeSessions()
	require.Equal(t, 1, store.voucherCalls)
	require.Equal(t, 1, store.sessionCalls)
}
