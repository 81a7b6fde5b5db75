package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSink is a minimal in-memory Sink used by this file's tests to exercise
// the Sink interface without a live Mongo server.
type memSink struct {
	poses []PoseSample
	cmds  []CommandSample
}

func newMemSink() *memSink { return &memSink{} }

func (m *memSink) RecordPose(_ context.Context, s PoseSample) error {
	m.poses = append(m.poses, s)
	return nil
}

func (m *memSink) RecordCommand(_ context.Context, s CommandSample) error {
	m.cmds = append(m.cmds, s)
	return nil
}

func (m *memSink) Close(_ context.Context) error { return nil }

func TestMemSinkSatisfiesSink(t *testing.T) {
	var s Sink = newMemSink()
	require.NoError(t, s.RecordPose(context.Background(), NewPoseSample(1, 2, 0.5, time.Now())))
	require.NoError(t, s.RecordCommand(context.Background(), NewCommandSample(1, 0, 0, time.Now())))
	require.NoError(t, s.Close(context.Background()))
}

func TestNewPoseSampleStampRoundTrips(t *testing.T) {
	now := time.Now().Truncate(time.Millisecond)
	s := NewPoseSample(1, 2, 3, now)
	assert.WithinDuration(t, now, s.Stamp.AsTime(), time.Millisecond)
}
