package telemetry

import (
	"context"
	"time"

	"google.golang.org/protobuf/types/known/timestamppb"
)

// PoseSample is the wire/storage representation of an estimated pose,
// emitted on the outbound "estimated pose" channel (spec.md §6) and, when a
// Sink is configured, written to it.
type PoseSample struct {
	X, Y, Theta float64
	Stamp       *timestamppb.Timestamp
}

// CommandSample is the wire/storage representation of a recorded command,
// sharing its timestamp representation with PoseSample.
type CommandSample struct {
	Vx, Vy, Omega float64
	Stamp         *timestamppb.Timestamp
}

// NewPoseSample stamps a pose sample with the given time.
func NewPoseSample(x, y, theta float64, at time.Time) PoseSample {
	return PoseSample{X: x, Y: y, Theta: theta, Stamp: timestamppb.New(at)}
}

// NewCommandSample stamps a command sample with the given time.
func NewCommandSample(vx, vy, omega float64, at time.Time) CommandSample {
	return CommandSample{Vx: vx, Vy: vy, Omega: omega, Stamp: timestamppb.New(at)}
}

// Sink is the optional pose/command history sink a navigation coordinator
// may be configured with. A nil Sink is always valid: callers best-effort
// record to it and never depend on the write succeeding.
type Sink interface {
	RecordPose(ctx context.Context, sample PoseSample) error
	RecordCommand(ctx context.Context, sample CommandSample) error
	Close(ctx context.Context) error
}
