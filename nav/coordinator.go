// Package nav implements the navigation coordinator (C7): it owns the
// current goal and active path, drives the per-tick carrot selection, and
// hands off to an external local planner for command synthesis (spec.md
// §4.7). The local planner and the live scan obstacle model are the
// "external collaborator" spec.md §1 scopes out of this core.
package nav

import (
	"context"
	"time"

	"navcore/latency"
	"navcore/particlefilter"
	"navcore/planner"
	"navcore/pose"
	"navcore/telemetry"
	"navcore/vectormap"

	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

// Command is an outbound velocity command (spec.md §6's "Velocity command
// (linear, angular) from the external local planner").
type Command struct {
	Vx, Vy, Omega float64
}

// LocalPlanner synthesizes a velocity command from the predicted pose, the
// current carrot waypoint, and the live scan. It is owned and implemented
// outside this package (spec.md §1, §4.7).
type LocalPlanner interface {
	PlanCommand(predicted pose.Pose2D, carrot orb.Point, liveScan []float64) Command
}

// CommandSink is the outbound command channel (spec.md §4.7 step 5). A nil
// sink is valid and simply discards commands.
type CommandSink interface {
	Emit(Command)
}

// Config holds the coordinator's tunables (spec.md §4.7 and §9's "carrot
// radius" glossary entry).
type Config struct {
	CarrotRadius        float64
	DivergenceThreshold float64
}

// DefaultConfig returns reasonable coordinator defaults.
func DefaultConfig() Config {
	return Config{CarrotRadius: 1.5, DivergenceThreshold: 1.0}
}

// Coordinator owns the current goal and active path, per spec.md §4.7.
type Coordinator struct {
	cfg Config
	log *telemetry.Logger

	filter      *particlefilter.Filter
	planner     *planner.Planner
	compensator *latency.Compensator
	local       LocalPlanner
	commands    CommandSink
	sink        telemetry.Sink

	goal    orb.Point
	hasGoal bool
	path    []string
}

// New returns a Coordinator wiring together the already-constructed filter,
// planner, and latency compensator. local, commands, and sink may all be
// nil: a nil sink simply means Tick never records pose/command history
// (spec.md §4.7, SPEC_FULL.md §4.7).
func New(cfg Config, filter *particlefilter.Filter, pl *planner.Planner, comp *latency.Compensator, local LocalPlanner, commands CommandSink, sink telemetry.Sink, log *telemetry.Logger) *Coordinator {
	if log == nil {
		log = telemetry.NewNop()
	}
	return &Coordinator{
		cfg:         cfg,
		log:         log,
		filter:      filter,
		planner:     pl,
		compensator: comp,
		local:       local,
		commands:    commands,
		sink:        sink,
	}
}

// SetGoal updates the active goal. It invalidates the current path but not
// the filter (spec.md §5's "A new goal invalidates the path but not the
// filter").
func (c *Coordinator) SetGoal(goal orb.Point) {
	c.goal = goal
	c.hasGoal = true
	c.path = nil
}

// Reinitialize clears the coordinator's path, mirroring a filter
// re-initialization (spec.md §5's "re-initialization of the filter ...
// invalidates any in-flight plan").
func (c *Coordinator) Reinitialize() {
	c.path = nil
}

// Tick executes one coordinator cycle: read the filter pose, predict
// forward, replan if any trigger fires, select the carrot, hand off to the
// local planner, and record+emit the resulting command (spec.md §4.7).
// liveObstacles models the live-scan obstacle segments used to detect path
// intrusion; it may be nil.
func (c *Coordinator) Tick(now time.Time, liveObstacles []vectormap.Segment, liveScan []float64) (Command, bool) {
	if !c.hasGoal {
		return Command{}, false
	}

	estimate, ok := c.filter.GetLocation()
	if !ok {
		c.log.Warn("tick skipped: no localization estimate")
		return Command{}, false
	}
	predicted := c.compensator.PredictedState(estimate)

	c.maybeReplan(predicted, liveObstacles)
	if len(c.path) == 0 {
		c.log.Warn("tick skipped: no path to goal")
		return Command{}, false
	}

	carrot := c.selectCarrot(predicted, liveObstacles)
	if c.local == nil {
		return Command{}, false
	}
	cmd := c.local.PlanCommand(predicted, carrot, liveScan)

	if err := c.compensator.RecordNewInput(cmd.Vx, cmd.Vy, cmd.Omega, now); err != nil {
		c.log.Warn("failed to record command", zap.Error(err))
	}
	if c.commands != nil {
		c.commands.Emit(cmd)
	}
	c.recordTelemetry(predicted, cmd, now)
	return cmd, true
}

// recordTelemetry best-effort writes the (PoseSample, CommandSample) pair to
// the configured sink, if any. Sink failures are logged and otherwise
// swallowed: Tick's control flow never depends on telemetry succeeding
// (spec.md §7's "transient errors are recovered locally" policy applied to
// the telemetry boundary; SPEC_FULL.md §4.7).
func (c *Coordinator) recordTelemetry(predicted pose.Pose2D, cmd Command, now time.Time) {
	if c.sink == nil {
		return
	}
	ctx := context.Background()
	if err := c.sink.RecordPose(ctx, telemetry.NewPoseSample(predicted.X, predicted.Y, predicted.Theta, now)); err != nil {
		c.log.Warn("telemetry sink failed to record pose", zap.Error(err))
	}
	if err := c.sink.RecordCommand(ctx, telemetry.NewCommandSample(cmd.Vx, cmd.Vy, cmd.Omega, now)); err != nil {
		c.log.Warn("telemetry sink failed to record command", zap.Error(err))
	}
}

// maybeReplan checks the replan triggers named in spec.md §4.7 and requests
// a fresh path from the planner if any fires.
func (c *Coordinator) maybeReplan(predicted pose.Pose2D, liveObstacles []vectormap.Segment) {
	if len(c.path) == 0 {
		c.replan(predicted)
		return
	}
	if c.divergesFromPath(predicted) {
		c.log.Info("replanning: predicted pose diverged from path")
		c.replan(predicted)
		return
	}
	if c.firstSegmentBlocked(liveObstacles) {
		c.log.Info("replanning: live obstacle intrudes on path")
		c.replan(predicted)
		return
	}
}

func (c *Coordinator) replan(from pose.Pose2D) {
	c.planner.InitializeMap(orb.Point{from.X, from.Y})
	c.path = c.planner.GetGlobalPath(c.goal)
}

// divergesFromPath reports whether predicted is further than
// cfg.DivergenceThreshold from the nearest remaining path point.
func (c *Coordinator) divergesFromPath(predicted pose.Pose2D) bool {
	nearest := c.nearestPathDistance(predicted)
	return nearest > c.cfg.DivergenceThreshold
}

func (c *Coordinator) nearestPathDistance(predicted pose.Pose2D) float64 {
	best := -1.0
	for _, k := range c.path {
		loc, ok := c.planner.NodeLocation(k)
		if !ok {
			continue
		}
		d := pose.Distance(predicted, pose.New(loc.X(), loc.Y(), 0))
		if best < 0 || d < best {
			best = d
		}
	}
	if best < 0 {
		return 0
	}
	return best
}

// firstSegmentBlocked reports whether the first remaining path segment
// intersects any live obstacle.
func (c *Coordinator) firstSegmentBlocked(liveObstacles []vectormap.Segment) bool {
	if len(c.path) < 2 {
		return false
	}
	a, ok := c.planner.NodeLocation(c.path[0])
	if !ok {
		return false
	}
	b, ok := c.planner.NodeLocation(c.path[1])
	if !ok {
		return false
	}
	return c.pathToObstructed(a, b, liveObstacles)
}

// selectCarrot returns the furthest waypoint on the path still within
// cfg.CarrotRadius of predicted and reachable without obstacle intrusion
// from predicted (spec.md §4.7 step 3). Falls back to the first waypoint if
// none qualify.
func (c *Coordinator) selectCarrot(predicted pose.Pose2D, liveObstacles []vectormap.Segment) orb.Point {
	origin := orb.Point{predicted.X, predicted.Y}
	best := orb.Point{}
	found := false
	for _, k := range c.path {
		loc, ok := c.planner.NodeLocation(k)
		if !ok {
			continue
		}
		d := pose.Distance(predicted, pose.New(loc.X(), loc.Y(), 0))
		if d > c.cfg.CarrotRadius {
			continue
		}
		if c.pathToObstructed(origin, loc, liveObstacles) {
			continue
		}
		best = loc
		found = true
	}
	if !found {
		if loc, ok := c.planner.NodeLocation(c.path[0]); ok {
			return loc
		}
	}
	return best
}

// pathToObstructed reports whether the straight segment from a to b
// intersects any live obstacle.
func (c *Coordinator) pathToObstructed(a, b orb.Point, liveObstacles []vectormap.Segment) bool {
	if len(liveObstacles) == 0 {
		return false
	}
	obstacles := &vectormap.Map{Segments: liveObstacles}
	_, hit := obstacles.Intersect(vectormap.Segment{P0: a, P1: b})
	return hit
}
