package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"navcore/config"
	"navcore/latency"
	"navcore/nav"
	"navcore/particlefilter"
	"navcore/planner"
	"navcore/pose"
	"navcore/telemetry"
	"navcore/vectormap"

	"github.com/paulmach/orb"
	"github.com/spf13/cobra"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "navcore",
		Short: "Demo CLI driving the localization and navigation core",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML configuration file (optional)")
	root.AddCommand(localizeCmd(), planCmd(), runCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

func localizeCmd() *cobra.Command {
	var mapName string
	var x, y, theta float64

	cmd := &cobra.Command{
		Use:   "localize",
		Short: "Initialize the particle filter on a map and print the weighted-mean pose",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log, err := telemetry.NewLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			f := particlefilter.New(cfg.ParticleFilterConfig(), time.Now().UnixNano(), log)
			if err := f.Initialize(mapName, pose.New(x, y, theta)); err != nil {
				return err
			}
			est, ok := f.GetLocation()
			if !ok {
				return fmt.Errorf("navcore: no location estimate available")
			}
			fmt.Printf("estimate: x=%.3f y=%.3f theta=%.3f\n", est.X, est.Y, est.Theta)
			return nil
		},
	}
	cmd.Flags().StringVar(&mapName, "map", "empty", "map name, resolved to maps/<name>.txt")
	cmd.Flags().Float64Var(&x, "x", 0, "initial x (meters)")
	cmd.Flags().Float64Var(&y, "y", 0, "initial y (meters)")
	cmd.Flags().Float64Var(&theta, "theta", 0, "initial heading (radians)")
	return cmd
}

func planCmd() *cobra.Command {
	var mapName string
	var startX, startY, goalX, goalY float64

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Search the grid lattice for a path between two map-frame points",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			m, err := vectormap.Load(mapName)
			if err != nil {
				return err
			}
			p := planner.New(m, cfg.PlannerConfig(), nil)
			p.InitializeMap(orb.Point{startX, startY})
			path := p.GetGlobalPath(orb.Point{goalX, goalY})
			if len(path) == 0 {
				fmt.Println("no path found")
				return nil
			}
			for _, k := range path {
				fmt.Println(k)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mapName, "map", "empty", "map name, resolved to maps/<name>.txt")
	cmd.Flags().Float64Var(&startX, "start-x", 0, "start x (meters)")
	cmd.Flags().Float64Var(&startY, "start-y", 0, "start y (meters)")
	cmd.Flags().Float64Var(&goalX, "goal-x", 1, "goal x (meters)")
	cmd.Flags().Float64Var(&goalY, "goal-y", 0, "goal y (meters)")
	return cmd
}

// pursuitPlanner is a minimal stand-in local planner for the demo loop: it
// drives straight toward the carrot at a fixed speed. A production system
// supplies its own LocalPlanner; navcore's core never prescribes one
// (spec.md §1, §4.7).
type pursuitPlanner struct {
	speed float64
}

func (p pursuitPlanner) PlanCommand(predicted pose.Pose2D, carrot orb.Point, liveScan []float64) nav.Command {
	dx, dy := carrot.X()-predicted.X, carrot.Y()-predicted.Y
	bearing := math.Atan2(dy, dx)
	return nav.Command{Vx: p.speed, Vy: 0, Omega: pose.AngleDiff(bearing, predicted.Theta)}
}

type stdoutSink struct{}

func (stdoutSink) Emit(c nav.Command) {
	fmt.Printf("cmd: vx=%.3f vy=%.3f omega=%.3f\n", c.Vx, c.Vy, c.Omega)
}

func runCmd() *cobra.Command {
	var mapName string
	var goalX, goalY, ticks float64
	var mongoURI, mongoDB string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a fixed number of coordinator ticks toward a goal on a map",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log, err := telemetry.NewLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			f := particlefilter.New(cfg.ParticleFilterConfig(), 42, log)
			if err := f.Initialize(mapName, pose.New(0, 0, 0)); err != nil {
				return err
			}
			m, err := vectormap.Load(mapName)
			if err != nil {
				return err
			}
			pl := planner.New(m, cfg.PlannerConfig(), log)
			comp := latency.New(cfg.LatencyConfig())

			var sink telemetry.Sink
			if mongoURI != "" {
				mongoSink, err := telemetry.DialMongoSink(context.Background(), mongoURI, mongoDB)
				if err != nil {
					return err
				}
				defer mongoSink.Close(context.Background())
				sink = mongoSink
			}

			coord := nav.New(nav.DefaultConfig(), f, pl, comp, pursuitPlanner{speed: 0.3}, stdoutSink{}, sink, log)
			coord.SetGoal(orb.Point{goalX, goalY})

			now := time.Now()
			for i := 0; i < int(ticks); i++ {
				now = now.Add(cfg.LatencyConfig().ControlPeriod)
				f.ObserveOdometry(pose.New(0, 0, 0))
				coord.Tick(now, nil, nil)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mapName, "map", "empty", "map name, resolved to maps/<name>.txt")
	cmd.Flags().Float64Var(&goalX, "goal-x", 1, "goal x (meters)")
	cmd.Flags().Float64Var(&goalY, "goal-y", 0, "goal y (meters)")
	cmd.Flags().Float64Var(&ticks, "ticks", 10, "number of control ticks to run")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "optional MongoDB URI to record pose/command history to")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", "navcore", "MongoDB database name used with --mongo-uri")
	return cmd
}
