// cmd/canode/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tamzrod/canode/internal/can"
	"github.com/tamzrod/canode/internal/config"
	"github.com/tamzrod/canode/internal/export"
	"github.com/tamzrod/canode/internal/logging"
	"github.com/tamzrod/canode/internal/measure"
	"github.com/tamzrod/canode/internal/monitor"
	"github.com/tamzrod/canode/internal/node"
	"github.com/tamzrod/canode/internal/status"
	"github.com/tamzrod/canode/internal/uavcan"
)

// socket is what the process needs from an open CAN interface.
type socket interface {
	can.Sender
	can.Receiver
	Close() error
}

// openSocket is swapped out by tests.
var openSocket = func(iface string) (socket, error) {
	return can.Open(iface)
}

// measurementSource stands in for a real sensor.
var measurementSource measure.Source = measure.Static{
	Mean:     1.2345,
	Variance: measure.VarianceUnknown,
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type nodeFlags struct {
	configPath   string
	profile      string
	interval     time.Duration
	vendorStatus int
}

func newRootCmd() *cobra.Command {
	var f nodeFlags

	cmd := &cobra.Command{
		Use:   "canode <node-id> <iface>",
		Short: "Broadcast airspeed and node status on a CAN bus",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := nodeConfig(cmd, f, args)
			if err != nil {
				return err
			}
			return runNode(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "config file (.yaml, .yml or .toml)")
	cmd.Flags().StringVar(&f.profile, "profile", "", "wire profile: tail | inline")
	cmd.Flags().DurationVar(&f.interval, "interval", 0, "publish interval (default 500ms)")
	cmd.Flags().IntVar(&f.vendorStatus, "vendor-status", 0, "fixed vendor status code (random when unset)")

	cmd.AddCommand(newMonitorCmd())
	return cmd
}

// nodeConfig merges the optional file with positional args and flags.
// Arguments override file values.
func nodeConfig(cmd *cobra.Command, f nodeFlags, args []string) (*config.Config, error) {
	id, err := strconv.Atoi(args[0])
	if err != nil || id < 1 || id > int(uavcan.MaxNodeID) {
		return nil, fmt.Errorf("%w: %q", uavcan.ErrInvalidNodeID, args[0])
	}

	cfg := &config.Config{}
	if f.configPath != "" {
		if cfg, err = config.Load(f.configPath); err != nil {
			return nil, fmt.Errorf("config load failed: %w", err)
		}
	}

	cfg.Node.ID = id
	cfg.Node.Interface = args[1]

	flags := cmd.Flags()
	if flags.Changed("profile") {
		cfg.Node.Profile = f.profile
	}
	if flags.Changed("interval") {
		cfg.Node.IntervalMs = int(f.interval / time.Millisecond)
		if f.interval > 0 && cfg.Node.IntervalMs == 0 {
			return nil, fmt.Errorf("interval %s is below 1ms", f.interval)
		}
	}
	if flags.Changed("vendor-status") {
		v := f.vendorStatus
		cfg.Node.VendorStatus = &v
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)

	return cfg, nil
}

func runNode(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	profile, err := uavcan.ParseProfile(cfg.Node.Profile)
	if err != nil {
		return err
	}
	layout, err := uavcan.LayoutFor(profile)
	if err != nil {
		return err
	}
	nodeID := uavcan.NodeID(cfg.Node.ID)
	enc, err := uavcan.NewEncoder(layout, nodeID)
	if err != nil {
		return err
	}

	// --------------------
	// Transport (fatal on failure, no retry)
	// --------------------

	sock, err := openSocket(cfg.Node.Interface)
	if err != nil {
		log.Error("transport open failed", zap.String("iface", cfg.Node.Interface), zap.Error(err))
		return fmt.Errorf("transport open failed (iface=%s): %w", cfg.Node.Interface, err)
	}
	defer sock.Close()

	// --------------------
	// Status mirror (optional)
	// --------------------

	mirror, closeMirror, err := export.Build(cfg, profile, nodeID)
	if err != nil {
		return fmt.Errorf("status mirror build failed: %w", err)
	}
	defer closeMirror()

	vendor := node.RandomVendorStatus
	if cfg.Node.VendorStatus != nil {
		vendor = node.FixedVendorStatus(uint16(*cfg.Node.VendorStatus))
	}

	deps := node.Deps{
		Encoder:      enc,
		Sender:       sock,
		Heartbeat:    status.NewHeartbeat(profile, status.SystemClock),
		Source:       measurementSource,
		VendorStatus: vendor,
		Mirror:       mirror,
		Logger:       log,
	}

	n, err := node.New(node.Config{
		Interval: time.Duration(cfg.Node.IntervalMs) * time.Millisecond,
	}, deps)
	if err != nil {
		return err
	}

	log.Info("node up",
		zap.Int("node_id", cfg.Node.ID),
		zap.String("name", cfg.Node.Name),
		zap.String("iface", cfg.Node.Interface),
		zap.Stringer("profile", profile),
		zap.Bool("mirror", mirror != nil),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	n.Run(ctx)
	return nil
}

func newMonitorCmd() *cobra.Command {
	var (
		profile  string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "monitor <iface>",
		Short: "Print node status and airspeed broadcasts as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := uavcan.ParseProfile(profile)
			if err != nil {
				return err
			}
			layout, err := uavcan.LayoutFor(p)
			if err != nil {
				return err
			}

			log, err := logging.New(logLevel, config.DefaultLogFormat)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			sock, err := openSocket(args[0])
			if err != nil {
				return fmt.Errorf("transport open failed (iface=%s): %w", args[0], err)
			}
			defer sock.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return monitor.New(layout, cmd.OutOrStdout(), log).Run(ctx, sock)
		},
	}

	cmd.Flags().StringVar(&profile, "profile", config.DefaultProfile, "wire profile: tail | inline")
	cmd.Flags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "debug | info | warn | error")
	return cmd
}
