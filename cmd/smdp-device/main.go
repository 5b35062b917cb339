package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/mbocsi/smdp/client"
	"github.com/mbocsi/smdp/config"
	"github.com/spf13/cobra"
)

var (
	host      string
	port      int
	deviceID  string
	firmware  string
	state     uint8
	logLevel  string
	discovery time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "smdp-device",
	Short: "Simulated SMDP device",
	Long: `smdp-device registers with an SMDP hub, waits for the acknowledgement and
then reports a single state change. Without --host the hub is located over
mDNS.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.SetupLogger(os.Stdout, logLevel, "text"); err != nil {
			return err
		}
		return run(cmd.Context())
	},
}

func run(ctx context.Context) error {
	addr, err := hubAddr()
	if err != nil {
		return err
	}

	device, err := client.NewDevice(deviceID, firmware, state, client.NewUDPTransport())
	if err != nil {
		return err
	}
	if err := device.Connect(addr); err != nil {
		return fmt.Errorf("connect to %s: %w", addr, err)
	}
	defer device.Close()

	ack, err := device.Register(ctx)
	switch {
	case errors.Is(err, client.ErrAckTimeout):
		slog.Warn("Hub did not acknowledge registration", "device_id", deviceID)
	case err != nil:
		return err
	default:
		slog.Info("Registered", "device_id", ack.DeviceID, "acked_type", ack.AckedType)
	}

	time.Sleep(1 * time.Second)
	return device.ReportState(0, "manual_off")
}

func hubAddr() (string, error) {
	if host != "" {
		return net.JoinHostPort(host, strconv.Itoa(port)), nil
	}
	hub, err := client.DiscoverHub(discovery)
	if err != nil {
		return "", fmt.Errorf("no --host given and discovery failed: %w", err)
	}
	return hub.HostPort(), nil
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&host, "host", "", "hub host (discovered over mDNS when empty)")
	flags.IntVar(&port, "port", 5555, "hub UDP port")
	flags.StringVar(&deviceID, "uuid", "abc123", "device id, at most 16 bytes")
	flags.StringVar(&firmware, "fw", "v1.0", "firmware version, at most 8 bytes")
	flags.Uint8Var(&state, "state", 1, "initial state code")
	flags.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	flags.DurationVar(&discovery, "discover-timeout", 5*time.Second, "how long to wait for mDNS answers")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
