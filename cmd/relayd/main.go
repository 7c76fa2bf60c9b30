// Relayd is a lightweight TCP relay daemon.
//
// It forwards client connections to a single configured upstream while
// logging connection lifecycle and, at verbose levels, hex dumps of the
// relayed payloads. The log threshold and log file can be adjusted on a
// running daemon via signals (SIGTTIN/SIGTTOU/SIGUSR1).
//
// Usage:
//
//	relayd run [flags]
//
// See 'relayd run --help' for available options.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kmarsden/relayd/internal/config"
	"github.com/kmarsden/relayd/internal/logging"
	"github.com/kmarsden/relayd/internal/relay"
	"github.com/kmarsden/relayd/internal/signals"
	"github.com/kmarsden/relayd/internal/stats"
	"github.com/kmarsden/relayd/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "relayd",
	Short: "Relayd TCP relay daemon",
	Long: `A lightweight TCP relay daemon.

Relayd accepts client connections and forwards them byte-for-byte to a
single upstream. It is built around a logging core meant for protocol
diagnosis: every connection is tracked under a unique ID, and at high
verbosity every relayed payload chunk is hex-dumped to the log.

Runtime control on a running daemon:
  kill -TTIN <pid>   raise the log threshold (more verbose)
  kill -TTOU <pid>   lower the log threshold (quieter)
  kill -USR1 <pid>   reopen the log file after external rotation`,
	Version: version.Version,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

// Run command and flags
var (
	confPath  string
	listen    string
	upstream  string
	logFile   string
	verbosity int
	statsAddr string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the relay daemon",
	Long: `Start the relay daemon and block until SIGINT or SIGTERM.

Flags override values from the configuration file. The upstream address
must come from one or the other.`,
	Example: `  # Relay local port 22121 to a memcached instance, log to a file
  relayd run --upstream 10.0.0.5:11211 -o /var/log/relayd.log

  # Chatty protocol diagnosis on stderr
  relayd run --upstream 10.0.0.5:11211 -v 9

  # Everything from a config file
  relayd run --conf /etc/relayd.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon(cmd)
	},
}

func init() {
	runCmd.Flags().StringVarP(&confPath, "conf", "c", "", "Path to YAML configuration file")
	runCmd.Flags().StringVar(&listen, "listen", "", "Address to accept client connections on")
	runCmd.Flags().StringVar(&upstream, "upstream", "", "Address to relay connections to")
	runCmd.Flags().StringVarP(&logFile, "log-file", "o", "", "Log file path (default: standard error)")
	runCmd.Flags().IntVarP(&verbosity, "verbosity", "v", 0, "Log threshold, 0 (emerg) to 11 (pverb)")
	runCmd.Flags().StringVar(&statsAddr, "stats-addr", "", "Stats endpoint address (empty disables)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("relayd %s\n", version.Full())
	},
}

// loadConfig merges the config file (or defaults) with any flags the user
// set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if confPath != "" {
		loaded, err := config.Load(confPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("listen") {
		cfg.Listen = listen
	}
	if cmd.Flags().Changed("upstream") {
		cfg.Upstream = upstream
	}
	if cmd.Flags().Changed("log-file") {
		cfg.LogFile = logFile
	}
	if cmd.Flags().Changed("verbosity") {
		cfg.Verbosity = verbosity
	}
	if cmd.Flags().Changed("stats-addr") {
		cfg.StatsAddr = statsAddr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runDaemon(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := logging.Init(logging.Level(cfg.Verbosity), cfg.LogFile); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Deinit()
	signals.Setup()

	logging.Noticef("relayd %s starting", version.Full())

	relaySrv, err := relay.New(&relay.Config{
		Listen:      cfg.Listen,
		Upstream:    cfg.Upstream,
		DialTimeout: time.Duration(cfg.DialTimeoutMS) * time.Millisecond,
	})
	if err != nil {
		return err
	}
	if err := relaySrv.Listen(); err != nil {
		return err
	}

	start := time.Now()
	var statsSrv *stats.Server
	if cfg.StatsAddr != "" {
		statsSrv = stats.New(cfg.StatsAddr, func() stats.Snapshot {
			current, total := relaySrv.Counters()
			return stats.Snapshot{
				Version:          version.Version,
				UptimeSeconds:    int64(time.Since(start).Seconds()),
				LogLevel:         int(logging.CurrentLevel()),
				LogLevelName:     logging.CurrentLevel().String(),
				LogErrors:        logging.ErrorCount(),
				CurrConnections:  current,
				TotalConnections: total,
			}
		})
		go func() {
			if err := statsSrv.ListenAndServe(); err != nil {
				logging.Errorf("stats endpoint stopped: %v", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- relaySrv.Serve()
	}()

	select {
	case sig := <-sigChan:
		logging.Noticef("signal %v received, shutting down", sig)
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if statsSrv != nil {
		if err := statsSrv.Shutdown(ctx); err != nil {
			logging.Errorf("stats shutdown: %v", err)
		}
	}
	return relaySrv.Shutdown(ctx)
}
