//go:build !windows

package signals

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/kmarsden/relayd/internal/logging"
)

// Setup installs the runtime log-control signal handlers:
//
//	SIGUSR1  reopen the log file (external rotation)
//	SIGTTIN  raise the log threshold (more verbose)
//	SIGTTOU  lower the log threshold (quieter)
//
// Shutdown signals are the daemon's concern and are handled in cmd.
func Setup() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGUSR1, syscall.SIGTTIN, syscall.SIGTTOU)
	go func() {
		for sig := range ch {
			switch sig {
			case syscall.SIGUSR1:
				logging.Noticef("signal %v received, reopening log file", sig)
				logging.Reopen()
			case syscall.SIGTTIN:
				logging.LevelUp()
			case syscall.SIGTTOU:
				logging.LevelDown()
			}
		}
	}()
}
