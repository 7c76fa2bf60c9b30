//go:build windows

package signals

// Setup is a no-op on Windows: the log-control signals (SIGUSR1, SIGTTIN,
// SIGTTOU) do not exist there.
func Setup() {}
