package relay

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kmarsden/relayd/internal/logging"
)

// startEcho runs a TCP server that echoes everything it reads.
func startEcho(t *testing.T) net.Addr {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				buf := make([]byte, 4096)
				for {
					n, err := conn.Read(buf)
					if n > 0 {
						if _, err := conn.Write(buf[:n]); err != nil {
							return
						}
					}
					if err != nil {
						return
					}
				}
			}()
		}
	}()
	return ln.Addr()
}

// startRelay builds a relay in front of upstream with logging captured in
// a temp file, and returns the relay address and the log path.
func startRelay(t *testing.T, upstream string, verbosity logging.Level) (net.Addr, string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "relayd.log")
	if err := logging.Init(verbosity, logPath); err != nil {
		t.Fatalf("logging.Init failed: %v", err)
	}
	t.Cleanup(logging.Deinit)

	s, err := New(&Config{
		Listen:      "127.0.0.1:0",
		Upstream:    upstream,
		DialTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := s.Listen(); err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	go s.Serve()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(ctx); err != nil {
			t.Errorf("Shutdown failed: %v", err)
		}
	})
	return s.Addr(), logPath
}

func roundTrip(t *testing.T, addr net.Addr, payload string) string {
	t.Helper()
	conn, err := net.Dial("tcp", addr.String())
	if err != nil {
		t.Fatalf("dialing relay: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(payload)); err != nil {
		t.Fatalf("writing to relay: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	buf := make([]byte, len(payload))
	n := 0
	for n < len(payload) {
		m, err := conn.Read(buf[n:])
		if err != nil {
			t.Fatalf("reading from relay after %d bytes: %v", n, err)
		}
		n += m
	}
	return string(buf[:n])
}

func TestRelayRoundTrip(t *testing.T) {
	echo := startEcho(t)
	addr, logPath := startRelay(t, echo.String(), logging.Info)

	if got := roundTrip(t, addr, "get mykey\r\n"); got != "get mykey\r\n" {
		t.Errorf("round trip = %q, want the payload echoed back", got)
	}

	// Connection lifecycle must be in the log; payload dumps must not be
	// at this verbosity.
	deadline := time.Now().Add(2 * time.Second)
	var log string
	for time.Now().Before(deadline) {
		data, err := os.ReadFile(logPath)
		if err == nil {
			log = string(data)
		}
		if strings.Contains(log, "accepted from") {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !strings.Contains(log, "accepted from") {
		t.Errorf("connection accept not logged: %q", log)
	}
	if strings.Contains(log, "|get mykey") {
		t.Errorf("payload dumped below the verbose threshold: %q", log)
	}
}

func TestRelayDumpsPayloadWhenVerbose(t *testing.T) {
	echo := startEcho(t)
	addr, logPath := startRelay(t, echo.String(), logging.Pverb)

	roundTrip(t, addr, "hello")

	deadline := time.Now().Add(2 * time.Second)
	var log string
	for time.Now().Before(deadline) {
		if data, err := os.ReadFile(logPath); err == nil {
			log = string(data)
		}
		if strings.Contains(log, "|hello|") {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !strings.Contains(log, "client->upstream 5 bytes") {
		t.Errorf("chunk message missing: %q", log)
	}
	if !strings.Contains(log, "|hello|") {
		t.Errorf("hex dump rows missing: %q", log)
	}
}

func TestRelayUpstreamUnreachable(t *testing.T) {
	// A listener that is immediately closed gives a port nothing accepts
	// on.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	dead := ln.Addr().String()
	ln.Close()

	addr, logPath := startRelay(t, dead, logging.Info)

	conn, err := net.Dial("tcp", addr.String())
	if err != nil {
		t.Fatalf("dialing relay: %v", err)
	}
	defer conn.Close()

	// The relay closes the client connection once the upstream dial
	// fails.
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	buf := make([]byte, 1)
	if _, err := conn.Read(buf); err == nil {
		t.Error("expected the relay to close the connection")
	}

	deadline := time.Now().Add(2 * time.Second)
	var log string
	for time.Now().Before(deadline) {
		if data, rerr := os.ReadFile(logPath); rerr == nil {
			log = string(data)
		}
		if strings.Contains(log, "dialing upstream") {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !strings.Contains(log, "dialing upstream") {
		t.Errorf("dial failure not logged: %q", log)
	}
}

func TestRelayCounters(t *testing.T) {
	echo := startEcho(t)

	logPath := filepath.Join(t.TempDir(), "relayd.log")
	if err := logging.Init(logging.Notice, logPath); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(logging.Deinit)

	s, err := New(&Config{Listen: "127.0.0.1:0", Upstream: echo.String(), DialTimeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Listen(); err != nil {
		t.Fatal(err)
	}
	go s.Serve()

	for i := 0; i < 3; i++ {
		roundTrip(t, s.Addr(), "ping")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	current, total := s.Counters()
	if current != 0 {
		t.Errorf("current connections = %d after shutdown, want 0", current)
	}
	if total != 3 {
		t.Errorf("total connections = %d, want 3", total)
	}
}

func TestNewRequiresUpstream(t *testing.T) {
	if _, err := New(&Config{Listen: "127.0.0.1:0"}); err == nil {
		t.Fatal("New without upstream succeeded")
	}
}
