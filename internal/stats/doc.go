// Package stats exposes relayd health over a small HTTP endpoint.
//
// GET /stats returns a JSON snapshot of daemon state: version, uptime,
// the current log threshold, the logging core's failed-write counter and
// the relay's connection counters. The failed-write counter is the only
// channel logging failures surface through, so this endpoint is where an
// operator finds out the log destination is unhealthy.
package stats
