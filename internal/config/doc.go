// Package config loads and validates the relayd daemon configuration.
//
// Configuration lives in a single YAML file passed on the command line;
// every field has a built-in default except the upstream address, and
// command-line flags override file values. Example:
//
//	listen: 0.0.0.0:22121
//	upstream: 127.0.0.1:11211
//	log_file: /var/log/relayd.log
//	verbosity: 6
//	stats_addr: 127.0.0.1:22222
//	dial_timeout_ms: 2000
package config
