// Package signals binds Unix signals to the runtime logging controls:
// log rotation pickup on SIGUSR1 and verbosity up/down on SIGTTIN and
// SIGTTOU. An operator tunes a running relayd with, for example:
//
//	kill -TTIN $(pidof relayd)   # one step more verbose
//	kill -USR1 $(pidof relayd)   # after logrotate moved the file
package signals
