// Package relay implements the relayd forwarding path: a TCP accept loop
// that pipes each client connection byte-for-byte to a single configured
// upstream and back.
//
// The relay adds nothing to the byte stream. Its observable output is the
// log: connection open/close at Info with a per-connection ID, upstream
// dial failures at Error, and full payload hex dumps at Vverb for
// protocol diagnosis. Connection counters are exposed for the stats
// endpoint.
package relay
