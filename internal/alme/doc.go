// Package alme implements the Arcella Local Management Extensions server:
// a line-oriented JSON protocol over a Unix domain socket for inspecting a
// running daemon.
//
// Each request is one JSON object per line:
//
//	{"cmd":"ping"}
//	{"cmd":"config:get","args":{"key":"arcella.log.level"}}
//
// and each response is one JSON object per line with success, message and
// optional data fields. The socket is owner-only (0600); anyone who can
// open it already owns the process.
//
// Supported commands: ping, status, module:list, config:get,
// config:warnings. The config:warnings command answers "why did my override
// not apply" without digging through logs.
package alme
