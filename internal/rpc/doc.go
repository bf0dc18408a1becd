// Package rpc defines the settleup.v1 Connect services: procedure names,
// request and response messages, handler constructors and typed clients.
//
// Messages are plain Go structs carried by a JSON codec, so every handler and
// client built here speaks application/json (Connect protocol) only.
package rpc
