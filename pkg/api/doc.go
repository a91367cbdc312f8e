// Package api defines the request and response messages of the ledger RPC
// services. Messages are plain structs encoded as JSON; see package
// apiconnect for the Connect handlers and clients.
package api
