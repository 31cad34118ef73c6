// Package api provides the HTTP REST API for the Inkwell backend.
//
// It exposes authentication (login, refresh-token rotation), public content
// reads, and admin-only management of users, sections and posts. The server
// follows the standard lifecycle:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: all methods are safe for concurrent use.
package api
