// Package httpserver provides the shared HTTP server shell for the voting
// services. It wires structured request logging, standard middleware, and
// the operational endpoints every party exposes, so the pollmaker and voter
// binaries differ only in the routes they register.
//
// Every server built on this package serves:
//
//   - /livez: liveness probe
//   - /readyz: readiness probe, honoring drain state
//   - /drain, /undrain: readiness toggles for load balancer rotation
//
// Services plug in through the RouteRegistrar interface:
//
//	srv, err := httpserver.New(cfg, pollmakerService)
//	if err != nil { ... }
//	srv.RunInBackground()
//	defer srv.Shutdown()
package httpserver
