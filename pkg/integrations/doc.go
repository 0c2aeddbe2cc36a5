// Package integrations provides the HTTP plumbing shared by registry clients.
//
// # Overview
//
// [Client] wraps an [http.Client] with default headers, a per-request
// X-Request-ID, status-code mapping and observability hooks. Registry
// specific clients embed it:
//
//   - [movey]: the Movey package registry
//
// # Errors
//
// Transport failures and non-2xx responses wrap [ErrNetwork]; a 404 is
// reported as [ErrNotFound]. Callers decide how to present them; the Movey
// client collapses all of them into one generic user-facing error.
//
// # Timeouts
//
// [NewHTTPClient] sets no timeout beyond the transport defaults.
// Cancellation flows through the request context, so an interrupted CLI
// aborts the in-flight call.
//
// [movey]: github.com/movey-network/movey/pkg/integrations/movey
package integrations
