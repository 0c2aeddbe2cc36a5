// Package movey provides a client for the Movey package registry.
//
// # Overview
//
// [Client] implements [deps.Resolver]. It POSTs the collected schemes of a
// manifest to {registry}/api/v1/packages/info in one request:
//
//	{"schemes": ["movedemo-ea:1.0.0", {"addr": "0x2", "chain": "sui/devnet"}]}
//
// and expects one record per scheme back:
//
//	[{"name": "MoveDemo", "version": "1.0.0",
//	  "repository_url": "https://github.com/x/y", "rev": "abc",
//	  "scheme": "movedemo-ea"}]
//
// A JSON object keyed by scheme is accepted as well.
//
// # Correlation
//
// A record answers a requested scheme when its scheme field equals the
// scheme's full string form, or equals its [deps.Scheme.ID] and the record's
// version is the one the scheme pins. Unanswered schemes, duplicate records,
// records without a scheme and records answering two schemes fail the whole
// call.
//
// # Errors
//
// Every failure surfaces as [errors.ErrCodeUnexpected]:
//
//	An unexpected error occurred. Please try again later
//
// [deps.Resolver]: github.com/movey-network/movey/pkg/deps.Resolver
// [deps.Scheme.ID]: github.com/movey-network/movey/pkg/deps.Scheme.ID
// [errors.ErrCodeUnexpected]: github.com/movey-network/movey/pkg/errors.ErrCodeUnexpected
package movey
