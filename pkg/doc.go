// Package pkg provides the libraries behind the movey dependency resolver.
//
// # Overview
//
// Movey turns the [dependencies.movey] section of a Move package's
// Move.toml into a Move.lock file by asking the Movey registry for the
// package behind every declared scheme. The pkg directory is organized as:
//
//  1. [deps] - Manifest parsing, scheme values, dependency collection
//  2. [integrations] - HTTP client shared by registry clients, and the Movey client
//  3. [lockfile] - Deterministic Move.lock rendering and atomic writes
//  4. [pipeline] - Orchestration (parse → resolve → write)
//  5. [credential] - The movey_credential.toml token and registry URL
//  6. [registry] - A development registry with memory, Redis and MongoDB indexes
//  7. [observability] - Hooks for metrics, with a Prometheus implementation
//  8. [errors] - Coded errors and the messages shown to users
//
// # Architecture
//
//	Move.toml
//	    ↓
//	[deps] LoadManifest + Collect (name → scheme)
//	    ↓
//	[integrations/movey] one POST /api/v1/packages/info
//	    ↓
//	[lockfile] sort + encode + atomic write
//	    ↓
//	Move.lock
//
// # Quick Start
//
//	client := movey.NewClient("https://www.movey.net", buildinfo.Version, logger)
//	runner := pipeline.NewRunner(client, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Dir: "."})
//	if err != nil {
//	    fmt.Println(errors.UserMessage(err))
//	}
//
// [deps]: https://pkg.go.dev/github.com/movey-network/movey/pkg/deps
// [integrations]: https://pkg.go.dev/github.com/movey-network/movey/pkg/integrations
// [integrations/movey]: https://pkg.go.dev/github.com/movey-network/movey/pkg/integrations/movey
// [lockfile]: https://pkg.go.dev/github.com/movey-network/movey/pkg/lockfile
// [pipeline]: https://pkg.go.dev/github.com/movey-network/movey/pkg/pipeline
// [credential]: https://pkg.go.dev/github.com/movey-network/movey/pkg/credential
// [registry]: https://pkg.go.dev/github.com/movey-network/movey/pkg/registry
// [observability]: https://pkg.go.dev/github.com/movey-network/movey/pkg/observability
// [errors]: https://pkg.go.dev/github.com/movey-network/movey/pkg/errors
package pkg
