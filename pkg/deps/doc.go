// Package deps parses Movey dependency declarations from Move.toml.
//
// # Overview
//
// A Move package declares registry dependencies under [dependencies.movey]:
//
//	[dependencies.movey]
//	resolver = "movey"
//
//	[dependencies.movey.packages]
//	MoveDemo = "movedemo-ea:1.0.0"
//
//	[dependencies.movey.onchain]
//	Sui = { addr = "0x2", chain = "sui/devnet" }
//
// [ParseManifest] decodes both groups into [Declarations], keeping each
// dependency's [Scheme] unnormalized. [Collect] merges the two groups into a
// single name → scheme mapping (onchain entries overwrite packages entries of
// the same name). A [Resolver] then turns the schemes into [Dependency]
// records.
//
// # Schemes
//
// A [Scheme] is either a plain string or a table. Neither form is
// interpreted locally; the registry resolves them. [Scheme.ID] gives the
// identifier a registry record is expected to carry so that responses can be
// correlated with requests.
//
// # Resolving
//
// The registry client lives in [movey]:
//
//	d, _ := deps.LoadManifest("Move.toml")
//	resolved, _ := client.Resolve(ctx, deps.Collect(d))
//
// [movey]: github.com/movey-network/movey/pkg/integrations/movey
package deps
