package deps_test

import (
	"fmt"

	"github.com/movey-network/movey/pkg/deps"
)

func ExampleCollect() {
	d, err := deps.ParseManifest(`
[dependencies.movey]
resolver = "movey"

[dependencies.movey.packages]
MoveDemo = "movedemo-ea:1.0.0"
Sui = "sui-ea:0.1.0"

[dependencies.movey.onchain]
Sui = { addr = "0x2", chain = "sui/devnet" }
`)
	if err != nil {
		fmt.Println(err)
		return
	}

	schemes := deps.Collect(d)
	fmt.Println("MoveDemo:", schemes["MoveDemo"])
	fmt.Println("Sui:", schemes["Sui"])
	fmt.Println("overridden:", deps.Overrides(d))
	// Output:
	// MoveDemo: movedemo-ea:1.0.0
	// Sui: {"addr":"0x2","chain":"sui/devnet"}
	// overridden: [Sui]
}

func ExampleScheme_ID() {
	fmt.Println(deps.PlainScheme("movedemo-ea:1.0.0").ID())
	fmt.Println(deps.StructuredScheme(map[string]any{"addr": "0x2", "chain": "sui/devnet"}).ID())
	// Output:
	// movedemo-ea
	// 0x2@sui/devnet
}
