package integrations_test

import (
	"fmt"

	"github.com/movey-network/movey/pkg/integrations"
)

func ExampleUserAgent() {
	fmt.Println(integrations.UserAgent("0.3.0"))
	fmt.Println(integrations.UserAgent(""))
	// Output:
	// movey/0.3.0 (https://github.com/movey-network/movey)
	// movey/dev (https://github.com/movey-network/movey)
}

func Example_errors() {
	fmt.Println("ErrNotFound:", integrations.ErrNotFound)
	fmt.Println("ErrNetwork:", integrations.ErrNetwork)
	// Output:
	// ErrNotFound: resource not found
	// ErrNetwork: network error
}
