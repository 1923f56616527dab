// Command pricingctl prints pricing tables and checks that every price
// surface agrees on the seeded catalog.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
