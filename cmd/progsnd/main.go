// SPDX-License-Identifier: EPL-2.0

// Command progsnd resolves programmer sounds from sound tables and renders,
// plays or serves them.
package main

import (
	"context"
	"os"
)

func main() {
	err := rootCmd.Execute()
	if shutdownTracing != nil {
		_ = shutdownTracing(context.Background())
	}
	if err != nil {
		os.Exit(1)
	}
}
