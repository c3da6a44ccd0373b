// Command delegator resolves method delegation plans: it selects the target
// an intercepted call is delegated to, emits the delegating body and checks
// its stack accounting.
package main

import (
	"os"

	"go.uber.org/zap"
)

// logger is replaced before any command runs.
var logger = zap.NewNop()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
