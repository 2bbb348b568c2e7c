package main

import (
	"fmt"
	"os"
)

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "mlmodeld:", err)
		os.Exit(1)
	}
}
