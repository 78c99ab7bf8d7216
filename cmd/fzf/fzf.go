package main

import (
	"context"
	"fmt"
	"os"

	"github.com/wellle/fzf"
	"github.com/wellle/fzf/internal/util"
)

func main() {
	os.Exit(_main())
}

func _main() int {
	cli := fzf.New()

	err := cli.Run(context.Background())
	if err == nil {
		return 0
	}

	if util.IsCollectResultsError(err) {
		cli.PrintResults()
		return 0
	}

	st, explicit := util.GetExitStatus(err)
	if util.IsIgnorableError(err) {
		return st
	}

	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	if explicit {
		return st
	}
	return 2
}
