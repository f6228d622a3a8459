package main

import (
	"io"
	"os"
)

func main() {
	if err := execute(os.Args[1:], os.Stdout); err != nil {
		os.Exit(1)
	}
}

// execute runs the CLI with args and always releases the container afterwards.
func execute(args []string, out io.Writer) error {
	root, rt := newRootCmd()
	defer rt.teardown()

	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(out)
	return root.Execute()
}
