package main

import "github.com/wextkit/cli/cmd"

func main() {
	cmd.Execute()
}
