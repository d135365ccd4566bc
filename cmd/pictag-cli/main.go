package main

import "pictag/cmd/pictag-cli/cmd"

func main() {
	cmd.Execute()
}
