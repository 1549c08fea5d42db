package main

import "github.com/darmiel/dockgate/cmd"

func main() {
	cmd.Execute()
}
