package main

import "github.com/swarmgate/swarmgate/internal/cli"

func main() {
	cli.Execute()
}
