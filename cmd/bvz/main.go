package main

import "github.com/mcoot/bvzombies/internal/cli"

func main() {
	cli.Execute()
}
