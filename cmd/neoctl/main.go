package main

import "neowatch/internal/cli"

func main() {
	cli.Execute()
}
