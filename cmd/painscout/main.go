package main

import "painscout/internal/cli"

func main() {
	cli.Execute()
}
