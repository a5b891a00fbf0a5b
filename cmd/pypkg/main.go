package main

import (
	"pypkg/internal/cli"
)

func main() {
	cli.Execute()
}
