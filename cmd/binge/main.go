package main

import "github.com/matze/binge/internal/cli"

func main() {
	cli.Execute()
}
