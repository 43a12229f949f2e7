package main

import "github.com/mcoot/gamenight/internal/cli"

func main() {
	cli.Execute()
}
