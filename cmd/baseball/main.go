package main

import "github.com/mcoot/baseballgame-go/internal/cli"

func main() {
	cli.Execute()
}
