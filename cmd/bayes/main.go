package main

import "bayes/internal/cli"

func main() {
	cli.Execute()
}
