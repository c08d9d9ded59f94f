package main

import "process-resolver/internal/cli"

func main() {
	cli.Execute()
}
