package main

import "school/internal/cli"

func main() {
	cli.Execute()
}
