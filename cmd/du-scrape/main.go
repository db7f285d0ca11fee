package main

import "github.com/pfrederiksen/du-scrape/internal/cli"

func main() {
	cli.Execute()
}
