package main

import "github.com/ethanolivertroy/incgraph/cmd"

func main() {
	cmd.Execute()
}
