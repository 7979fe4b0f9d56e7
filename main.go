package main

import "github.com/trendmuse/trendmuse/cmd"

func main() {
	cmd.Execute()
}
