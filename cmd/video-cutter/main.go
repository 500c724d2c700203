package main

import "video-cutter/internal/cli"

func main() {
	cli.Execute()
}
