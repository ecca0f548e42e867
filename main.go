package main

import "github.com/naka-gawa/github-viewer/cmd"

func main() {
	cmd.Execute()
}
