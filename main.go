package main

import "github.com/theirongolddev/wander/cmd"

func main() {
	cmd.Execute()
}
