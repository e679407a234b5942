package main

import "chordflow/cmd"

func main() {
	cmd.Execute()
}
