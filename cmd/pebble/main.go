package main

import "github.com/marshallshelly/pebble-records/cmd/pebble/commands"

func main() {
	commands.Execute()
}
