package main

import "github.com/they4kman/duelsweep/cmd"

func main() {
	cmd.Execute()
}
