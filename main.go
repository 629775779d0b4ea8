package main

import "goship/cmd"

func main() {
	cmd.Execute()
}
