package main

import "hours/cmd"

func main() {
	cmd.Execute()
}
