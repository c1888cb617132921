package main

import "github.com/timvw/interview-coach/cmd"

func main() {
	cmd.Execute()
}
