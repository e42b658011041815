package main

import "github.com/cedarkv/cedar/cmd"

func main() {
	cmd.Execute()
}
