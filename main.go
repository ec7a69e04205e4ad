package main

import "github.com/calebmoran/giftsim/cmd"

func main() {
	cmd.Execute()
}
