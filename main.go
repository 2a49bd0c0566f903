package main

import "github.com/Alijeyrad/simorq_frontdesk/cmd"

func main() {
	cmd.Execute()
}
