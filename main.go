package main

import "github.com/kamal-hamza/vocx/cmd"

func main() {
	cmd.Execute()
}
