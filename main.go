package main

import "todoblocks/cmd"

func main() {
	cmd.Run()
}
