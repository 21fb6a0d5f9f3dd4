package main

import "ridesafe-backend/cmd"

func main() {
	cmd.Run()
}
