package main

import "pet-feed-backend/cmd"

func main() {
	cmd.Run()
}
