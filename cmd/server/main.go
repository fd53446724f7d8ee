package main

import "dms/internal/app/server"

func main() {
	server.Run()
}
