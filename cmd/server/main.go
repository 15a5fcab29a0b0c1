package main

import "github.com/thereayou/pairchat/internal/server"

func main() {
	server.NewServer().Run()
}
