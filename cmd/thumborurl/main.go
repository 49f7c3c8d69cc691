package main

import (
	"os"

	"github.com/cshum/thumborurl/config"
)

func main() {
	if srv := config.CreateServer(os.Args[1:]); srv != nil {
		srv.Run()
	}
}
