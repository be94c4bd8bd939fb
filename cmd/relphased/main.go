package main

import (
	"log"

	"github.com/NVIDIA/release-phase/pkg/api"
)

func main() {
	if err := api.Serve(); err != nil {
		log.Fatal(err)
	}
}
