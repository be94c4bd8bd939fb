package main

import (
	"github.com/NVIDIA/release-phase/pkg/cli"
)

func main() {
	cli.Execute()
}
