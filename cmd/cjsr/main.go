package main

import (
	"github.com/m4dpr0f/cjsr-sub004/internal/cli"
)

func main() {
	cli.Execute()
}
