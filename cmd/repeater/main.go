package main

import (
	"log"

	"github.com/goliatone/go-repeater/internal/commands"
)

func main() {
	if err := commands.New().Execute(); err != nil {
		log.Fatalf("repeater: %v", err)
	}
}
