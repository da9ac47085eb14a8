package main

import (
	"log"

	"github.com/MrSnakeDoc/oneshop/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ oneshop failed to start: %v", err)
	}
}
