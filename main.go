package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/kova98/painhunt.api/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
