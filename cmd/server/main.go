package main

import (
	"context"
	"log"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gowear/gowear/internal/server"
	"github.com/gowear/gowear/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
