package main

import (
	"context"
	"log"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gowear/gowear/internal/client/cli"
	"github.com/gowear/gowear/internal/client/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
