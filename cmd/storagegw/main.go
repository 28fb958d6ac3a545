package main

import (
	"context"
	"log"

	"github.com/avolkau/buildhub/internal/server/config"
	"github.com/avolkau/buildhub/internal/storagegw"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := storagegw.NewApp(cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
