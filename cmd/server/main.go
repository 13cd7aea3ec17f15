package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/notekeeper/internal/buildinfo"
	"github.com/dmitrijs2005/notekeeper/internal/server"
	"github.com/dmitrijs2005/notekeeper/internal/server/config"
)

func main() {
	buildinfo.Print(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
