package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/notekeeper/internal/buildinfo"
	"github.com/dmitrijs2005/notekeeper/internal/client/cli"
	"github.com/dmitrijs2005/notekeeper/internal/client/config"
)

func main() {
	buildinfo.Print(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
