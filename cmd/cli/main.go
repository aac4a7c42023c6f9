package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/songkeeper/internal/client/cli"
	"github.com/dmitrijs2005/songkeeper/internal/client/config"
)

func main() {

	ctx := context.Background()
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	cli.NewApp(cfg).Run(ctx)

}
