package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/partusch-cms/internal/buildinfo"
	"github.com/dmitrijs2005/partusch-cms/internal/proxy"
	"github.com/dmitrijs2005/partusch-cms/internal/proxy/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := proxy.NewApp(cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
