// Command compass serves the Financial GPS web app.
package main

import (
	"flag"
	"log"
	"strings"

	"github.com/xy-planning-network/compass/config"
	"github.com/xy-planning-network/compass/ranger"
)

func main() {
	envFiles := flag.String("env", ".env", "comma-separated env files to load")
	flag.Parse()

	cfg, err := config.Load(strings.Split(*envFiles, ",")...)
	if err != nil {
		log.Fatal(err)
	}

	rng, err := ranger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if err := rng.Guide(); err != nil {
		rng.EmitLogger().Fatal(err.Error(), nil)
	}
}
