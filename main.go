package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"retail-pricing/app"
	"retail-pricing/config"
)

func main() {
	batch := flag.Bool("batch", false, "run one prediction batch and exit")
	retrain := flag.Bool("retrain", false, "discard the persisted model artifact before the batch runs")
	seed := flag.String("seed", "", "path of a catalog seed YAML applied at startup")
	flag.Parse()

	// Load config from .env file
	cfg := config.LoadFromEnv()

	application := app.New(cfg)
	application.SeedPath = *seed

	if *batch {
		report, err := application.RunBatch(*retrain)
		if err != nil {
			log.Fatal(err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := application.Start(); err != nil {
		log.Fatal(err)
	}
}
