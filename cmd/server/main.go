package main

import (
	"flag"
	"fmt"
	"log"

	"whisper-wpm-eval/internal/apigateway"
	"whisper-wpm-eval/internal/config"
	"whisper-wpm-eval/internal/coreengine/evaluationengine"
	"whisper-wpm-eval/internal/coreengine/vendoradapters"
	"whisper-wpm-eval/internal/dataset"
	"whisper-wpm-eval/internal/jobmanagement"
	"whisper-wpm-eval/internal/resultstore"
)

func main() {
	configPath := flag.String("config", "", "path to the configuration file (defaults apply when omitted)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Transcription.RequireAPIKey(); err != nil {
		log.Fatalf("%v", err)
	}

	datasetStore := dataset.NewStore(cfg.Dataset.Dir, cfg.Dataset.MetadataFile, cfg.Dataset.AudioDir)
	samples := dataset.NewSampleLibrary(cfg.Dataset.SamplesDir)
	results := resultstore.NewStore(cfg.Results.Dir)

	adapter, err := vendoradapters.GetASRAdapter(cfg.Transcription)
	if err != nil {
		log.Fatalf("Failed to initialize transcription adapter: %v", err)
	}

	engine := &evaluationengine.Engine{
		Dataset: datasetStore,
		Samples: samples,
		Audio:   &evaluationengine.LocalAudioSource{Dataset: datasetStore},
		Adapter: adapter,
	}

	jobs := jobmanagement.NewJobService(engine, results)

	router := apigateway.SetupRouter(apigateway.Deps{
		Dataset:   datasetStore,
		Results:   results,
		Jobs:      jobs,
		AuthToken: cfg.Server.AuthToken,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Bind, cfg.Server.Port)
	log.Printf("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
