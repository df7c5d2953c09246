package main

import (
	"context"
	"os"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"rate_desk/internal/adapters/observability"
	"rate_desk/internal/app"
	"rate_desk/internal/shared"
	"rate_desk/internal/storage/ratesheet"
)

const workers = 4

// ratecheck validates rate sheets before they are dropped in place:
//
//	ratecheck [path ...]
//
// With no arguments it checks RATES_PATH. Exits 1 if any sheet is unusable.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	paths := os.Args[1:]
	if len(paths) == 0 {
		paths = []string{cfg.RatesPath}
	}

	src, err := ratesheet.New(cfg.RatesEncoding, cfg.RatesDelimiter)
	if err != nil {
		log.Fatal().Err(err).Str("encoding", cfg.RatesEncoding).Msg("rate sheet loader init failed")
	}

	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	var failed atomic.Int32

	for _, p := range paths {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			defer sem.Release(1)

			t, err := src.Load(path)
			if err != nil {
				failed.Add(1)
				log.Error().Str("path", path).Err(err).Msg("rate sheet rejected")
				return
			}
			cities := app.PrimaryValues(t)
			hotels := 0
			for _, c := range cities {
				hotels += len(app.SecondaryValues(t, c))
			}
			log.Info().
				Str("path", path).
				Int("rows", len(t.Rows)).
				Int("cities", len(cities)).
				Int("hotels", hotels).
				Strs("columns", t.Columns).
				Msg("rate sheet ok")
		}(p)
	}

	wg.Wait()
	if n := failed.Load(); n > 0 {
		log.Error().Int32("failed", n).Int("checked", len(paths)).Msg("rate check failed")
		os.Exit(1)
	}
	log.Info().Int("checked", len(paths)).Msg("rate check completed")
}
