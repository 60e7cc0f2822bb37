package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/juasmart/juasmart/pkg/log"
	"github.com/juasmart/juasmart/pkg/refdata"
	"github.com/juasmart/juasmart/pkg/storage"
	"github.com/levenlabs/go-lflag"
)

func main() {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		os.Setenv("FIRESTORE_EMULATOR_HOST", "127.0.0.1:8087")
	}
	s := storage.Configured()
	lflag.Configure()

	ctx := context.Background()

	log.Ctx(ctx).InfoContext(ctx, "seeding reference data")

	files := refdata.DefaultFiles()
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := s.SetReferenceData(ctx, name, files[name]); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to seed reference file", "file", name, "error", err)
			os.Exit(1)
		}
		fmt.Printf("Seeded %s (%d bytes)\n", name, len(files[name]))
	}

	if err := s.Close(); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to close storage", "error", err)
		os.Exit(1)
	}

	log.Ctx(ctx).InfoContext(ctx, "seeded reference data successfully")
}
