package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/levenlabs/go-lflag"

	"github.com/zeronethomes/znecalc/pkg/log"
	"github.com/zeronethomes/znecalc/pkg/model"
	"github.com/zeronethomes/znecalc/pkg/params"
	"github.com/zeronethomes/znecalc/pkg/storage"
	"github.com/zeronethomes/znecalc/pkg/types"
)

func main() {
	s := storage.Configured()
	files := lflag.String("file", "", "comma-delimited list of parameter table files to seed instead of the reference table")
	lflag.Configure()

	level, err := log.LevelFromLLog()
	if err != nil {
		panic(err)
	}
	log.SetDefaultLogLevel(level)

	ctx := context.Background()
	defer s.Close()

	tables := []types.ParameterTable{types.DefaultParameterTable()}
	if *files != "" {
		tables = tables[:0]
		for _, path := range strings.Split(*files, ",") {
			table, err := params.LoadFile(strings.TrimSpace(path))
			if err != nil {
				log.Ctx(ctx).ErrorContext(ctx, "failed to load parameter file", slog.String("path", path), slog.Any("error", err))
				os.Exit(1)
			}
			tables = append(tables, table)
		}
	}

	log.Ctx(ctx).InfoContext(ctx, "seeding parameter tables", slog.Int("count", len(tables)))
	for _, table := range tables {
		// refuse to store a table no evaluation could use
		if _, err := model.Resolve(table); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "invalid parameter table", slog.String("table", table.Name), slog.Any("error", err))
			os.Exit(1)
		}
		if err := s.SetParameterTable(ctx, table); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to seed parameter table", slog.String("table", table.Name), slog.Any("error", err))
			os.Exit(1)
		}
		log.Ctx(ctx).InfoContext(ctx, "seeded parameter table", slog.String("table", table.Name), slog.Int("version", table.Version))
	}
}
