// Команда features считает признаки для папок выборки и пишет их в CSV
// для обучения классификатора.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strconv"

	"github.com/sirupsen/logrus"

	"vegcheck/config"
	app "vegcheck/internal/application"
	"vegcheck/internal/container"
	"vegcheck/internal/domain/entity"
	"vegcheck/internal/infrastructure/storage"
	"vegcheck/internal/infrastructure/vision"
	"vegcheck/internal/logging"
)

func main() {
	var (
		root    = flag.String("data", "data", "dataset root with clean/ and dirty/ subdirectories")
		out     = flag.String("out", "features.csv", "output CSV path, - for stdout")
		workers = flag.Int("workers", runtime.NumCPU(), "parallel workers")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	opts, err := cfg.ExtractorOptions()
	if err != nil {
		logger.WithError(err).Fatal("Invalid pipeline options")
	}

	// Классификатор для выгрузки не нужен
	c, err := container.New(vision.NewBackend(), nil, storage.NewMemoryUserRepository(), opts)
	if err != nil {
		logger.WithError(err).Fatal("Failed to build pipeline")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := c.DatasetService.Extract(ctx, *root, *workers)
	if err != nil {
		logger.WithError(err).Fatal("Feature extraction failed")
	}
	for _, skip := range report.Skipped {
		logger.WithError(skip.Err).WithField("path", skip.Path).Warn("Image skipped")
	}

	w := io.Writer(os.Stdout)
	if *out != "-" {
		f, err := os.Create(*out)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create output")
		}
		defer f.Close()
		w = f
	}
	if err := writeCSV(w, report.Rows); err != nil {
		logger.WithError(err).Fatal("Failed to write CSV")
	}

	counts := report.ClassCounts()
	logger.WithFields(logrus.Fields{
		"rows":       len(report.Rows),
		"skipped":    len(report.Skipped),
		"clean":      counts[entity.LabelClean],
		"dirty":      counts[entity.LabelDirty],
		"color_mode": opts.ColorMode,
	}).Info("Features exported")
}

// writeCSV пишет заголовок из имён признаков, затем label и path.
func writeCSV(w io.Writer, rows []app.DatasetRow) error {
	cw := csv.NewWriter(w)
	header := append(append([]string{}, entity.FeatureNames[:]...), "label", "path")
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, len(header))
	for _, row := range rows {
		for i, v := range row.Features {
			record[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		record[entity.FeatureCount] = strconv.Itoa(row.Index)
		record[entity.FeatureCount+1] = row.Path
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
