// Команда smoke классифицирует один снимок и печатает результат в JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"vegcheck/config"
	"vegcheck/internal/container"
	"vegcheck/internal/infrastructure/classifier"
	"vegcheck/internal/infrastructure/storage"
	"vegcheck/internal/infrastructure/vision"
)

type output struct {
	Path          string             `json:"path"`
	Backend       string             `json:"backend"`
	ColorMode     string             `json:"color_mode"`
	Label         string             `json:"label"`
	Confidence    float64            `json:"confidence"`
	Probabilities map[string]float64 `json:"probabilities"`
	Features      []float64          `json:"features"`
	Coverage      float64            `json:"coverage"`
}

func main() {
	var (
		modelPath = flag.String("model", "", "model file, overrides MODEL_PATH")
		colorMode = flag.String("color-mode", "", "strict or compat, overrides COLOR_MODE")
	)
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: smoke [-model path] [-color-mode mode] image")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(flag.Arg(0), *modelPath, *colorMode); err != nil {
		fmt.Fprintln(os.Stderr, "smoke:", err)
		os.Exit(1)
	}
}

func run(path, modelPath, colorMode string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if modelPath != "" {
		cfg.ModelPath = modelPath
	}
	if colorMode != "" {
		cfg.Pipeline.ColorMode = colorMode
	}
	opts, err := cfg.ExtractorOptions()
	if err != nil {
		return err
	}
	model, err := classifier.Load(cfg.ModelPath)
	if err != nil {
		return err
	}

	backend := vision.NewBackend()
	c, err := container.New(backend, model, storage.NewMemoryUserRepository(), opts)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	result, err := c.InspectionService.Inspect(context.Background(), data)
	if err != nil {
		return err
	}

	out := output{
		Path:          path,
		Backend:       backend.Name,
		ColorMode:     string(result.ColorMode),
		Label:         string(result.Prediction.Label),
		Confidence:    result.Prediction.Confidence(),
		Probabilities: make(map[string]float64),
		Features:      result.Features.Slice(),
		Coverage:      result.Coverage,
	}
	for _, p := range result.Prediction.Probabilities {
		out.Probabilities[string(p.Label)] = p.Probability
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
