package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"vegcheck/internal/domain/entity"
	"vegcheck/internal/domain/port"
)

// Каталоги классов обучающей выборки: английские имена и исходные bersih/kotor.
var classDirs = map[string]entity.Label{
	"clean":  entity.LabelClean,
	"bersih": entity.LabelClean,
	"dirty":  entity.LabelDirty,
	"kotor":  entity.LabelDirty,
}

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// DatasetItem файл изображения с меткой класса.
type DatasetItem struct {
	Path  string
	Label entity.Label
}

// DatasetRow признаки одного изображения выборки.
type DatasetRow struct {
	DatasetItem
	Index    int // индекс класса в entity.Labels
	Features entity.FeatureVector
}

// DatasetSkip изображение, для которого признаки не посчитались.
type DatasetSkip struct {
	Path string
	Err  error
}

// DatasetReport итог выгрузки признаков, строки отсортированы по пути.
type DatasetReport struct {
	Rows    []DatasetRow
	Skipped []DatasetSkip
}

// ClassCounts число строк каждого класса.
func (r *DatasetReport) ClassCounts() map[entity.Label]int {
	out := make(map[entity.Label]int, len(entity.Labels))
	for _, row := range r.Rows {
		out[row.Label]++
	}
	return out
}

// DatasetService считает признаки для папок выборки root/<класс>/*.jpg.
type DatasetService struct {
	decoder   port.ImageDecoder
	extractor *FeatureExtractor
}

// NewDatasetService создаёт сервис выгрузки.
func NewDatasetService(decoder port.ImageDecoder, extractor *FeatureExtractor) *DatasetService {
	return &DatasetService{decoder: decoder, extractor: extractor}
}

// Collect находит изображения в подкаталогах классов. Отсутствующий каталог класса не ошибка.
func (s *DatasetService) Collect(root string) ([]DatasetItem, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read dataset root: %w", err)
	}

	var items []DatasetItem
	for _, dir := range entries {
		label, ok := classDirs[strings.ToLower(dir.Name())]
		if !dir.IsDir() || !ok {
			continue
		}
		files, err := os.ReadDir(filepath.Join(root, dir.Name()))
		if err != nil {
			return nil, fmt.Errorf("read class dir %s: %w", dir.Name(), err)
		}
		for _, f := range files {
			if f.IsDir() || !imageExts[strings.ToLower(filepath.Ext(f.Name()))] {
				continue
			}
			items = append(items, DatasetItem{Path: filepath.Join(root, dir.Name(), f.Name()), Label: label})
		}
	}
	slices.SortFunc(items, func(a, b DatasetItem) int { return strings.Compare(a.Path, b.Path) })
	return items, nil
}

// Extract считает признаки всех изображений выборки в workers горутинах.
func (s *DatasetService) Extract(ctx context.Context, root string, workers int) (*DatasetReport, error) {
	items, err := s.Collect(root)
	if err != nil {
		return nil, err
	}
	return s.ExtractItems(ctx, items, workers)
}

// ExtractItems считает признаки для готового списка файлов.
func (s *DatasetService) ExtractItems(ctx context.Context, items []DatasetItem, workers int) (*DatasetReport, error) {
	workers = max(1, workers)

	jobs := make(chan DatasetItem)
	var (
		mu     sync.Mutex
		report DatasetReport
		wg     sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobs {
				row, err := s.extractOne(item)
				mu.Lock()
				if err != nil {
					report.Skipped = append(report.Skipped, DatasetSkip{Path: item.Path, Err: err})
				} else {
					report.Rows = append(report.Rows, row)
				}
				mu.Unlock()
			}
		}()
	}

	var ctxErr error
feed:
	for _, item := range items {
		if ctxErr = ctx.Err(); ctxErr != nil {
			break
		}
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break feed
		case jobs <- item:
		}
	}
	close(jobs)
	wg.Wait()
	if ctxErr != nil {
		return nil, ctxErr
	}

	slices.SortFunc(report.Rows, func(a, b DatasetRow) int { return strings.Compare(a.Path, b.Path) })
	slices.SortFunc(report.Skipped, func(a, b DatasetSkip) int { return strings.Compare(a.Path, b.Path) })
	return &report, nil
}

func (s *DatasetService) extractOne(item DatasetItem) (DatasetRow, error) {
	data, err := os.ReadFile(item.Path)
	if err != nil {
		return DatasetRow{}, err
	}
	img, err := s.decoder.Decode(data)
	if err != nil {
		return DatasetRow{}, err
	}
	vector, err := s.extractor.Extract(img)
	if err != nil {
		return DatasetRow{}, err
	}
	return DatasetRow{
		DatasetItem: item,
		Index:       slices.Index(entity.Labels, item.Label),
		Features:    vector,
	}, nil
}
