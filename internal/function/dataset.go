package function

import (
	"fmt"
	"log/slog"

	json "github.com/goccy/go-json"

	"github.com/angeloszaimis/trigger-functions/internal/metrics"
)

const DatasetName = "greet-dataset"

// Dataset is the small column-oriented table reported by the dataset function.
type Dataset struct {
	Name     []string `json:"name"`
	Location []string `json:"location"`
}

func DefaultDataset() Dataset {
	return Dataset{
		Name:     []string{"John", "Anna", "Peter", "Linda"},
		Location: []string{"New York", "Paris", "Berlin", "London"},
	}
}

func DatasetReport(ds Dataset) (string, error) {
	raw, err := json.Marshal(ds)
	if err != nil {
		return "", fmt.Errorf("encode dataset: %w", err)
	}

	return "hi! Data: " + string(raw), nil
}

func NewDataset(ds Dataset, opts Options, logger *slog.Logger, collector *metrics.Collector) *Function {
	return New(DatasetName, func() (string, error) {
		return DatasetReport(ds)
	}, opts, logger, collector)
}
