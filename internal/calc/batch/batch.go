package batch

import (
	"errors"
	"fmt"

	ph "phlab/internal/calc/ph"
)

// ErrNoItems is returned for an empty batch.
var ErrNoItems = errors.New("no items")

type Input struct {
	Items []ph.Input `json:"items"`
}

type Result struct {
	Results []ph.Measurement `json:"results"`
}

// Calculate measures every item. The first failing item aborts the batch.
func Calculate(tables *ph.Tables, in Input) (Result, error) {
	if len(in.Items) == 0 {
		return Result{}, ErrNoItems
	}
	out := Result{Results: make([]ph.Measurement, 0, len(in.Items))}
	for i, item := range in.Items {
		sel, err := tables.Select(item.Solute, item.Concentration)
		if err != nil {
			return Result{}, fmt.Errorf("item %d: %w", i, err)
		}
		res, err := ph.Measure(sel)
		if err != nil {
			return Result{}, fmt.Errorf("item %d: %w", i, err)
		}
		out.Results = append(out.Results, res)
	}
	return out, nil
}
