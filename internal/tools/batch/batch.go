package batch

import (
	"encoding/json"
	"fmt"
	"math"
)

// Result represents the result of a single operation in a batch
type Result struct {
	ID     int64  `json:"id"`
	Status string `json:"status"` // "success" or "error"
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// BatchResult represents the aggregated results of a batch operation
type BatchResult struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Results    []Result `json:"results"`
}

// ParseIDOrArray parses a parameter that can be either a single task ID
// or an array of task IDs. JSON numbers arrive as float64.
func ParseIDOrArray(param interface{}, paramName string) ([]int64, error) {
	if param == nil {
		return nil, fmt.Errorf("%s is required", paramName)
	}

	var result []int64

	switch v := param.(type) {
	case float64:
		id, err := toID(v, paramName)
		if err != nil {
			return nil, err
		}
		result = []int64{id}
	case []interface{}:
		if len(v) == 0 {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		for i, item := range v {
			f, ok := item.(float64)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a number", paramName, i)
			}
			id, err := toID(f, fmt.Sprintf("%s[%d]", paramName, i))
			if err != nil {
				return nil, err
			}
			result = append(result, id)
		}
	default:
		return nil, fmt.Errorf("%s must be a number or array of numbers", paramName)
	}

	return result, nil
}

func toID(f float64, name string) (int64, error) {
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	if f <= 0 {
		return 0, fmt.Errorf("%s must be positive", name)
	}
	return int64(f), nil
}

// FormatResults creates a formatted JSON string from batch results
func FormatResults(results []Result) string {
	br := BatchResult{
		Total:   len(results),
		Results: results,
	}

	for _, r := range results {
		if r.Status == "success" {
			br.Successful++
		} else {
			br.Failed++
		}
	}

	jsonBytes, _ := json.MarshalIndent(br, "", "  ")
	return string(jsonBytes)
}

// ProcessBatch executes a function on each task ID and collects results.
// fn should return (result string, error) for each ID. Failures do not
// stop the batch; each ID gets its own result entry.
func ProcessBatch(ids []int64, fn func(id int64) (string, error)) []Result {
	results := make([]Result, 0, len(ids))

	for _, id := range ids {
		result := Result{ID: id}
		res, err := fn(id)
		if err != nil {
			result.Status = "error"
			result.Error = err.Error()
		} else {
			result.Status = "success"
			result.Result = res
		}
		results = append(results, result)
	}

	return results
}

// NewSuccessResult creates a success result
func NewSuccessResult(id int64, message string) Result {
	return Result{
		ID:     id,
		Status: "success",
		Result: message,
	}
}

// NewErrorResult creates an error result
func NewErrorResult(id int64, err error) Result {
	return Result{
		ID:     id,
		Status: "error",
		Error:  err.Error(),
	}
}
