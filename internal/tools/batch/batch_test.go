package batch

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestParseIDOrArray(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		paramName string
		want      []int64
		wantErr   bool
	}{
		{
			name:      "single number",
			input:     float64(42),
			paramName: "task_ids",
			want:      []int64{42},
			wantErr:   false,
		},
		{
			name:      "array of numbers",
			input:     []interface{}{float64(1), float64(2), float64(3)},
			paramName: "task_ids",
			want:      []int64{1, 2, 3},
			wantErr:   false,
		},
		{
			name:      "nil input",
			input:     nil,
			paramName: "task_ids",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "empty array",
			input:     []interface{}{},
			paramName: "task_ids",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "array with non-number",
			input:     []interface{}{float64(1), "2", float64(3)},
			paramName: "task_ids",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "fractional number",
			input:     42.5,
			paramName: "task_ids",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "zero ID",
			input:     float64(0),
			paramName: "task_ids",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "negative ID in array",
			input:     []interface{}{float64(1), float64(-2)},
			paramName: "task_ids",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "string input",
			input:     "42",
			paramName: "task_ids",
			want:      nil,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIDOrArray(tt.input, tt.paramName)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseIDOrArray() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Errorf("ParseIDOrArray() = %v, want %v", got, tt.want)
				return
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseIDOrArray()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestProcessBatch(t *testing.T) {
	ids := []int64{10, 20, 30}

	results := ProcessBatch(ids, func(id int64) (string, error) {
		if id == 20 {
			return "", errors.New("task not found")
		}
		return fmt.Sprintf("completed task %d", id), nil
	})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	if results[0].Status != "success" {
		t.Errorf("expected first result success, got %s", results[0].Status)
	}
	if results[0].Result != "completed task 10" {
		t.Errorf("unexpected first result message: %s", results[0].Result)
	}
	if results[1].Status != "error" {
		t.Errorf("expected second result error, got %s", results[1].Status)
	}
	if results[1].Error != "task not found" {
		t.Errorf("unexpected second result error: %s", results[1].Error)
	}
	if results[2].Status != "success" {
		t.Errorf("expected third result success, got %s", results[2].Status)
	}
}

func TestProcessBatch_ContinuesAfterFailure(t *testing.T) {
	calls := 0
	results := ProcessBatch([]int64{1, 2, 3}, func(id int64) (string, error) {
		calls++
		return "", errors.New("boom")
	})

	if calls != 3 {
		t.Errorf("expected all 3 items processed, got %d", calls)
	}
	for i, r := range results {
		if r.Status != "error" {
			t.Errorf("result[%d] expected error status, got %s", i, r.Status)
		}
	}
}

func TestFormatResults(t *testing.T) {
	results := []Result{
		NewSuccessResult(1, "done"),
		NewErrorResult(2, errors.New("forbidden")),
		NewSuccessResult(3, "done"),
	}

	formatted := FormatResults(results)

	var br BatchResult
	if err := json.Unmarshal([]byte(formatted), &br); err != nil {
		t.Fatalf("FormatResults produced invalid JSON: %v", err)
	}

	if br.Total != 3 {
		t.Errorf("expected total 3, got %d", br.Total)
	}
	if br.Successful != 2 {
		t.Errorf("expected 2 successful, got %d", br.Successful)
	}
	if br.Failed != 1 {
		t.Errorf("expected 1 failed, got %d", br.Failed)
	}
	if br.Results[1].Error != "forbidden" {
		t.Errorf("unexpected error message: %s", br.Results[1].Error)
	}
}

func TestFormatResults_Empty(t *testing.T) {
	formatted := FormatResults(nil)

	var br BatchResult
	if err := json.Unmarshal([]byte(formatted), &br); err != nil {
		t.Fatalf("FormatResults produced invalid JSON: %v", err)
	}
	if br.Total != 0 || br.Successful != 0 || br.Failed != 0 {
		t.Errorf("expected empty batch, got %+v", br)
	}
}
