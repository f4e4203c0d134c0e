package response

import (
	"encoding/json"
	"testing"
)

func TestOK(t *testing.T) {
	resp := OK(map[string]string{"name": "test"})

	if !resp.Success {
		t.Error("Expected success to be true")
	}
	if resp.Data == nil {
		t.Error("Expected data to be set")
	}
	if resp.Message != "" {
		t.Error("Expected message to be empty")
	}
}

func TestOK_JSONFormat(t *testing.T) {
	resp := OK(map[string]string{"id": "123"})

	jsonBytes, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Failed to marshal response: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &parsed); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if parsed["success"] != true {
		t.Errorf("Expected success=true, got %v", parsed["success"])
	}
	if _, ok := parsed["message"]; ok {
		t.Error("Expected message field to be omitted")
	}
	if _, ok := parsed["errors"]; ok {
		t.Error("Expected errors field to be omitted")
	}
}

func TestError(t *testing.T) {
	resp := Error("something went wrong")

	if resp.Success {
		t.Error("Expected success to be false")
	}
	if resp.Message != "something went wrong" {
		t.Errorf("Unexpected message: %s", resp.Message)
	}
	if resp.Data != nil {
		t.Error("Expected data to be nil")
	}
}

func TestValidationError(t *testing.T) {
	resp := ValidationError("validation failed", []string{"title is required"})

	if resp.Success {
		t.Error("Expected success to be false")
	}
	if len(resp.Errors) != 1 {
		t.Fatalf("Expected 1 error, got %d", len(resp.Errors))
	}
	if resp.Errors[0] != "title is required" {
		t.Errorf("Unexpected error entry: %s", resp.Errors[0])
	}
}

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		total      int64
		totalPages int
	}{
		{"exact division", 1, 10, 100, 10},
		{"with remainder", 1, 10, 101, 11},
		{"empty", 1, 10, 0, 0},
		{"single page", 1, 20, 7, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := NewMeta(tt.page, tt.limit, tt.total)
			if meta.TotalPages != tt.totalPages {
				t.Errorf("Expected %d total pages, got %d", tt.totalPages, meta.TotalPages)
			}
			if meta.Total != tt.total {
				t.Errorf("Expected total %d, got %d", tt.total, meta.Total)
			}
		})
	}
}
