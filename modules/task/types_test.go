package task

import (
	"encoding/json"
	"testing"
)

func TestOptional_WireSemantics(t *testing.T) {
	var req UpdateTaskRequest
	payload := `{"task_id":"t1","description":null,"project_id":"p1"}`
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if !req.Description.Set || req.Description.Value != nil {
		t.Errorf("explicit null: Set=%v Value=%v, want set and nil", req.Description.Set, req.Description.Value)
	}
	if !req.ProjectID.Set || req.ProjectID.Value == nil || *req.ProjectID.Value != "p1" {
		t.Errorf("value: got %+v, want p1", req.ProjectID)
	}
	if req.Title != nil {
		t.Errorf("absent field should stay nil, got %v", req.Title)
	}

	// Unset fields must not reappear on the wire as null.
	out, err := json.Marshal(UpdateTaskRequest{TaskID: "t1", ProjectID: Null[string]()})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Unmarshal(round trip) error = %v", err)
	}
	if _, ok := decoded["description"]; ok {
		t.Error("unset description should be omitted")
	}
	if raw, ok := decoded["project_id"]; !ok || string(raw) != "null" {
		t.Errorf("explicit null project_id should survive marshaling, got %q", raw)
	}
}
