package validation

import (
	"errors"
	"testing"
)

type testPayload struct {
	Username  string   `json:"username" validate:"required"`
	SessionID string   `json:"sessionId" validate:"required"`
	Accuracy  *float64 `json:"accuracy" validate:"required"`
}

func TestStruct(t *testing.T) {
	zero := 0.0

	tests := []struct {
		name       string
		payload    testPayload
		wantFields []string
	}{
		{
			name:    "valid payload",
			payload: testPayload{Username: "siuming", SessionID: "abc", Accuracy: &zero},
		},
		{
			name:       "one missing field",
			payload:    testPayload{Username: "siuming", Accuracy: &zero},
			wantFields: []string{"sessionId"},
		},
		{
			name:       "all fields missing",
			payload:    testPayload{},
			wantFields: []string{"username", "sessionId", "accuracy"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.payload)
			if tt.wantFields == nil {
				if err != nil {
					t.Fatalf("Struct() error = %v, want nil", err)
				}
				return
			}

			verr := AsError(err)
			if verr == nil {
				t.Fatalf("Struct() error = %v, want *Error", err)
			}
			if len(verr.Fields) != len(tt.wantFields) {
				t.Fatalf("fields = %v, want %v", verr.Fields, tt.wantFields)
			}
			for i, field := range verr.Fields {
				if field != tt.wantFields[i] {
					t.Errorf("field %d = %s, want %s", i, field, tt.wantFields[i])
				}
			}
		})
	}
}

func TestZeroAccuracyIsValid(t *testing.T) {
	zero := 0.0
	payload := testPayload{Username: "siuming", SessionID: "abc", Accuracy: &zero}
	if err := Struct(payload); err != nil {
		t.Errorf("zero accuracy should pass required check, got %v", err)
	}
}

func TestAsErrorNonValidation(t *testing.T) {
	if AsError(errors.New("plain")) != nil {
		t.Error("AsError should return nil for non-validation errors")
	}
}
