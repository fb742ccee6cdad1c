package server

import (
	"net/http/httptest"
	"testing"
)

func TestApproveUserInvalidID(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"non numeric", "abc"},
		{"zero", "0"},
		{"negative", "-4"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/users/"+tt.id+"/approve", nil)
			r.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()

			approveUser(w, r)

			if w.Code != 400 {
				t.Fatalf("approveUser with id %q returned status %d, want 400", tt.id, w.Code)
			}
		})
	}
}
