package server

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
)

func TestRequestRulesExplain(t *testing.T) {
	var target answerRequest
	typeErr := json.Unmarshal([]byte(`{"player_id":"p1","value":1e30}`), &target)
	if typeErr == nil {
		t.Fatal("expected overflowing value to fail decoding")
	}

	tests := []struct {
		name  string
		rules requestRules
		err   error
		want  string
	}{
		{"type mismatch", answerRules, typeErr, "value must be a whole number that fits in 64 bits"},
		{"empty body", answerRules, io.EOF, "request body is required"},
		{"fallback", answerRules, errors.New("boom"), "invalid answer"},
		{"no fallback", playerIDRules, errors.New("boom"), "invalid request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rules.explain(tt.err); got != tt.want {
				t.Fatalf("explain() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWireName(t *testing.T) {
	typ := reflect.TypeOf(struct {
		Body  string `json:"player_id,omitempty"`
		Query string `form:"player_id"`
		Path  string `uri:"gameID"`
		Plain string
	}{})
	want := []string{"player_id", "player_id", "gameID", "Plain"}
	for i, name := range want {
		if got := wireName(typ.Field(i)); got != name {
			t.Fatalf("field %d: got %q, want %q", i, got, name)
		}
	}
}

func TestCleanText(t *testing.T) {
	got, err := validateTitle("  How   many\tseasons? ")
	if err != nil || got != "How many seasons?" {
		t.Fatalf("validateTitle() = %q, %v", got, err)
	}
	if _, err := validateName("   "); err == nil || err.Error() != "name is required" {
		t.Fatalf("expected required error, got %v", err)
	}
	if _, err := validateName(strings.Repeat("a", maxNameLength+1)); err == nil {
		t.Fatal("expected long name to fail")
	}
	for _, bad := range []string{"Ben<script>", "Daxé", "semi|colon"} {
		if _, err := validateName(bad); err == nil || !strings.Contains(err.Error(), "unsupported") {
			t.Fatalf("expected %q to be rejected, got %v", bad, err)
		}
	}
}
