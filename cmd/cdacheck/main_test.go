package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drfirst/go-clinicaldoc/internal/fhir/r5"
)

const message = `{"segments": [
  {"name": "MSH", "fields": ["|", "^~\\&", "GPSoft", "", "", "", "20260314093000", "", ["REF", "I12"], "MSG0001"]},
  {"name": "PID", "fields": ["", "", [["8003608166690503", "", "", "AUSHIC", "NI"]]]}
]}`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "referral.json")
	if err := os.WriteFile(path, []byte(message), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "", "validate", "--type", "EReferral", "--file", path)
	if !errors.Is(err, errInvalid) {
		t.Fatalf("err = %v, want errInvalid", err)
	}
	if !strings.HasPrefix(out, "INVALID EReferral") || !strings.Contains(out, "required") {
		t.Errorf("output = %q", out)
	}
}

func TestValidateJSONFromStdin(t *testing.T) {
	out, err := run(t, message, "validate", "--type", "EReferral", "--json")
	if !errors.Is(err, errInvalid) {
		t.Fatalf("err = %v, want errInvalid", err)
	}
	var o r5.OperationOutcome
	if err := json.Unmarshal([]byte(out), &o); err != nil {
		t.Fatalf("decode outcome: %v\n%s", err, out)
	}
	if !o.HasErrors() {
		t.Errorf("outcome has no errors: %+v", o)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{"missing type", message, []string{"validate"}},
		{"unknown type", message, []string{"validate", "--type", "Letter"}},
		{"missing file", "", []string{"validate", "--type", "EReferral", "--file", "/nonexistent/msg.json"}},
		{"not a message", `{"segments": []}`, []string{"validate", "--type", "EReferral"}},
		{"bad window", message, []string{"validate", "--type", "MedicinesView", "--from", "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.stdin, tt.args...)
			if err == nil || errors.Is(err, errInvalid) {
				t.Errorf("err = %v, want a usage or input error", err)
			}
		})
	}
}

func TestTypes(t *testing.T) {
	out, err := run(t, "", "types")
	if err != nil {
		t.Fatalf("types: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 31 {
		t.Errorf("lines = %d, want header plus 30 types", len(lines))
	}
	if !strings.Contains(out, "EReferral") || !strings.Contains(out, "ObservationView") {
		t.Errorf("output = %q", out)
	}
}
