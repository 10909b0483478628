package export

import (
	"errors"
	"strings"
	"testing"
)

func TestBuildCSV(t *testing.T) {
	out, err := BuildCSV(
		[]string{"Name", "Amount (PKR)", "Balance After (USD)"},
		[][]string{
			{"Office rent", "28000", "100.00"},
			{"Fuel, generator", "5600", "80.00"},
		},
	)
	if err != nil {
		t.Fatalf("BuildCSV error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[0] != "Name,Amount (PKR),Balance After (USD)" {
		t.Errorf("header = %q", lines[0])
	}
	// A field containing a comma must be quoted.
	if lines[2] != `"Fuel, generator",5600,80.00` {
		t.Errorf("quoted row = %q", lines[2])
	}
}

func TestBuildCSV_EscapesQuotesAndNewlines(t *testing.T) {
	out, err := BuildCSV(
		[]string{"Name", "Note"},
		[][]string{{`The "big" one`, "line1\nline2"}},
	)
	if err != nil {
		t.Fatalf("BuildCSV error = %v", err)
	}

	got := string(out)
	if !strings.Contains(got, `"The ""big"" one"`) {
		t.Errorf("internal quotes not doubled: %q", got)
	}
	if !strings.Contains(got, "\"line1\nline2\"") {
		t.Errorf("newline field not quoted: %q", got)
	}
}

func TestBuildCSV_NoRecords(t *testing.T) {
	// Zero filtered records must not produce a file, empty or otherwise.
	out, err := BuildCSV([]string{"Name"}, nil)
	if !errors.Is(err, ErrNoRecords) {
		t.Fatalf("error = %v, want ErrNoRecords", err)
	}
	if out != nil {
		t.Errorf("output = %q, want nil", out)
	}
}
