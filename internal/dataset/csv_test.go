package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCSVRoundTrip(t *testing.T) {
	samples := NewGenerator(42).Generate(25)
	path := filepath.Join(t.TempDir(), "sub", "dataset.csv")

	if err := WriteFile(path, samples); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(got) != len(samples) {
		t.Fatalf("expected %d rows, got %d", len(samples), len(got))
	}
	for i := range samples {
		want := samples[i]
		// RFC3339 drops sub-second precision.
		want.Timestamp = want.Timestamp.Truncate(time.Second)
		if got[i] != want {
			t.Fatalf("row %d round trip mismatch:\nwrote %+v\nread  %+v", i, want, got[i])
		}
	}
}

func TestReadFileRejectsBadHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("a,b,c\n1,2,3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadFile(path); err == nil {
		t.Fatal("expected header mismatch error")
	}
}

func TestReadFileRejectsMalformedRow(t *testing.T) {
	samples := NewGenerator(3).Generate(5)
	path := filepath.Join(t.TempDir(), "dataset.csv")
	if err := WriteFile(path, samples); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// Replace the third data row with one carrying the wrong field count.
	// The rows after it must not be silently dropped.
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	lines[3] = "bad,row"

	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadFile(path)
	if err == nil {
		t.Fatalf("expected error for malformed mid-file row, got %d rows", len(got))
	}
	if !strings.Contains(err.Error(), "line 4") {
		t.Errorf("error %q does not name the offending line", err)
	}
}

func TestReadFileRejectsBadField(t *testing.T) {
	samples := NewGenerator(1).Generate(1)
	path := filepath.Join(t.TempDir(), "dataset.csv")
	if err := WriteFile(path, samples); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// Corrupt the numeric plant_age_days field on the data row.
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) < 2 {
		t.Fatal("dataset file has no data rows")
	}
	fields := strings.Split(lines[1], ",")
	fields[3] = "not-a-number"
	lines[1] = strings.Join(fields, ",")

	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(path); err == nil {
		t.Fatal("expected parse error for corrupted field")
	}
}
