package warehouse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mbta-delay-pipeline/models"
)

func sampleRecords(executionDate string, n int) []models.DelayRecord {
	direction := 1
	records := make([]models.DelayRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, models.DelayRecord{
			RouteID:       "CR-Fitchburg",
			RouteName:     "Fitchburg Line",
			TripID:        "trip-" + string(rune('a'+i)),
			Headsign:      "Wachusett",
			DirectionID:   &direction,
			Status:        "Delayed",
			DelaySeconds:  300,
			DelayMinutes:  5,
			DepartureTime: "2026-01-15T07:31:00-05:00",
			ExecutionDate: executionDate,
		})
	}
	return records
}

func TestWriteReadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clean.csv")
	want := sampleRecords("2026-01-15", 3)

	if err := WriteRecords(path, want); err != nil {
		t.Fatalf("WriteRecords failed: %v", err)
	}
	got, err := ReadRecords(path)
	if err != nil {
		t.Fatalf("ReadRecords failed: %v", err)
	}

	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].TripID != want[i].TripID {
			t.Errorf("record %d TripID = %q, want %q", i, got[i].TripID, want[i].TripID)
		}
		if got[i].DelaySeconds != want[i].DelaySeconds {
			t.Errorf("record %d DelaySeconds = %v, want %v", i, got[i].DelaySeconds, want[i].DelaySeconds)
		}
		if got[i].DirectionID == nil || *got[i].DirectionID != 1 {
			t.Errorf("record %d DirectionID = %v, want 1", i, got[i].DirectionID)
		}
	}
}

func TestWriteRecordsDeterministic(t *testing.T) {
	dir := t.TempDir()
	records := sampleRecords("2026-01-15", 4)

	pathA := filepath.Join(dir, "a.csv")
	pathB := filepath.Join(dir, "b.csv")
	if err := WriteRecords(pathA, records); err != nil {
		t.Fatalf("WriteRecords failed: %v", err)
	}
	if err := WriteRecords(pathB, records); err != nil {
		t.Fatalf("WriteRecords failed: %v", err)
	}

	a, _ := os.ReadFile(pathA)
	b, _ := os.ReadFile(pathB)
	if string(a) != string(b) {
		t.Error("two writes of the same records produced different bytes")
	}
}

func TestAppendCreatesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warehouse.csv")

	n, err := Append(path, sampleRecords("2026-01-15", 2))
	if err != nil {
		t.Fatalf("first Append failed: %v", err)
	}
	if n != 2 {
		t.Errorf("first Append = %d rows, want 2", n)
	}

	n, err = Append(path, sampleRecords("2026-01-16", 3))
	if err != nil {
		t.Fatalf("second Append failed: %v", err)
	}
	if n != 3 {
		t.Errorf("second Append = %d rows, want 3", n)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read warehouse: %v", err)
	}
	headerCount := strings.Count(string(raw), "route_id,route_name")
	if headerCount != 1 {
		t.Errorf("header appears %d times, want 1", headerCount)
	}

	count, err := Count(path)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 5 {
		t.Errorf("Count = %d, want 5 (sum of per-run loads)", count)
	}
}

func TestAppendEmptyRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warehouse.csv")

	if _, err := Append(path, sampleRecords("2026-01-15", 2)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	n, err := Append(path, nil)
	if err != nil {
		t.Fatalf("empty Append failed: %v", err)
	}
	if n != 0 {
		t.Errorf("empty Append = %d rows, want 0", n)
	}

	count, _ := Count(path)
	if count != 2 {
		t.Errorf("Count = %d, want 2 (monotonic, no shrink)", count)
	}
}

func TestCountMissingFile(t *testing.T) {
	count, err := Count(filepath.Join(t.TempDir(), "nope.csv"))
	if err != nil {
		t.Fatalf("Count on missing file: %v", err)
	}
	if count != 0 {
		t.Errorf("Count = %d, want 0", count)
	}
}

func TestRoutes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warehouse.csv")

	records := sampleRecords("2026-01-15", 2)
	records[1].RouteID = "CR-Lowell"
	if _, err := Append(path, records); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if _, err := Append(path, sampleRecords("2026-01-16", 1)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	routes, err := Routes(path)
	if err != nil {
		t.Fatalf("Routes failed: %v", err)
	}
	if len(routes) != 2 || routes[0] != "CR-Fitchburg" || routes[1] != "CR-Lowell" {
		t.Errorf("Routes = %v, want [CR-Fitchburg CR-Lowell]", routes)
	}
}

func TestWritePathErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-dir", "out.csv")

	if err := WriteRecords(missing, sampleRecords("2026-01-15", 1)); err == nil {
		t.Error("WriteRecords into a missing directory should fail")
	}
	if _, err := Append(missing, sampleRecords("2026-01-15", 1)); err == nil {
		t.Error("Append into a missing directory should fail")
	}

	// A successful write still closes cleanly and is immediately readable.
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteRecords(path, sampleRecords("2026-01-15", 2)); err != nil {
		t.Fatalf("WriteRecords failed: %v", err)
	}
	got, err := ReadRecords(path)
	if err != nil {
		t.Fatalf("ReadRecords failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d records, want 2", len(got))
	}
}
