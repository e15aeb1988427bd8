package popfilter

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeTestFile(t *testing.T, name, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestLoadKeepIDs(t *testing.T) {
	path := writeTestFile(t, "EUR.keep", "F1 S1\nF2\tS2\n\n  F3   S3  extra\nlonely\nF1 S1\nF2b S2\n")

	for _, v := range []struct {
		Column   int
		Expected []string
	}{
		{KeepIID, []string{"S1", "S2", "S3"}},
		{KeepFID, []string{"F1", "F2", "F2b", "F3", "lonely"}},
		{2, []string{"extra"}},
	} {
		ids, err := LoadKeepIDs(context.Background(), path, v.Column, nil)
		if err != nil {
			t.Fatal(err)
		}

		if got := ids.Sorted(); !reflect.DeepEqual(got, v.Expected) {
			t.Errorf("Column %d: got %v, expected %v", v.Column, got, v.Expected)
		}
	}
}

func TestLoadKeepIDsMissingFile(t *testing.T) {
	_, err := LoadKeepIDs(context.Background(), filepath.Join(t.TempDir(), "nope.keep"), KeepIID, nil)
	if err == nil {
		t.Error("Expected an error for a missing keep file")
	}
}

func TestKeepListRows(t *testing.T) {
	path := writeTestFile(t, "EUR.keep", "F1 S1\nbad\nF2 S2\n")

	keep, err := OpenKeepList(context.Background(), path, KeepIID, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer keep.Close()

	var rows []KeepRow
	for row := keep.Read(); row != nil; row = keep.Read() {
		rows = append(rows, *row)
	}
	if err := keep.Err(); err != nil {
		t.Fatal(err)
	}

	expected := []KeepRow{{FID: "F1", IID: "S1"}, {FID: "F2", IID: "S2"}}
	if !reflect.DeepEqual(rows, expected) {
		t.Errorf("Got %+v, expected %+v", rows, expected)
	}
}

func TestIDSet(t *testing.T) {
	ids := NewIDSet("b", "a", "b")

	if ids.Len() != 2 {
		t.Errorf("Expected 2 members, got %d", ids.Len())
	}
	if !ids.Contains("a") || ids.Contains("A") || ids.Contains(" a") {
		t.Error("Membership must be exact string equality")
	}
}

func TestLoadWithdrawnIDs(t *testing.T) {
	path := writeTestFile(t, "w20220222.csv", "1001\n\n1002\n1001\n")

	withdrawn, err := LoadWithdrawnIDs(context.Background(), path, nil)
	if err != nil {
		t.Fatal(err)
	}

	if got, expected := withdrawn.Sorted(), []string{"1001", "1002"}; !reflect.DeepEqual(got, expected) {
		t.Errorf("Got %v, expected %v", got, expected)
	}

	ids := NewIDSet("1000", "1001")
	if removed := ids.Remove(withdrawn); removed != 1 || ids.Len() != 1 || !ids.Contains("1000") {
		t.Errorf("Remove: removed %d, left %v", removed, ids.Sorted())
	}
}
