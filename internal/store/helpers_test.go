package store

import (
	"reflect"
	"testing"
)

func TestListRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		joined string
	}{
		{"empty", nil, ""},
		{"single", []string{"serums"}, "serums"},
		{"multiple", []string{"serums", "droge huid"}, "serums|droge huid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			joined := joinList(tt.values)
			if joined != tt.joined {
				t.Errorf("joinList(%v) = %q, want %q", tt.values, joined, tt.joined)
			}
			if got := splitList(joined); !reflect.DeepEqual(got, tt.values) {
				t.Errorf("splitList(%q) = %v, want %v", joined, got, tt.values)
			}
		})
	}
}

func TestIDListRoundTrip(t *testing.T) {
	ids := []int64{7, 3, 12}
	formatted := formatIDList(ids)
	if formatted != "7,3,12" {
		t.Errorf("formatIDList = %q, want %q", formatted, "7,3,12")
	}

	parsed, err := parseIDList(formatted)
	if err != nil {
		t.Fatalf("parseIDList failed: %v", err)
	}
	if !reflect.DeepEqual(parsed, ids) {
		t.Errorf("parseIDList = %v, want %v", parsed, ids)
	}

	empty, err := parseIDList("")
	if err != nil || empty != nil {
		t.Errorf("parseIDList(\"\") = %v, %v; want nil, nil", empty, err)
	}

	if _, err := parseIDList("7,abc"); err == nil {
		t.Error("parseIDList accepted a non-numeric id")
	}
}

func TestBoolToInt(t *testing.T) {
	if boolToInt(true) != 1 || boolToInt(false) != 0 {
		t.Error("boolToInt mapping wrong")
	}
}
