package models

import (
	"testing"
	"time"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		total, limit, offset int
		wantHasMore          bool
	}{
		{25, 10, 0, true},
		{25, 10, 10, true},
		{25, 10, 20, false},
		{10, 10, 0, false},
		{0, 50, 0, false},
		{11, 10, 0, true},
	}

	for _, tt := range tests {
		got := NewPagination(tt.total, tt.limit, tt.offset)
		if got.HasMore != tt.wantHasMore {
			t.Errorf("NewPagination(%d, %d, %d).HasMore = %v, want %v",
				tt.total, tt.limit, tt.offset, got.HasMore, tt.wantHasMore)
		}
		if got.Total != tt.total || got.Limit != tt.limit || got.Offset != tt.offset {
			t.Errorf("NewPagination(%d, %d, %d) did not echo its inputs: %+v",
				tt.total, tt.limit, tt.offset, got)
		}
	}
}

func TestProfilePatchEmpty(t *testing.T) {
	if empty := (&ProfilePatch{}).Empty(); !empty {
		t.Error("zero-value patch should be empty")
	}

	name := "Ada"
	if empty := (&ProfilePatch{Name: &name}).Empty(); empty {
		t.Error("patch with a name should not be empty")
	}

	dob := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)
	if empty := (&ProfilePatch{DateOfBirth: &dob}).Empty(); empty {
		t.Error("patch with a date of birth should not be empty")
	}
}

func TestPreferencesPatchEmpty(t *testing.T) {
	if empty := (&PreferencesPatch{}).Empty(); !empty {
		t.Error("zero-value patch should be empty")
	}

	enabled := false
	if empty := (&PreferencesPatch{BiometricEnabled: &enabled}).Empty(); empty {
		t.Error("explicit false is a present field, not an empty patch")
	}
}
