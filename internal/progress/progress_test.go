package progress

import "testing"

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{500, "500"},
		{1500, "1.50K"},
		{2_500_000, "2.50M"},
		{3_000_000_000, "3.00B"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.n); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestGetCPUCount(t *testing.T) {
	if GetCPUCount() < 1 {
		t.Error("GetCPUCount() returned < 1")
	}
}
