package config

import (
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "go duration", input: "5s", want: 5 * time.Second},
		{name: "compound go duration", input: "1h30m", want: 90 * time.Minute},
		{name: "days", input: "2d", want: 48 * time.Hour},
		{name: "days and hours", input: "1d6h", want: 30 * time.Hour},
		{name: "garbage", input: "soon", wantErr: true},
		{name: "trailing garbage", input: "5sX", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDuration(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseDuration(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
