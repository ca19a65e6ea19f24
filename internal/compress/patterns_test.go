package compress

import (
	"strings"
	"testing"
)

func TestMaskLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{
			name: "ISO timestamp",
			line: "2024-01-15T10:30:00Z server started",
			want: "<*> server started",
		},
		{
			name: "ISO timestamp with fraction and offset",
			line: "at 2024-01-15T10:30:00.123+02:00 done",
			want: "at <*> done",
		},
		{
			name: "unix millisecond timestamp",
			line: "ts=1705312200000 flushed",
			want: "ts=<*> flushed",
		},
		{
			name: "unix second timestamp",
			line: "epoch 1705312200 reached",
			want: "epoch <*> reached",
		},
		{
			name: "UUID",
			line: "session 550e8400-e29b-41d4-a716-446655440000 created",
			want: "session <*> created",
		},
		{
			name: "IPv6 loopback",
			line: "listening on ::1 now",
			want: "listening on <*> now",
		},
		{
			name: "IPv6 full",
			line: "peer 2001:0db8:0000:0000:0000:0000:0000:0001 connected",
			want: "peer <*> connected",
		},
		{
			name: "IPv4",
			line: "Connection from 192.168.1.1 established",
			want: "Connection from <*> established",
		},
		{
			name: "hex identifier",
			line: "handle 0xDEADBEEF released",
			want: "handle <*> released",
		},
		{
			name: "long pure hex token",
			line: "digest deadbeefcafe matched",
			want: "digest <*> matched",
		},
		{
			name: "HDFS block id",
			line: "Received block blk_-1234567890123456789",
			want: "Received block <*>",
		},
		{
			name: "absolute path",
			line: "open /var/log/app.log denied",
			want: "open <*> denied",
		},
		{
			name: "URL before bare numbers",
			line: "GET https://example.com/items?page=2 took long",
			want: "GET <*> took long",
		},
		{
			name: "duration with unit",
			line: "query took 125ms total",
			want: "query took <*> total",
		},
		{
			name: "bare integer",
			line: "retried 3 times",
			want: "retried <*> times",
		},
		{
			name: "no variables",
			line: "cache warmed",
			want: "cache warmed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MaskLine(tt.line)
			if got != tt.want {
				t.Errorf("MaskLine(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestMaskLineIdempotent(t *testing.T) {
	lines := []string{
		"Connection from 192.168.1.1 established",
		"2024-01-15T10:30:00Z GET https://example.com/a 200 in 12ms",
		"block blk_-42 at /data/1/current id 0xFF",
		"peer ::1 and 10.0.0.1 and 550e8400-e29b-41d4-a716-446655440000",
	}
	for _, line := range lines {
		once := MaskLine(line)
		twice := MaskLine(once)
		if once != twice {
			t.Errorf("masking not idempotent: %q -> %q -> %q", line, once, twice)
		}
	}
}

func TestMaskCatalogueOrder(t *testing.T) {
	wantOrder := []string{
		"iso_timestamp", "unix_timestamp", "uuid", "ipv6", "ipv4",
		"hex_id", "long_hex", "block_id", "abs_path", "url",
		"duration", "number",
	}
	catalogue := MaskCatalogue()
	if len(catalogue) != len(wantOrder) {
		t.Fatalf("catalogue has %d patterns, want %d", len(catalogue), len(wantOrder))
	}
	for i, p := range catalogue {
		if p.Name != wantOrder[i] {
			t.Errorf("catalogue[%d] = %q, want %q", i, p.Name, wantOrder[i])
		}
	}
}

func TestCompilePatternsStableOrder(t *testing.T) {
	patterns, err := CompilePatterns(map[string]string{
		"zeta":  `z+`,
		"alpha": `a+`,
	})
	if err != nil {
		t.Fatalf("CompilePatterns() error = %v", err)
	}
	if len(patterns) != 2 || patterns[0].Name != "alpha" || patterns[1].Name != "zeta" {
		t.Errorf("patterns not ordered by name: %v, %v", patterns[0].Name, patterns[1].Name)
	}
}

func TestCompilePatternsInvalid(t *testing.T) {
	if _, err := CompilePatterns(map[string]string{"bad": `(`}); err == nil {
		t.Error("CompilePatterns() with invalid regex returned nil error")
	}
}

func TestLongDecimalRunsNotHex(t *testing.T) {
	// A long all-digit run must survive the hex step so the numeric
	// patterns (and the block-id pattern) see it intact.
	got := MaskLine("Received block blk_-1234567890123456789")
	if !strings.HasSuffix(strings.TrimSpace(got), Wildcard) {
		t.Errorf("block id not fully masked: %q", got)
	}
	if strings.Contains(got, "blk_") {
		t.Errorf("block prefix leaked into masked line: %q", got)
	}
}
