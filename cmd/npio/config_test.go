package main

import (
	"testing"

	"github.com/samcharles93/npio/pkg/npy"
)

func TestHeaderLimitFrom(t *testing.T) {
	t.Parallel()

	limit := 1024
	cfg := Config{HeaderLimit: &limit}

	if got := headerLimitFrom(cfg, false, npy.DefaultHeaderLimit); got != 1024 {
		t.Fatalf("config value ignored: got %d", got)
	}
	if got := headerLimitFrom(cfg, true, 99); got != 99 {
		t.Fatalf("explicit flag should win: got %d", got)
	}
	if got := headerLimitFrom(Config{}, false, npy.DefaultHeaderLimit); got != npy.DefaultHeaderLimit {
		t.Fatalf("empty config should fall back to flag default: got %d", got)
	}
}

func TestTargetOrder(t *testing.T) {
	t.Parallel()

	cases := []struct {
		order   string
		current bool
		want    bool
	}{
		{"little", false, true},
		{"big", true, false},
		{"swap", true, false},
		{"swap", false, true},
		{"host", false, npy.HostLittleEndian()},
	}
	for _, tc := range cases {
		got, err := targetOrder(tc.order, tc.current)
		if err != nil {
			t.Fatalf("targetOrder(%q, %v): %v", tc.order, tc.current, err)
		}
		if got != tc.want {
			t.Fatalf("targetOrder(%q, %v) = %v, want %v", tc.order, tc.current, got, tc.want)
		}
	}

	if _, err := targetOrder("pdp11", false); err == nil {
		t.Fatal("expected error for unknown byte order")
	}
}

func TestFormatShape(t *testing.T) {
	t.Parallel()

	if got := formatShape(nil); got != "() scalar" {
		t.Fatalf("scalar: got %q", got)
	}
	if got := formatShape([]int{5}); got != "(5)" {
		t.Fatalf("vector: got %q", got)
	}
	if got := formatShape([]int{2, 3, 4}); got != "(2, 3, 4)" {
		t.Fatalf("3-d: got %q", got)
	}
}
