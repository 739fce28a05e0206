// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

import (
	"html/template"
	"testing"
	"time"
)

func TestTemplateFuncs_FormatFunctions(t *testing.T) {
	funcs := TemplateFuncs()

	formatDate := funcs["formatDate"].(func(time.Time) string)
	testTime := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	if got := formatDate(testTime); got != "Mar 15, 2025" {
		t.Errorf("formatDate() = %q, want %q", got, "Mar 15, 2025")
	}

	formatDateTime := funcs["formatDateTime"].(func(time.Time) string)
	testTime = time.Date(2025, time.March, 15, 14, 30, 0, 0, time.UTC)
	if got := formatDateTime(testTime); got != "Mar 15, 2025 2:30 PM" {
		t.Errorf("formatDateTime() = %q, want %q", got, "Mar 15, 2025 2:30 PM")
	}
}

func TestTemplateFuncs_StringFunctions(t *testing.T) {
	funcs := TemplateFuncs()

	truncate := funcs["truncate"].(func(string, int) string)
	tests := []struct {
		input    string
		length   int
		expected string
	}{
		{"hello world", 5, "hello..."},
		{"hello", 5, "hello"},
		{"hello", 10, "hello"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.input, tt.length); got != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.expected)
		}
	}

	contains := funcs["contains"].(func(any, any) bool)
	if !contains([]string{"a", "b"}, "b") {
		t.Error("contains should find element in slice")
	}
	if contains([]string{"a", "b"}, "c") {
		t.Error("contains should not find missing element")
	}
	if !contains("hello world", "world") {
		t.Error("contains should find substring")
	}
}

func TestTemplateFuncs_MathFunctions(t *testing.T) {
	funcs := TemplateFuncs()

	add := funcs["add"].(func(int, int) int)
	sub := funcs["sub"].(func(int, int) int)
	if got := add(2, 3); got != 5 {
		t.Errorf("add(2, 3) = %d", got)
	}
	if got := sub(5, 3); got != 2 {
		t.Errorf("sub(5, 3) = %d", got)
	}

	seq := funcs["seq"].(func(int, int) []int)
	if got := seq(1, 3); len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("seq(1, 3) = %v", got)
	}
	if got := seq(3, 1); got != nil {
		t.Errorf("seq(3, 1) = %v, want nil", got)
	}
}

func TestTemplateFuncs_FormatNumber(t *testing.T) {
	funcs := TemplateFuncs()
	formatNumber := funcs["formatNumber"].(func(int64) string)

	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		if got := formatNumber(tt.input); got != tt.expected {
			t.Errorf("formatNumber(%d) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestTemplateFuncs_Safe(t *testing.T) {
	funcs := TemplateFuncs()

	safe := funcs["safe"].(func(string) template.HTML)
	if got := safe("<b>x</b>"); got != template.HTML("<b>x</b>") {
		t.Errorf("safe() = %q", got)
	}
}

func TestTemplateFuncs_Dict(t *testing.T) {
	funcs := TemplateFuncs()
	dict := funcs["dict"].(func(...any) map[string]any)

	d := dict("a", 1, "b", "two")
	if d["a"] != 1 || d["b"] != "two" {
		t.Errorf("dict() = %v", d)
	}
	if got := dict("a"); got != nil {
		t.Errorf("dict with odd args = %v, want nil", got)
	}
}
