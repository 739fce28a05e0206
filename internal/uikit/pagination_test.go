// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

import (
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestBuildAdminPagination(t *testing.T) {
	p := BuildAdminPagination(2, 95, 10, "/dashboard/bookings", url.Values{"status": {"confirmed"}, "page": {"2"}})

	if p.TotalPages != 10 {
		t.Errorf("TotalPages = %d, want 10", p.TotalPages)
	}
	if !p.HasPrev || !p.HasNext {
		t.Error("page 2 of 10 should have prev and next")
	}
	if p.QueryString != "status=confirmed" {
		t.Errorf("QueryString = %q, want page param stripped", p.QueryString)
	}
	if got := p.NextURL(); got != "/dashboard/bookings?status=confirmed&page=3" {
		t.Errorf("NextURL() = %q", got)
	}
	if got := p.PageRange(); got != "11-20" {
		t.Errorf("PageRange() = %q, want 11-20", got)
	}
}

func TestBuildAdminPaginationSinglePage(t *testing.T) {
	p := BuildAdminPagination(1, 3, 10, "/dashboard/users", nil)
	if p.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1", p.TotalPages)
	}
	if p.ShouldShow() {
		t.Error("one page should not render pagination")
	}
	if got := p.PageRange(); got != "1-3" {
		t.Errorf("PageRange() = %q, want 1-3", got)
	}
}

func TestBuildPaginationPagesEllipsis(t *testing.T) {
	buildURL := func(page int) string { return "" }
	makePage := func(number int, _ string, isCurrent, isEllipsis bool) AdminPaginationPage {
		return AdminPaginationPage{Number: number, IsCurrent: isCurrent, IsEllipsis: isEllipsis}
	}

	// Middle of a long range: 1 ... 8 9 [10] 11 12 ... 20
	pages := BuildPaginationPages(10, 20, buildURL, makePage)
	var numbers []int
	ellipses := 0
	for _, pg := range pages {
		if pg.IsEllipsis {
			ellipses++
			continue
		}
		numbers = append(numbers, pg.Number)
	}
	want := []int{1, 8, 9, 10, 11, 12, 20}
	if len(numbers) != len(want) {
		t.Fatalf("page numbers = %v, want %v", numbers, want)
	}
	for i := range want {
		if numbers[i] != want[i] {
			t.Fatalf("page numbers = %v, want %v", numbers, want)
		}
	}
	if ellipses != 2 {
		t.Errorf("ellipses = %d, want 2", ellipses)
	}
}

func TestNormalizePagination(t *testing.T) {
	tests := []struct {
		page, totalItems, perPage int
		wantPage, wantTotal       int
	}{
		{1, 0, 10, 1, 1},
		{0, 50, 10, 1, 5},
		{99, 50, 10, 5, 5},
		{3, 50, 10, 3, 5},
	}
	for _, tt := range tests {
		gotPage, gotTotal := NormalizePagination(tt.page, tt.totalItems, tt.perPage)
		if gotPage != tt.wantPage || gotTotal != tt.wantTotal {
			t.Errorf("NormalizePagination(%d, %d, %d) = (%d, %d), want (%d, %d)",
				tt.page, tt.totalItems, tt.perPage, gotPage, gotTotal, tt.wantPage, tt.wantTotal)
		}
	}
}

func TestParsePageParam(t *testing.T) {
	tests := []struct {
		url  string
		want int
	}{
		{"/dashboard/bookings", 1},
		{"/dashboard/bookings?page=3", 3},
		{"/dashboard/bookings?page=abc", 1},
		{"/dashboard/bookings?page=-1", 1},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("GET", tt.url, nil)
		if got := ParsePageParam(req); got != tt.want {
			t.Errorf("ParsePageParam(%q) = %d, want %d", tt.url, got, tt.want)
		}
	}
}
