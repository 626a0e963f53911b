package pagination

import "testing"

func TestPageRequestDefaults(t *testing.T) {
	tests := []struct {
		name     string
		in       PageRequest
		page     int
		pageSize int
		offset   int
	}{
		{"zero values", PageRequest{}, 1, DefaultPageSize, 0},
		{"explicit", PageRequest{Page: 3, PageSize: 10}, 3, 10, 20},
		{"oversized page clamps", PageRequest{Page: 2, PageSize: 500}, 2, MaxPageSize, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.in
			req.Defaults()
			if req.Page != tt.page || req.PageSize != tt.pageSize {
				t.Errorf("Defaults() = %+v, want page %d size %d", req, tt.page, tt.pageSize)
			}
			if got := req.Offset(); got != tt.offset {
				t.Errorf("Offset() = %d, want %d", got, tt.offset)
			}
		})
	}
}

func TestPageRequestQuery(t *testing.T) {
	got := PageRequest{Page: 2, PageSize: 100}.Query().Encode()
	if got != "page=2&page_size=100" {
		t.Errorf("Query() = %q", got)
	}
}

func TestNewPageResponse(t *testing.T) {
	resp := NewPageResponse[int](nil, 1, 20, 0)
	if resp.Data == nil || resp.TotalPages != 0 || resp.HasMore() {
		t.Errorf("empty response = %+v", resp)
	}

	resp = NewPageResponse([]int{1, 2}, 1, 2, 3)
	if resp.TotalPages != 2 || !resp.HasMore() {
		t.Errorf("first of two pages = %+v", resp)
	}

	resp = NewPageResponse([]int{3}, 2, 2, 3)
	if resp.HasMore() {
		t.Errorf("last page reports more: %+v", resp)
	}
}
