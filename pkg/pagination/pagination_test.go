package pagination

import "testing"

func TestValidateClampsParams(t *testing.T) {
	tests := []struct {
		name        string
		page        int
		perPage     int
		wantPage    int
		wantPerPage int
	}{
		{"defaults kick in", 0, 0, 1, 15},
		{"negative page", -3, 20, 1, 20},
		{"per page over cap", 1, 500, 1, 100},
		{"valid passes through", 2, 50, 2, 50},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := &PaginationParams{Page: tc.page, PerPage: tc.perPage}
			p.Validate()
			if p.Page != tc.wantPage || p.PerPage != tc.wantPerPage {
				t.Errorf("got %d/%d, want %d/%d", p.Page, p.PerPage, tc.wantPage, tc.wantPerPage)
			}
		})
	}
}

func TestValidateWithMax(t *testing.T) {
	p := &PaginationParams{Page: 1, PerPage: 400}
	p.ValidateWithMax(500)
	if p.PerPage != 400 {
		t.Errorf("per page = %d, want 400", p.PerPage)
	}

	p.PerPage = 600
	p.ValidateWithMax(500)
	if p.PerPage != 500 {
		t.Errorf("per page = %d, want 500", p.PerPage)
	}
}

func TestOffset(t *testing.T) {
	p := &PaginationParams{Page: 3, PerPage: 15}
	if got := p.Offset(); got != 30 {
		t.Errorf("offset = %d, want 30", got)
	}
}

func TestNewPagination(t *testing.T) {
	meta := NewPagination(2, 10, 35)
	if meta.TotalPages != 4 {
		t.Errorf("total pages = %d, want 4", meta.TotalPages)
	}
	if !meta.HasNext || !meta.HasPrev {
		t.Errorf("has next/prev = %v/%v, want true/true", meta.HasNext, meta.HasPrev)
	}

	last := NewPagination(4, 10, 35)
	if last.HasNext {
		t.Error("last page must not have next")
	}
}
