package pagination_test

import (
	"net/url"
	"testing"

	"github.com/JaimeStill/philatopia/pkg/pagination"
)

func TestConfig_Finalize(t *testing.T) {
	cfg := &pagination.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}
	if cfg.PageSize != 8 {
		t.Errorf("PageSize = %d, want 8", cfg.PageSize)
	}

	t.Setenv("TEST_PAGE_SIZE", "12")
	cfg = &pagination.Config{}
	if err := cfg.Finalize(&pagination.Env{PageSize: "TEST_PAGE_SIZE"}); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}
	if cfg.PageSize != 12 {
		t.Errorf("PageSize = %d, want 12 from env", cfg.PageSize)
	}

	t.Setenv("TEST_PAGE_SIZE", "-1")
	cfg = &pagination.Config{}
	if err := cfg.Finalize(&pagination.Env{PageSize: "TEST_PAGE_SIZE"}); err == nil {
		t.Error("Finalize() accepted negative page size")
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	cfg := pagination.Config{PageSize: 8}

	tests := []struct {
		query    string
		wantPage int
	}{
		{"", 1},
		{"page=2", 2},
		{"page=0", 1},
		{"page=-3", 1},
		{"page=abc", 1},
		{"page=40", 40},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			values, _ := url.ParseQuery(tt.query)
			req := pagination.PageRequestFromQuery(values, cfg)

			if req.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", req.Page, tt.wantPage)
			}
			if req.PageSize != 8 {
				t.Errorf("PageSize = %d, want 8", req.PageSize)
			}
		})
	}
}

func TestPageRequest_Offset(t *testing.T) {
	req := pagination.NewPageRequest(2, pagination.Config{PageSize: 8})
	if req.Offset() != 8 {
		t.Errorf("Offset() = %d, want 8", req.Offset())
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 8, 0},
		{1, 8, 1},
		{8, 8, 1},
		{9, 8, 2},
		{20, 8, 3},
		{16, 8, 2},
		{5, 0, 0},
	}

	for _, tt := range tests {
		if got := pagination.TotalPages(tt.total, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestNewPageResult(t *testing.T) {
	result := pagination.NewPageResult[string](nil, 0, 1, 8)

	if result.Data == nil || len(result.Data) != 0 {
		t.Errorf("Data = %v, want empty non-nil slice", result.Data)
	}
	if result.TotalPages != 0 {
		t.Errorf("TotalPages = %d, want 0", result.TotalPages)
	}

	result = pagination.NewPageResult([]string{"a", "b"}, 20, 3, 8)
	if result.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", result.TotalPages)
	}
}
