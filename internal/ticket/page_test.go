package ticket

import "testing"

func TestNewPage(t *testing.T) {
	cases := []struct {
		name      string
		req       PageRequest
		total     int64
		wantPages int
		wantLast  bool
	}{
		{"empty", PageRequest{Page: 0, Size: 20}, 0, 0, true},
		{"single partial page", PageRequest{Page: 0, Size: 20}, 5, 1, true},
		{"first of three", PageRequest{Page: 0, Size: 10}, 25, 3, false},
		{"exact last", PageRequest{Page: 2, Size: 10}, 30, 3, true},
		{"beyond end", PageRequest{Page: 7, Size: 10}, 30, 3, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPage[int](nil, tc.req, tc.total)
			if p.TotalPages != tc.wantPages || p.Last != tc.wantLast {
				t.Fatalf("got pages=%d last=%v, want pages=%d last=%v", p.TotalPages, p.Last, tc.wantPages, tc.wantLast)
			}
			if p.Content == nil {
				t.Fatal("content must serialize as an empty array")
			}
			if p.Page != tc.req.Page || p.Size != tc.req.Size || p.TotalElements != tc.total {
				t.Fatalf("metadata not carried: %+v", p)
			}
		})
	}
}
