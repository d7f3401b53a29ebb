package usecase

import (
	"errors"
	"testing"
)

func TestWrapStorage(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantNil bool
	}{
		{"nil error returns nil", nil, true},
		{"wraps with ErrStorage", errors.New("disk gone"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapStorage(tt.err)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				return
			}
			if !errors.Is(got, ErrStorage) {
				t.Fatalf("expected errors.Is(%v, ErrStorage)", got)
			}
			if got.Error() == tt.err.Error() {
				t.Fatalf("wrapped error should differ from original")
			}
		})
	}
}
