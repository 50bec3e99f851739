package secrets

import (
	"errors"
	"testing"

	lerrors "github.com/PolarWolf314/lockd/internal/errors"
)

func TestDecodeText(t *testing.T) {
	invalid := []byte{'o', 'k', 0xff, 0xfe}

	tests := []struct {
		name      string
		data      []byte
		mode      TextMode
		want      string
		wantLossy bool
		wantErr   error
	}{
		{"valid lossy", []byte("héllo"), TextLossy, "héllo", false, nil},
		{"valid strict", []byte("héllo"), TextStrict, "héllo", false, nil},
		{"empty", nil, TextStrict, "", false, nil},
		// Lossy mode drops the whole document; the flag is the only signal.
		{"invalid lossy", invalid, TextLossy, "", true, nil},
		{"invalid strict", invalid, TextStrict, "", false, lerrors.ErrInvalidText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, lossy, err := DecodeText(tt.data, tt.mode)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
			if lossy != tt.wantLossy {
				t.Errorf("Expected lossy=%t, got %t", tt.wantLossy, lossy)
			}
		})
	}
}
