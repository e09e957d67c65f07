// internal/export/modbus/client_test.go
package modbus

import (
	"bytes"
	"errors"
	"testing"
)

func TestRegisterBytes_HighByteFirst(t *testing.T) {
	got, err := registerBytes([]uint16{0x0102, 0xBEEF})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{0x01, 0x02, 0xBE, 0xEF}
	if !bytes.Equal(got, want) {
		t.Fatalf("registerBytes: got=% X want=% X", got, want)
	}
}

func TestRegisterBytes_Count(t *testing.T) {
	if _, err := registerBytes(nil); !errors.Is(err, ErrRegisterCount) {
		t.Fatalf("empty write: got=%v want ErrRegisterCount", err)
	}
	if _, err := registerBytes(make([]uint16, MaxWriteRegisters+1)); !errors.Is(err, ErrRegisterCount) {
		t.Fatalf("oversized write: got=%v want ErrRegisterCount", err)
	}
	if _, err := registerBytes(make([]uint16, MaxWriteRegisters)); err != nil {
		t.Fatalf("max write rejected: %v", err)
	}
}

func TestDial_RequiresEndpoint(t *testing.T) {
	if _, err := Dial(Config{}); err == nil {
		t.Fatalf("expected error for empty endpoint")
	}
}
