package scpi

import (
	"bytes"
	"testing"
)

func TestDecodeBlockRoundTrip(t *testing.T) {
	payload := []byte{0x01, 0x7f, 0x80, 0xff}
	raw := EncodeBlock(payload)

	got, declared, err := DecodeBlock(raw)
	if err != nil {
		t.Fatal(err)
	}
	if declared != len(payload) {
		t.Errorf("declared = %d, want %d", declared, len(payload))
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("payload = %v, want %v", got, payload)
	}
}

func TestDecodeBlockShortPayload(t *testing.T) {
	// Header declares 100 bytes but only 90 arrived. The decoder must
	// hand back exactly the 90 available bytes.
	raw := append([]byte("#800000100"), make([]byte, 90)...)

	payload, declared, err := DecodeBlock(raw)
	if err != nil {
		t.Fatal(err)
	}
	if declared != 100 {
		t.Errorf("declared = %d, want 100", declared)
	}
	if len(payload) != 90 {
		t.Errorf("len(payload) = %d, want 90", len(payload))
	}
}

func TestDecodeBlockMissingHeader(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte("#80000"),
		[]byte("not a block"),
		[]byte("X800000004abcd"),
	}
	for _, raw := range cases {
		if _, _, err := DecodeBlock(raw); err == nil {
			t.Errorf("DecodeBlock(%q): expected error", raw)
		}
	}
}

func TestDecodeBlockBadCount(t *testing.T) {
	raw := []byte("#8abcdefghpayload")
	if _, _, err := DecodeBlock(raw); err == nil {
		t.Error("expected error for non-numeric byte count")
	}
}
