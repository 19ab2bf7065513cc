package core

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestWrapSource(t *testing.T) {
	tests := []struct {
		name  string
		label string
		input []byte
		want  string
	}{
		{
			name:  "plain UTF-8",
			input: []byte("id,name"),
			want:  "id,name",
		},
		{
			name:  "UTF-8 BOM stripped",
			input: append([]byte{0xEF, 0xBB, 0xBF}, "id,name"...),
			want:  "id,name",
		},
		{
			name:  "invalid byte replaced",
			input: []byte{'h', 'e', 0x80, 'l', 'o'},
			want:  "he�lo",
		},
		{
			name:  "UTF-16LE with BOM",
			input: []byte{0xFF, 0xFE, 'h', 0, 'i', 0},
			want:  "hi",
		},
		{
			name:  "windows-1252",
			label: "windows-1252",
			input: []byte{'J', 'o', 's', 0xE9},
			want:  "José",
		},
		{
			name:  "latin1 alias",
			label: "latin1",
			input: []byte{'M', 0xFC, 'l', 'l', 'e', 'r'},
			want:  "Müller",
		},
		{
			name:  "empty",
			input: []byte{},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := WrapSource(bytes.NewReader(tt.input), tt.label, 0)
			if err != nil {
				t.Fatalf("WrapSource() error = %v", err)
			}
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapSource_UnknownEncoding(t *testing.T) {
	if _, err := WrapSource(strings.NewReader(""), "klingon", 0); err == nil {
		t.Error("WrapSource() expected error for unknown encoding")
	}
}

func TestCountingReader(t *testing.T) {
	input := strings.Repeat("x", 1000)
	r := NewCountingReader(strings.NewReader(input), int64(len(input)))

	n, err := io.Copy(io.Discard, r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != int64(len(input)) || r.BytesRead != int64(len(input)) {
		t.Errorf("copied %d, BytesRead %d, want %d", n, r.BytesRead, len(input))
	}
}

func TestCountingReader_Limit(t *testing.T) {
	r := NewCountingReader(strings.NewReader(strings.Repeat("x", 100)), 10)

	_, err := io.ReadAll(r)
	if !errors.Is(err, errFileTooLarge) {
		t.Fatalf("error = %v, want errFileTooLarge", err)
	}
	if got := MapError(err).Code; got != "SRC002" {
		t.Errorf("MapError code = %q, want SRC002", got)
	}
}
