package proto_test

import (
	"strings"
	"testing"

	"i4.energy/across/tbsim/proto"
)

func TestFramer(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		chunks   []string
		expected []string
		buffered int
	}{
		{
			name:     "Single complete line",
			chunks:   []string{"ID\r\n"},
			expected: []string{"ID\r\n"},
		},
		{
			name:     "Line split across reads",
			chunks:   []string{"GE", "T SER", "VO\r", "\n"},
			expected: []string{"GET SERVO\r\n"},
		},
		{
			name:     "Several lines in one read",
			chunks:   []string{"ID\r\nGET SERVO\nSET SERVO 1\r\n"},
			expected: []string{"ID\r\n", "GET SERVO\n", "SET SERVO 1\r\n"},
		},
		{
			name:     "Trailing partial line is kept",
			chunks:   []string{"ID\r\nGET"},
			expected: []string{"ID\r\n"},
			buffered: 3,
		},
		{
			name:     "Overflow flushes an incomplete line",
			size:     4,
			chunks:   []string{"ABCDEFG\n"},
			expected: []string{"ABCD", "EFG\n"},
		},
		{
			name:     "Overflow exactly at terminator",
			size:     4,
			chunks:   []string{"ID\r\n"},
			expected: []string{"ID\r\n"},
		},
		{
			name:     "Empty chunk",
			chunks:   []string{""},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := proto.NewFramer(tt.size)

			var lines []string
			for _, c := range tt.chunks {
				for _, l := range f.Feed([]byte(c)) {
					lines = append(lines, string(l))
				}
			}

			if len(lines) != len(tt.expected) {
				t.Fatalf("Expected %d lines, got %d.\nExpected: %q\nGot: %q",
					len(tt.expected), len(lines), tt.expected, lines)
			}
			for i, expected := range tt.expected {
				if lines[i] != expected {
					t.Errorf("Line %d: expected %q, got %q", i, expected, lines[i])
				}
			}
			if f.Buffered() != tt.buffered {
				t.Errorf("expected %d buffered bytes, got %d", tt.buffered, f.Buffered())
			}
		})
	}
}

func TestFramerReset(t *testing.T) {
	f := proto.NewFramer(0)
	if f.Size() != proto.DefaultFrameSize {
		t.Fatalf("expected default size %d, got %d", proto.DefaultFrameSize, f.Size())
	}

	if lines := f.Feed([]byte("SET SER")); len(lines) != 0 {
		t.Fatalf("expected no lines, got %q", lines)
	}

	// Peer went away mid line
	f.Reset()

	lines := f.Feed([]byte("ID\r\n"))
	if len(lines) != 1 || string(lines[0]) != "ID\r\n" {
		t.Fatalf("expected fragment to be discarded, got %q", lines)
	}
}

func TestFramerOverflowDecodesAsSyntaxError(t *testing.T) {
	f := proto.NewFramer(proto.DefaultFrameSize)
	long := strings.Repeat("A", proto.DefaultFrameSize)

	lines := f.Feed([]byte(long + "ID\r\n"))
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	if _, err := proto.Decode(lines[0]); err != proto.BadSyntax {
		t.Errorf("expected overflowed line to be BAD_SYNTAX, got %v", err)
	}
	req, err := proto.Decode(lines[1])
	if err != nil || req != proto.IDRequest() {
		t.Errorf("expected next line to start fresh, got %v, %v", req, err)
	}
}

func TestLinesAreCopies(t *testing.T) {
	f := proto.NewFramer(8)
	first := f.Feed([]byte("ID\n"))
	f.Feed([]byte("XY\n"))

	if string(first[0]) != "ID\n" {
		t.Errorf("earlier line was overwritten: %q", first[0])
	}
}
