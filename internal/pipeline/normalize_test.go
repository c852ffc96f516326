package pipeline

import "testing"

func TestNormalizeInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain text untouched", "# Card\n\nBody", "# Card\n\nBody"},
		{"crlf", "a\r\nb\r\n", "a\nb\n"},
		{"lone cr untouched", "a\rb", "a\rb"},
		{"escaped blank line", `a\n\nb`, "a\n\nb"},
		{"escaped newline", `line1\nline2`, "line1\nline2"},
		{"escaped tab", `col1\tcol2`, "col1\tcol2"},
		{"mixed", "title\r\n" + `body\n- item\twith tab`, "title\nbody\n- item\twith tab"},
		{"image link untouched", "See [cat.png](http://x/cat.png)", "See [cat.png](http://x/cat.png)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeInput(tt.in); got != tt.want {
				t.Errorf("NormalizeInput(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeInput_Idempotent(t *testing.T) {
	t.Parallel()

	in := "a\r\n" + `b\nc\td`
	once := NormalizeInput(in)
	if twice := NormalizeInput(once); twice != once {
		t.Errorf("second pass changed output: %q -> %q", once, twice)
	}
}
