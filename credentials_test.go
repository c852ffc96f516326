package trello2pdf

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewCredentials(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		key       string
		token     string
		wantKey   string
		wantToken string
	}{
		{"plain", "abc", "def", "abc", "def"},
		{"double quotes", `"abc"`, `"def"`, "abc", "def"},
		{"single quotes", `'abc'`, `'def'`, "abc", "def"},
		{"quote runs", `""'abc'""`, `'"def`, "abc", "def"},
		{"surrounding whitespace", "  abc\n", "\tdef ", "abc", "def"},
		{"inner quotes kept", `a"b`, `d'e`, `a"b`, `d'e`},
		{"empty", "", "", "", ""},
		{"only quotes", `""`, `''`, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := NewCredentials(tt.key, tt.token)
			if got.Key != tt.wantKey || got.Token != tt.wantToken {
				t.Errorf("NewCredentials(%q, %q) = %+v, want key %q token %q",
					tt.key, tt.token, got, tt.wantKey, tt.wantToken)
			}
		})
	}
}

func TestCredentials_Header(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		creds  Credentials
		want   string
		wantOK bool
	}{
		{
			name:   "both set",
			creds:  Credentials{Key: "k1", Token: "t1"},
			want:   `OAuth oauth_consumer_key="k1", oauth_token="t1"`,
			wantOK: true,
		},
		{"key only", Credentials{Key: "k1"}, "", false},
		{"token only", Credentials{Token: "t1"}, "", false},
		{"neither", Credentials{}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := tt.creds.Header()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Header() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCredentials_LogValue(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	logger.Info("run", "trello", Credentials{Key: "secretkey", Token: "secrettoken"})

	out := buf.String()
	if strings.Contains(out, "secretkey") || strings.Contains(out, "secrettoken") {
		t.Errorf("log leaked credentials: %s", out)
	}
	if !strings.Contains(out, "trello=complete") {
		t.Errorf("log = %q, want trello=complete", out)
	}

	tests := []struct {
		creds Credentials
		want  string
	}{
		{Credentials{Key: "k"}, "partial"},
		{Credentials{}, "none"},
	}
	for _, tt := range tests {
		if got := tt.creds.LogValue().String(); got != tt.want {
			t.Errorf("LogValue() = %q, want %q", got, tt.want)
		}
	}
}
