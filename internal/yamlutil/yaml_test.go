package yamlutil_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-trello2pdf/internal/yamlutil"
)

type cardConfig struct {
	Font   string `yaml:"font"`
	Engine string `yaml:"engine"`
	KeepMD bool   `yaml:"keepMarkdown"`
}

func TestDecodeStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		wantAny bool
	}{
		{
			name: "valid document",
			data: []byte("font: TeX Gyre Termes\nengine: pandoc\nkeepMarkdown: true\n"),
			dest: &cardConfig{},
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &cardConfig{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("font: Arial"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
		{
			name:    "unknown key rejected",
			data:    []byte("fnot: Arial"),
			dest:    &cardConfig{},
			wantAny: true,
		},
		{
			name:    "malformed YAML",
			data:    []byte("font: [unclosed"),
			dest:    &cardConfig{},
			wantAny: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.DecodeStrict(tt.data, tt.dest)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if tt.wantAny {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.HasPrefix(err.Error(), "yamlutil:") {
					t.Errorf("error %q should carry yamlutil prefix", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			cfg := tt.dest.(*cardConfig)
			if cfg.Font != "TeX Gyre Termes" || cfg.Engine != "pandoc" || !cfg.KeepMD {
				t.Errorf("decoded %+v", cfg)
			}
		})
	}
}

func TestDecodeStrict_TooLarge(t *testing.T) {
	t.Parallel()

	data := []byte("font: " + strings.Repeat("a", yamlutil.MaxInputSize))
	err := yamlutil.DecodeStrict(data, &cardConfig{})
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("err = %v, want ErrInputTooLarge", err)
	}
}
