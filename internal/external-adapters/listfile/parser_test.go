package listfile

import (
	"errors"
	"testing"

	"github.com/ochairo/denyfilter/internal/domain/entities"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNames []string
		wantKeys  []entities.CompositeKey
		wantEmpty bool
	}{
		{
			name:      "single entry",
			input:     "bad.dll,AABBCCDD-EEFF-0011-2233-445566778899,1,0,0,0\n",
			wantNames: []string{"bad.dll"},
			wantKeys:  []entities.CompositeKey{"bad.dll,AABBCCDD-EEFF-0011-2233-445566778899,1,0,0,0"},
		},
		{
			name:      "crlf line endings",
			input:     "a.dll,G1,1,2,3,4\r\nb.dll,G2,0,0,0,0\r\n",
			wantNames: []string{"a.dll", "b.dll"},
			wantKeys:  []entities.CompositeKey{"a.dll,G1,1,2,3,4", "b.dll,G2,0,0,0,0"},
		},
		{
			name:      "no trailing newline",
			input:     "a.dll,G1,1,2,3,4",
			wantNames: []string{"a.dll"},
			wantKeys:  []entities.CompositeKey{"a.dll,G1,1,2,3,4"},
		},
		{
			name:      "lines without a comma are skipped",
			input:     "# comment\nbad.dll\n\nbad.dll,G,1,0,0,0\n",
			wantNames: []string{"bad.dll"},
			wantKeys:  []entities.CompositeKey{"bad.dll,G,1,0,0,0"},
		},
		{
			name:      "blank filename is skipped",
			input:     ",G,1,0,0,0\n   ,G,1,0,0,0\n",
			wantEmpty: true,
		},
		{
			name:      "filename is trimmed but key is verbatim",
			input:     " bad.dll ,G,1,0,0,0\n",
			wantNames: []string{"bad.dll"},
			wantKeys:  []entities.CompositeKey{" bad.dll ,G,1,0,0,0"},
		},
		{
			name:      "utf8 bom",
			input:     "\xEF\xBB\xBFbad.dll,G,1,0,0,0\n",
			wantNames: []string{"bad.dll"},
			wantKeys:  []entities.CompositeKey{"bad.dll,G,1,0,0,0"},
		},
		{
			name:      "empty file",
			input:     "",
			wantEmpty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := Parse("list.txt", []byte(tt.input))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if list.Empty != tt.wantEmpty {
				t.Errorf("Empty = %v, want %v", list.Empty, tt.wantEmpty)
			}
			if len(list.NamesOnly) != len(tt.wantNames) {
				t.Errorf("NamesOnly has %d names, want %d", len(list.NamesOnly), len(tt.wantNames))
			}
			for _, name := range tt.wantNames {
				if !list.HasName(name) {
					t.Errorf("HasName(%q) = false", name)
				}
			}
			if list.Entries() != len(tt.wantKeys) {
				t.Errorf("Entries() = %d, want %d", list.Entries(), len(tt.wantKeys))
			}
			for _, key := range tt.wantKeys {
				if !list.Contains(key) {
					t.Errorf("Contains(%q) = false", key)
				}
			}
		})
	}
}

func TestParse_InvalidUTF8(t *testing.T) {
	_, err := Parse("list.txt", []byte("bad.dll,\xff\xfe,1,0,0,0\n"))
	if !errors.Is(err, entities.ErrListLoad) {
		t.Errorf("Parse() error = %v, want ErrListLoad", err)
	}
}

func TestParse_TrailingFieldsDoNotMatch(t *testing.T) {
	list, err := Parse("list.txt", []byte("bad.dll,G,1,0,0,0,note\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !list.HasName("bad.dll") {
		t.Error("HasName(bad.dll) = false")
	}
	if list.Contains("bad.dll,G,1,0,0,0") {
		t.Error("key with trailing fields must only match verbatim")
	}
}
