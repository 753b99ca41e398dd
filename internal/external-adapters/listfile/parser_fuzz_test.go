package listfile

import (
	"strings"
	"testing"
)

// FuzzParse tests the denylist parser against random/malformed inputs
// to detect crashes, panics, or broken invariants.
//
// Run with: go test -fuzz=FuzzParse -fuzztime=30s
func FuzzParse(f *testing.F) {
	f.Add([]byte("bad.dll,AABBCCDD-EEFF-0011-2233-445566778899,1,0,0,0\n"))
	f.Add([]byte("a.dll,G1,1,2,3,4\r\nb.dll,G2,0,0,0,0\r\n"))
	f.Add([]byte(""))
	f.Add([]byte(",,,,"))
	f.Add([]byte("\n\n\r\n"))
	f.Add([]byte("\xEF\xBB\xBF x.dll ,y"))
	f.Add([]byte("\xff\xfe"))

	f.Fuzz(func(t *testing.T, data []byte) {
		list, err := Parse("fuzz.txt", data)
		if err != nil {
			return
		}

		if list.Empty != (len(list.Keys) == 0) {
			t.Fatalf("Empty = %v with %d keys", list.Empty, len(list.Keys))
		}
		if len(list.Keys) > 0 && len(list.NamesOnly) == 0 {
			t.Fatal("keys recorded without names")
		}
		for key := range list.Keys {
			line := string(key)
			if strings.Contains(line, "\n") || strings.HasSuffix(line, "\r") {
				t.Fatalf("key %q keeps a line terminator", line)
			}
			name := strings.TrimSpace(line[:strings.IndexByte(line, ',')])
			if !list.HasName(name) {
				t.Fatalf("key %q has no matching name", line)
			}
		}
	})
}
