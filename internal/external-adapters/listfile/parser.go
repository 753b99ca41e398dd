// Package listfile reads the plain-text denylist of known-bad module builds.
package listfile

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ochairo/denyfilter/internal/domain/entities"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse builds a DenyList from the list file contents.
//
// Each line is "filename,instanceId,major,minor,build,revision". Lines
// without a comma or with a blank filename are ignored. Accepted lines are
// kept verbatim (minus the carriage return) as composite keys.
func Parse(source string, data []byte) (*entities.DenyList, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s: not valid UTF-8", entities.ErrListLoad, source)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	list := entities.NewDenyList(source)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")

		comma := strings.IndexByte(line, ',')
		if comma < 0 {
			continue
		}
		filename := strings.TrimSpace(line[:comma])
		if filename == "" {
			continue
		}

		list.Add(filename, entities.CompositeKey(line))
	}

	return list, nil
}
