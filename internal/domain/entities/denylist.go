package entities

// DenyList is the parsed denylist. It is built once and never mutated.
type DenyList struct {
	// Source is the path the list was read from
	Source string
	// NamesOnly is the fast negative filter on base filenames
	NamesOnly map[string]struct{}
	// Keys holds every accepted entry line verbatim
	Keys map[CompositeKey]struct{}
	// Empty is true when no line yielded a usable filename
	Empty bool
}

// NewDenyList creates an empty list for the given source
func NewDenyList(source string) *DenyList {
	return &DenyList{
		Source:    source,
		NamesOnly: make(map[string]struct{}),
		Keys:      make(map[CompositeKey]struct{}),
		Empty:     true,
	}
}

// Add records one entry. Both sets are always populated together.
func (d *DenyList) Add(filename string, line CompositeKey) {
	d.NamesOnly[filename] = struct{}{}
	d.Keys[line] = struct{}{}
	d.Empty = false
}

// HasName reports whether any entry names this base filename
func (d *DenyList) HasName(filename string) bool {
	if d == nil {
		return false
	}
	_, ok := d.NamesOnly[filename]
	return ok
}

// Contains reports whether the composite key is denied
func (d *DenyList) Contains(key CompositeKey) bool {
	if d == nil || key == EmptyKey {
		return false
	}
	_, ok := d.Keys[key]
	return ok
}

// Entries returns the number of distinct denied keys
func (d *DenyList) Entries() int {
	if d == nil {
		return 0
	}
	return len(d.Keys)
}

// ListStatus classifies the result of loading a denylist
type ListStatus int

const (
	// ListLoaded means at least one entry was parsed
	ListLoaded ListStatus = iota
	// ListEmpty means the file exists but contributed no entries
	ListEmpty
	// ListNotFound means the backing file is absent
	ListNotFound
)

func (s ListStatus) String() string {
	switch s {
	case ListLoaded:
		return "loaded"
	case ListEmpty:
		return "empty"
	case ListNotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

// LoadResult is the typed outcome of a denylist load that did not fail
type LoadResult struct {
	Status ListStatus
	List   *DenyList
	// Path is the location that was probed, set even when not found
	Path string
	// Digest is the hex SHA-256 of the list file, empty when not found
	Digest string
}
