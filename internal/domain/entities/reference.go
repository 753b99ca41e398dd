// Package entities defines core domain models and data structures.
package entities

// MetadataDeniedPath is set on every denied reference to the path that
// triggered the denial
const MetadataDeniedPath = "DeniedAssemblyPath"

// Reference is one module reference handed to the filter by the build
type Reference struct {
	// ItemSpec is the primary path field; rewritten on substitution
	// unless the reference was resolved through its hint path
	ItemSpec string
	// FullPath is the already-resolved absolute form of ItemSpec
	FullPath string
	// HintPath is an optional alternate location
	HintPath string
	Metadata map[string]string
}

// SetMetadata sets a metadata value, allocating the map when needed
func (r *Reference) SetMetadata(key, value string) {
	if r.Metadata == nil {
		r.Metadata = make(map[string]string)
	}
	r.Metadata[key] = value
}

// Disposition is the terminal state of a reference after filtering
type Disposition int

const (
	// Allowed references pass through untouched
	Allowed Disposition = iota
	// DeniedFixed references were redirected to a replacement
	DeniedFixed
	// DeniedUnfixed references were denied but no replacement exists
	DeniedUnfixed
)

func (d Disposition) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case DeniedFixed:
		return "denied-fixed"
	case DeniedUnfixed:
		return "denied-unfixed"
	default:
		return "unknown"
	}
}

// Substitution describes the path rewrite for a denied-and-fixed reference
type Substitution struct {
	NewPath string
	// ViaHint is true when the candidate came from HintPath, in which case
	// HintPath is rewritten instead of the primary path
	ViaHint bool
}

// Outcome is the filter decision for a single reference
type Outcome struct {
	Disposition Disposition
	// CandidatePath is the existing file the decision was made on, empty
	// when neither the primary nor hint path exists
	CandidatePath string
	// DeniedPath is set for both denied dispositions
	DeniedPath   string
	Substitution *Substitution
}

// Apply returns a copy of ref with the outcome's rewrite applied.
// At most one of the primary path and the hint path changes.
func (o Outcome) Apply(ref Reference) Reference {
	if o.Disposition == Allowed {
		return ref
	}

	out := ref
	out.Metadata = make(map[string]string, len(ref.Metadata)+1)
	for k, v := range ref.Metadata {
		out.Metadata[k] = v
	}
	out.Metadata[MetadataDeniedPath] = o.DeniedPath

	if o.Substitution == nil {
		return out
	}
	if o.Substitution.ViaHint {
		out.HintPath = o.Substitution.NewPath
	} else {
		out.ItemSpec = o.Substitution.NewPath
		out.FullPath = o.Substitution.NewPath
	}
	return out
}
