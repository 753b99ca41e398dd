package entities

import (
	"fmt"
	"strings"
)

// CompositeKey is the serialized identity of one compiled module:
// filename,instanceId,major,minor,build,revision
type CompositeKey string

// EmptyKey is returned when no identity could be derived for a file.
// It never matches a denylist entry.
const EmptyKey CompositeKey = ""

// Version is the four-part assembly version declared in metadata
type Version struct {
	Major    uint16
	Minor    uint16
	Build    uint16
	Revision uint16
}

// String renders the version as major.minor.build.revision
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision)
}

// ModuleIdentity identifies one specific build output of a module.
// InstanceID is the module version id (MVID) in uppercase canonical GUID
// form; it changes on every compilation even when the source and the
// declared version do not.
type ModuleIdentity struct {
	Filename   string
	InstanceID string
	Version    Version
}

// Key serializes the identity into the denylist key format
func (m ModuleIdentity) Key() CompositeKey {
	return CompositeKey(fmt.Sprintf("%s,%s,%d,%d,%d,%d",
		m.Filename,
		strings.ToUpper(m.InstanceID),
		m.Version.Major,
		m.Version.Minor,
		m.Version.Build,
		m.Version.Revision,
	))
}
