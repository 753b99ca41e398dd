// Package gateways provides adapter implementations for external services and tools.
package gateways

import (
	"bytes"
	"debug/pe"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ochairo/denyfilter/internal/domain/entities"
)

// identityResolver derives module identities from managed PE images
// Uses debug/pe for the container and walks the CLI metadata by hand
type identityResolver struct{}

// NewIdentityResolver creates a new identity resolver
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewIdentityResolver() *identityResolver {
	return &identityResolver{}
}

// ComputeKey returns the composite key of the module at path
func (g *identityResolver) ComputeKey(path string) (entities.CompositeKey, error) {
	id, err := g.Identify(path)
	if err != nil {
		if errors.Is(err, entities.ErrModuleNotFound) {
			return entities.EmptyKey, nil
		}
		return entities.EmptyKey, err
	}
	return id.Key(), nil
}

// Identify reads the MVID and assembly version of the module at path
func (g *identityResolver) Identify(path string) (*entities.ModuleIdentity, error) {
	if path == "" {
		return nil, fmt.Errorf("empty path: %w", entities.ErrModuleNotFound)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, entities.ErrModuleNotFound)
		}
		return nil, fmt.Errorf("%w: %s: %w", entities.ErrIdentityUnreadable, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory: %w", path, entities.ErrModuleNotFound)
	}

	mvid, version, err := g.readAssembly(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", entities.ErrIdentityUnreadable, path, err)
	}

	return &entities.ModuleIdentity{
		Filename:   filepath.Base(path),
		InstanceID: mvid,
		Version:    version,
	}, nil
}

// readAssembly opens the PE image and extracts MVID and version.
// The file is closed before returning.
func (g *identityResolver) readAssembly(path string) (string, entities.Version, error) {
	f, err := pe.Open(path)
	if err != nil {
		return "", entities.Version{}, fmt.Errorf("failed to open PE file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	metadata, err := readMetadataBlob(f)
	if err != nil {
		return "", entities.Version{}, err
	}

	streams, err := parseMetadataRoot(metadata)
	if err != nil {
		return "", entities.Version{}, err
	}

	tables, ok := streams["#~"]
	if !ok {
		tables, ok = streams["#-"]
	}
	if !ok {
		return "", entities.Version{}, errors.New("metadata has no tables stream")
	}

	h, err := parseTablesHeader(tables)
	if err != nil {
		return "", entities.Version{}, err
	}

	mvid, err := readMVID(h, tables, streams["#GUID"])
	if err != nil {
		return "", entities.Version{}, err
	}

	version, err := readAssemblyVersion(h, tables)
	if err != nil {
		return "", entities.Version{}, err
	}

	return mvid, version, nil
}

// readMetadataBlob follows the CLI header to the metadata root
func readMetadataBlob(f *pe.File) ([]byte, error) {
	var dirs []pe.DataDirectory
	switch oh := f.OptionalHeader.(type) {
	case *pe.OptionalHeader32:
		dirs = oh.DataDirectory[:min(int(oh.NumberOfRvaAndSizes), len(oh.DataDirectory))]
	case *pe.OptionalHeader64:
		dirs = oh.DataDirectory[:min(int(oh.NumberOfRvaAndSizes), len(oh.DataDirectory))]
	default:
		return nil, errors.New("PE file has no optional header")
	}

	if len(dirs) <= pe.IMAGE_DIRECTORY_ENTRY_COM_DESCRIPTOR {
		return nil, errors.New("PE file has no CLI header")
	}
	cli := dirs[pe.IMAGE_DIRECTORY_ENTRY_COM_DESCRIPTOR]
	if cli.VirtualAddress == 0 || cli.Size < 16 {
		return nil, errors.New("PE file has no CLI header")
	}

	header, err := readRVA(f, cli.VirtualAddress, 16)
	if err != nil {
		return nil, fmt.Errorf("CLI header: %w", err)
	}

	mdRVA := binary.LittleEndian.Uint32(header[8:])
	mdSize := binary.LittleEndian.Uint32(header[12:])
	if mdRVA == 0 || mdSize == 0 {
		return nil, errors.New("CLI header has no metadata")
	}

	metadata, err := readRVA(f, mdRVA, mdSize)
	if err != nil {
		return nil, fmt.Errorf("metadata: %w", err)
	}
	return metadata, nil
}

// readRVA copies size bytes at a relative virtual address out of the
// section that contains it
func readRVA(f *pe.File, rva, size uint32) ([]byte, error) {
	for _, s := range f.Sections {
		extent := max(s.VirtualSize, s.Size)
		if rva < s.VirtualAddress || rva >= s.VirtualAddress+extent {
			continue
		}

		off := rva - s.VirtualAddress
		if uint64(off)+uint64(size) > uint64(s.Size) {
			return nil, errTruncated
		}

		buf := make([]byte, size)
		if _, err := s.ReadAt(buf, int64(off)); err != nil {
			return nil, fmt.Errorf("failed to read section %s: %w", s.Name, err)
		}
		return buf, nil
	}
	return nil, fmt.Errorf("RVA %#x is not mapped by any section", rva)
}

// parseMetadataRoot returns the metadata streams keyed by name
func parseMetadataRoot(md []byte) (map[string][]byte, error) {
	if len(md) < 16 || binary.LittleEndian.Uint32(md) != metadataSignature {
		return nil, errors.New("missing metadata signature")
	}

	versionLen := int(binary.LittleEndian.Uint32(md[12:]))
	pos := 16 + align4(versionLen)
	if versionLen < 0 || pos+4 > len(md) {
		return nil, fmt.Errorf("metadata root: %w", errTruncated)
	}

	count := int(binary.LittleEndian.Uint16(md[pos+2:]))
	pos += 4

	streams := make(map[string][]byte, count)
	for i := 0; i < count; i++ {
		if pos+8 > len(md) {
			return nil, fmt.Errorf("stream header: %w", errTruncated)
		}
		offset := binary.LittleEndian.Uint32(md[pos:])
		size := binary.LittleEndian.Uint32(md[pos+4:])
		pos += 8

		end := bytes.IndexByte(md[pos:], 0)
		if end < 0 || end > 32 {
			return nil, errors.New("malformed stream name")
		}
		name := string(md[pos : pos+end])
		pos += align4(end + 1)

		if uint64(offset)+uint64(size) > uint64(len(md)) {
			return nil, fmt.Errorf("stream %s: %w", name, errTruncated)
		}
		streams[name] = md[offset : offset+size]
	}
	return streams, nil
}

func readMVID(h *tablesHeader, tables, guidHeap []byte) (string, error) {
	if h.rows[tModule] == 0 {
		return "", errors.New("module table is empty")
	}

	// Module row: Generation(u16), Name(str), Mvid(guid), ...
	at := h.dataOffset + 2 + h.stringSize
	if at+h.guidSize > len(tables) {
		return "", fmt.Errorf("module row: %w", errTruncated)
	}

	index := readIndex(tables[at:], h.guidSize)
	if index == 0 {
		return "", errors.New("module has no MVID")
	}
	start := uint64(index-1) * 16
	if start+16 > uint64(len(guidHeap)) {
		return "", fmt.Errorf("guid heap: %w", errTruncated)
	}

	return formatGUID(guidHeap[start : start+16]), nil
}

func readAssemblyVersion(h *tablesHeader, tables []byte) (entities.Version, error) {
	if h.rows[tAssembly] == 0 {
		return entities.Version{}, errors.New("image has no assembly manifest")
	}

	// Assembly row: HashAlgId(u32), Major, Minor, Build, Revision(u16), ...
	at := h.tableOffset(tAssembly)
	if at+12 > uint64(len(tables)) {
		return entities.Version{}, fmt.Errorf("assembly row: %w", errTruncated)
	}
	row := tables[at+4:]

	return entities.Version{
		Major:    binary.LittleEndian.Uint16(row[0:]),
		Minor:    binary.LittleEndian.Uint16(row[2:]),
		Build:    binary.LittleEndian.Uint16(row[4:]),
		Revision: binary.LittleEndian.Uint16(row[6:]),
	}, nil
}

// formatGUID renders a GUID stored in the Windows mixed-endian layout the
// way System.Guid prints it, uppercased
func formatGUID(b []byte) string {
	var u uuid.UUID
	copy(u[:], b)
	u[0], u[1], u[2], u[3] = b[3], b[2], b[1], b[0]
	u[4], u[5] = b[5], b[4]
	u[6], u[7] = b[7], b[6]
	return strings.ToUpper(u.String())
}

func align4(n int) int {
	return (n + 3) &^ 3
}
