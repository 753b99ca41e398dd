// Package testkit builds synthetic managed PE images for tests.
//
// The images carry just enough ECMA-335 metadata (a #~ tables stream with
// Module and Assembly rows and a #GUID heap) for identity resolution.
package testkit

import (
	"bytes"
	"debug/pe"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

// AssemblyOptions controls the generated image
type AssemblyOptions struct {
	// MVID in canonical text form; a random one is used when empty
	MVID    string
	Version [4]uint16
	// WideHeaps switches string/guid/blob heap indexes to 4 bytes
	WideHeaps bool
	// ExtraTables emits TypeRef and TypeDef rows before the Assembly table
	ExtraTables bool
	// NoAssembly omits the Assembly table, like a .netmodule
	NoAssembly bool
	// NoCLIHeader produces a native PE without a CLI header
	NoCLIHeader bool
	// PE64 emits a PE32+ optional header
	PE64 bool
}

const (
	fileAlignment    = 0x200
	sectionAlignment = 0x2000
	textRVA          = 0x2000
	cliHeaderSize    = 72
)

var le = binary.LittleEndian

// BuildAssembly returns the bytes of a managed PE image
func BuildAssembly(opts AssemblyOptions) []byte {
	mvid := opts.MVID
	if mvid == "" {
		mvid = uuid.NewString()
	}

	metadata := buildMetadata(opts, uuid.MustParse(mvid))

	var text bytes.Buffer
	write(&text, uint32(cliHeaderSize))
	write(&text, uint16(2))
	write(&text, uint16(5))
	write(&text, uint32(textRVA+cliHeaderSize))
	write(&text, uint32(len(metadata)))
	write(&text, uint32(1)) // COMIMAGE_FLAGS_ILONLY
	text.Write(make([]byte, cliHeaderSize-text.Len()))
	text.Write(metadata)

	rawSize := alignUp(text.Len(), fileAlignment)

	var cli pe.DataDirectory
	if !opts.NoCLIHeader {
		cli = pe.DataDirectory{VirtualAddress: textRVA, Size: cliHeaderSize}
	}

	var img bytes.Buffer
	dos := make([]byte, 0x80)
	dos[0], dos[1] = 'M', 'Z'
	le.PutUint32(dos[0x3c:], 0x80)
	img.Write(dos)
	img.WriteString("PE\x00\x00")

	fh := pe.FileHeader{
		Machine:          pe.IMAGE_FILE_MACHINE_I386,
		NumberOfSections: 1,
		Characteristics:  0x2102,
	}
	if opts.PE64 {
		fh.Machine = pe.IMAGE_FILE_MACHINE_AMD64
		fh.SizeOfOptionalHeader = uint16(binary.Size(pe.OptionalHeader64{}))
		write(&img, fh)

		oh := pe.OptionalHeader64{
			Magic:               0x20b,
			SectionAlignment:    sectionAlignment,
			FileAlignment:       fileAlignment,
			SizeOfImage:         uint32(textRVA + alignUp(rawSize, sectionAlignment)),
			SizeOfHeaders:       fileAlignment,
			Subsystem:           3,
			NumberOfRvaAndSizes: 16,
		}
		oh.DataDirectory[pe.IMAGE_DIRECTORY_ENTRY_COM_DESCRIPTOR] = cli
		write(&img, oh)
	} else {
		fh.SizeOfOptionalHeader = uint16(binary.Size(pe.OptionalHeader32{}))
		write(&img, fh)

		oh := pe.OptionalHeader32{
			Magic:               0x10b,
			SectionAlignment:    sectionAlignment,
			FileAlignment:       fileAlignment,
			SizeOfImage:         uint32(textRVA + alignUp(rawSize, sectionAlignment)),
			SizeOfHeaders:       fileAlignment,
			Subsystem:           3,
			NumberOfRvaAndSizes: 16,
		}
		oh.DataDirectory[pe.IMAGE_DIRECTORY_ENTRY_COM_DESCRIPTOR] = cli
		write(&img, oh)
	}

	write(&img, pe.SectionHeader32{
		Name:             [8]uint8{'.', 't', 'e', 'x', 't'},
		VirtualSize:      uint32(text.Len()),
		VirtualAddress:   textRVA,
		SizeOfRawData:    uint32(rawSize),
		PointerToRawData: fileAlignment,
		Characteristics:  0x60000020,
	})

	img.Write(make([]byte, fileAlignment-img.Len()))
	img.Write(text.Bytes())
	img.Write(make([]byte, rawSize-text.Len()))

	return img.Bytes()
}

// WriteAssembly writes a generated image to path, creating parent
// directories, and returns path
func WriteAssembly(t testing.TB, path string, opts AssemblyOptions) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, BuildAssembly(opts), 0600); err != nil {
		t.Fatalf("Failed to write assembly: %v", err)
	}
	return path
}

func buildMetadata(opts AssemblyOptions, mvid uuid.UUID) []byte {
	tables := buildTablesStream(opts)
	guidHeap := dotnetGUID(mvid)
	version := []byte("v4.0.30319\x00\x00")

	var root bytes.Buffer
	write(&root, uint32(0x424A5342))
	write(&root, uint16(1))
	write(&root, uint16(1))
	write(&root, uint32(0))
	write(&root, uint32(len(version)))
	root.Write(version)
	write(&root, uint16(0))
	write(&root, uint16(2))

	// Stream headers: "#~" takes 12 bytes, "#GUID" takes 16
	tablesOffset := root.Len() + 12 + 16
	guidOffset := tablesOffset + len(tables)

	write(&root, uint32(tablesOffset))
	write(&root, uint32(len(tables)))
	root.WriteString("#~\x00\x00")
	write(&root, uint32(guidOffset))
	write(&root, uint32(len(guidHeap)))
	root.WriteString("#GUID\x00\x00\x00")

	root.Write(tables)
	root.Write(guidHeap)
	return root.Bytes()
}

func buildTablesStream(opts AssemblyOptions) []byte {
	var heapSizes uint8
	width := 2
	if opts.WideHeaps {
		heapSizes = 0x07
		width = 4
	}

	valid := uint64(1) // Module
	if opts.ExtraTables {
		valid |= 1<<0x01 | 1<<0x02 // TypeRef, TypeDef
	}
	if !opts.NoAssembly {
		valid |= 1 << 0x20
	}

	var b bytes.Buffer
	write(&b, uint32(0))
	write(&b, uint8(2))
	write(&b, uint8(0))
	write(&b, heapSizes)
	write(&b, uint8(1))
	write(&b, valid)
	write(&b, uint64(0))

	write(&b, uint32(1))
	if opts.ExtraTables {
		write(&b, uint32(3))
		write(&b, uint32(2))
	}
	if !opts.NoAssembly {
		write(&b, uint32(1))
	}

	// Module: Generation, Name, Mvid, EncId, EncBaseId
	write(&b, uint16(0))
	writeIndex(&b, 0, width)
	writeIndex(&b, 1, width)
	writeIndex(&b, 0, width)
	writeIndex(&b, 0, width)

	if opts.ExtraTables {
		// Filler bytes make a wrong row-size computation visible
		typeRefRow := 2 + 2*width
		typeDefRow := 4 + 2*width + 2 + 2 + 2
		b.Write(bytes.Repeat([]byte{0xEE}, 3*typeRefRow+2*typeDefRow))
	}

	if !opts.NoAssembly {
		write(&b, uint32(0x8004)) // SHA1
		for _, part := range opts.Version {
			write(&b, part)
		}
		write(&b, uint32(0))
		writeIndex(&b, 0, width)
		writeIndex(&b, 0, width)
		writeIndex(&b, 0, width)
	}

	b.Write(make([]byte, alignUp(b.Len(), 4)-b.Len()))
	return b.Bytes()
}

// dotnetGUID lays out a GUID the way System.Guid stores it: the first
// three groups little-endian
func dotnetGUID(u uuid.UUID) []byte {
	b := make([]byte, 16)
	copy(b, u[:])
	b[0], b[1], b[2], b[3] = u[3], u[2], u[1], u[0]
	b[4], b[5] = u[5], u[4]
	b[6], b[7] = u[7], u[6]
	return b
}

func writeIndex(b *bytes.Buffer, v uint32, width int) {
	if width == 4 {
		write(b, v)
		return
	}
	write(b, uint16(v))
}

func write(b *bytes.Buffer, v interface{}) {
	// bytes.Buffer writes never fail
	_ = binary.Write(b, le, v)
}

func alignUp(n, align int) int {
	return (n + align - 1) / align * align
}
