package gateways

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ECMA-335 II.22 metadata table ids used to compute row layouts
const (
	tModule                 = 0x00
	tTypeRef                = 0x01
	tTypeDef                = 0x02
	tFieldPtr               = 0x03
	tField                  = 0x04
	tMethodPtr              = 0x05
	tMethodDef              = 0x06
	tParamPtr               = 0x07
	tParam                  = 0x08
	tInterfaceImpl          = 0x09
	tMemberRef              = 0x0A
	tConstant               = 0x0B
	tCustomAttribute        = 0x0C
	tFieldMarshal           = 0x0D
	tDeclSecurity           = 0x0E
	tClassLayout            = 0x0F
	tFieldLayout            = 0x10
	tStandAloneSig          = 0x11
	tEventMap               = 0x12
	tEventPtr               = 0x13
	tEvent                  = 0x14
	tPropertyMap            = 0x15
	tPropertyPtr            = 0x16
	tProperty               = 0x17
	tMethodSemantics        = 0x18
	tMethodImpl             = 0x19
	tModuleRef              = 0x1A
	tTypeSpec               = 0x1B
	tImplMap                = 0x1C
	tFieldRVA               = 0x1D
	tEncLog                 = 0x1E
	tEncMap                 = 0x1F
	tAssembly               = 0x20
	tAssemblyRef            = 0x23
	tFile                   = 0x26
	tExportedType           = 0x27
	tManifestResource       = 0x28
	tGenericParam           = 0x2A
	tMethodSpec             = 0x2B
	tGenericParamConstraint = 0x2C

	// noTable marks an unused tag value in a coded index
	noTable = -1
)

const metadataSignature = 0x424A5342 // "BSJB"

// HeapSizes flags of the #~ stream header
const (
	heapStringsWide = 0x01
	heapGUIDWide    = 0x02
	heapBlobWide    = 0x04
	heapExtraData   = 0x40
)

var errTruncated = errors.New("metadata truncated")

type codedIndex struct {
	bits   uint
	tables []int
}

var (
	ciTypeDefOrRef        = codedIndex{2, []int{tTypeDef, tTypeRef, tTypeSpec}}
	ciHasConstant         = codedIndex{2, []int{tField, tParam, tProperty}}
	ciHasFieldMarshal     = codedIndex{1, []int{tField, tParam}}
	ciHasDeclSecurity     = codedIndex{2, []int{tTypeDef, tMethodDef, tAssembly}}
	ciMemberRefParent     = codedIndex{3, []int{tTypeDef, tTypeRef, tModuleRef, tMethodDef, tTypeSpec}}
	ciHasSemantics        = codedIndex{1, []int{tEvent, tProperty}}
	ciMethodDefOrRef      = codedIndex{1, []int{tMethodDef, tMemberRef}}
	ciMemberForwarded     = codedIndex{1, []int{tField, tMethodDef}}
	ciCustomAttributeType = codedIndex{3, []int{noTable, noTable, tMethodDef, tMemberRef, noTable}}
	ciResolutionScope     = codedIndex{2, []int{tModule, tModuleRef, tAssemblyRef, tTypeRef}}
	ciHasCustomAttribute  = codedIndex{5, []int{
		tMethodDef, tField, tTypeRef, tTypeDef, tParam, tInterfaceImpl, tMemberRef,
		tModule, tDeclSecurity, tProperty, tEvent, tStandAloneSig, tModuleRef,
		tTypeSpec, tAssembly, tAssemblyRef, tFile, tExportedType, tManifestResource,
		tGenericParam, tGenericParamConstraint, tMethodSpec,
	}}
)

type colKind int

const (
	colFixed colKind = iota
	colString
	colGUID
	colBlob
	colTable
	colCoded
)

type column struct {
	kind  colKind
	size  int
	table int
	coded codedIndex
}

var (
	u16  = column{kind: colFixed, size: 2}
	u32  = column{kind: colFixed, size: 4}
	str  = column{kind: colString}
	guid = column{kind: colGUID}
	blob = column{kind: colBlob}
)

func idx(table int) column     { return column{kind: colTable, table: table} }
func coded(c codedIndex) column { return column{kind: colCoded, coded: c} }

// tableSchemas lists the columns of every table that precedes Assembly.
// Walking them is the only way to find the Assembly rows in #~.
var tableSchemas = [tAssembly][]column{
	tModule:          {u16, str, guid, guid, guid},
	tTypeRef:         {coded(ciResolutionScope), str, str},
	tTypeDef:         {u32, str, str, coded(ciTypeDefOrRef), idx(tField), idx(tMethodDef)},
	tFieldPtr:        {idx(tField)},
	tField:           {u16, str, blob},
	tMethodPtr:       {idx(tMethodDef)},
	tMethodDef:       {u32, u16, u16, str, blob, idx(tParam)},
	tParamPtr:        {idx(tParam)},
	tParam:           {u16, u16, str},
	tInterfaceImpl:   {idx(tTypeDef), coded(ciTypeDefOrRef)},
	tMemberRef:       {coded(ciMemberRefParent), str, blob},
	tConstant:        {u16, coded(ciHasConstant), blob},
	tCustomAttribute: {coded(ciHasCustomAttribute), coded(ciCustomAttributeType), blob},
	tFieldMarshal:    {coded(ciHasFieldMarshal), blob},
	tDeclSecurity:    {u16, coded(ciHasDeclSecurity), blob},
	tClassLayout:     {u16, u32, idx(tTypeDef)},
	tFieldLayout:     {u32, idx(tField)},
	tStandAloneSig:   {blob},
	tEventMap:        {idx(tTypeDef), idx(tEvent)},
	tEventPtr:        {idx(tEvent)},
	tEvent:           {u16, str, coded(ciTypeDefOrRef)},
	tPropertyMap:     {idx(tTypeDef), idx(tProperty)},
	tPropertyPtr:     {idx(tProperty)},
	tProperty:        {u16, str, blob},
	tMethodSemantics: {u16, idx(tMethodDef), coded(ciHasSemantics)},
	tMethodImpl:      {idx(tTypeDef), coded(ciMethodDefOrRef), coded(ciMethodDefOrRef)},
	tModuleRef:       {str},
	tTypeSpec:        {blob},
	tImplMap:         {u16, coded(ciMemberForwarded), str, idx(tModuleRef)},
	tFieldRVA:        {u32, idx(tField)},
	tEncLog:          {u32, u32},
	tEncMap:          {u32},
}

// tablesHeader is the decoded header of the #~ stream
type tablesHeader struct {
	rows       [64]uint32
	stringSize int
	guidSize   int
	blobSize   int
	// dataOffset is where the first table row starts within the stream
	dataOffset int
}

func parseTablesHeader(stream []byte) (*tablesHeader, error) {
	if len(stream) < 24 {
		return nil, fmt.Errorf("tables stream header: %w", errTruncated)
	}

	heapSizes := stream[6]
	valid := binary.LittleEndian.Uint64(stream[8:])

	h := &tablesHeader{
		stringSize: heapWidth(heapSizes, heapStringsWide),
		guidSize:   heapWidth(heapSizes, heapGUIDWide),
		blobSize:   heapWidth(heapSizes, heapBlobWide),
	}

	pos := 24
	for i := 0; i < 64; i++ {
		if valid&(uint64(1)<<uint(i)) == 0 {
			continue
		}
		if pos+4 > len(stream) {
			return nil, fmt.Errorf("table row counts: %w", errTruncated)
		}
		h.rows[i] = binary.LittleEndian.Uint32(stream[pos:])
		pos += 4
	}
	if heapSizes&heapExtraData != 0 {
		pos += 4
	}
	h.dataOffset = pos

	return h, nil
}

func heapWidth(heapSizes, flag byte) int {
	if heapSizes&flag != 0 {
		return 4
	}
	return 2
}

func (h *tablesHeader) indexSize(table int) int {
	if h.rows[table] < 1<<16 {
		return 2
	}
	return 4
}

func (h *tablesHeader) codedSize(c codedIndex) int {
	var maxRows uint32
	for _, t := range c.tables {
		if t != noTable && h.rows[t] > maxRows {
			maxRows = h.rows[t]
		}
	}
	if maxRows < uint32(1)<<(16-c.bits) {
		return 2
	}
	return 4
}

func (h *tablesHeader) columnSize(c column) int {
	switch c.kind {
	case colString:
		return h.stringSize
	case colGUID:
		return h.guidSize
	case colBlob:
		return h.blobSize
	case colTable:
		return h.indexSize(c.table)
	case colCoded:
		return h.codedSize(c.coded)
	default:
		return c.size
	}
}

func (h *tablesHeader) rowSize(table int) int {
	size := 0
	for _, c := range tableSchemas[table] {
		size += h.columnSize(c)
	}
	return size
}

// tableOffset returns the stream offset of the first row of table
func (h *tablesHeader) tableOffset(table int) uint64 {
	off := uint64(h.dataOffset)
	for t := 0; t < table; t++ {
		off += uint64(h.rows[t]) * uint64(h.rowSize(t))
	}
	return off
}

// readIndex reads a 2 or 4 byte little-endian heap or table index
func readIndex(b []byte, size int) uint32 {
	if size == 4 {
		return binary.LittleEndian.Uint32(b)
	}
	return uint32(binary.LittleEndian.Uint16(b))
}
