package wasm

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// sectionNames maps the closed set of section IDs to their display names.
var sectionNames = map[byte]string{
	SectionCustom:    "CUSTOM",
	SectionType:      "TYPE",
	SectionImport:    "IMPORT",
	SectionFunction:  "FUNCTION",
	SectionTable:     "TABLE",
	SectionMemory:    "MEMORY",
	SectionGlobal:    "GLOBAL",
	SectionExport:    "EXPORT",
	SectionStart:     "START",
	SectionElement:   "ELEM",
	SectionCode:      "CODE",
	SectionData:      "DATA",
	SectionDataCount: "DATACOUNT",
	SectionTag:       "TAG",
}

// SectionTypeName returns the display name for a section ID. ok is false
// when the ID is outside the closed set of known section types.
func SectionTypeName(t byte) (name string, ok bool) {
	name, ok = sectionNames[t]
	return name, ok
}

// SectionInfo describes one section header found by ScanSections.
type SectionInfo struct {
	ID       byte
	Name     string // custom section name, empty otherwise
	Offset   uint32 // file offset of the section header
	BodyOff  uint32 // file offset of the section body
	BodySize uint32
}

// TypeName returns the section's display name, including the custom
// section name when present, e.g. "CUSTOM(.debug_str)".
func (s SectionInfo) TypeName() string {
	name, ok := SectionTypeName(s.ID)
	if !ok {
		return fmt.Sprintf("UNKNOWN(%d)", s.ID)
	}
	if s.Name != "" {
		return fmt.Sprintf("%s(%s)", name, s.Name)
	}
	return name
}

// Size returns the total section size including its header.
func (s SectionInfo) Size() uint32 {
	return s.BodySize + (s.BodyOff - s.Offset)
}

// ScanSections walks the section headers of an encoded module without
// decoding section bodies. Custom section names are read from the body.
func ScanSections(data []byte) ([]SectionInfo, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("scan: module too short (%d bytes)", len(data))
	}
	if binary.LittleEndian.Uint32(data) != Magic {
		return nil, fmt.Errorf("scan: invalid magic number %#x", binary.LittleEndian.Uint32(data))
	}
	if v := binary.LittleEndian.Uint32(data[4:]); v != Version {
		return nil, fmt.Errorf("scan: unsupported version %d", v)
	}

	var infos []SectionInfo
	r := bytes.NewReader(data[HeaderSize:])
	for r.Len() > 0 {
		headerOff := uint32(HeaderSize) + uint32(r.Size()) - uint32(r.Len())
		id, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("scan: read section id: %w", err)
		}
		bodySize, err := ReadLEB128u(r)
		if err != nil {
			return nil, fmt.Errorf("scan: read section size at %#x: %w", headerOff, err)
		}
		bodyOff := uint32(HeaderSize) + uint32(r.Size()) - uint32(r.Len())
		if uint64(bodyOff)+uint64(bodySize) > uint64(len(data)) {
			return nil, fmt.Errorf("scan: section at %#x overruns module (size %d)", headerOff, bodySize)
		}

		info := SectionInfo{ID: id, Offset: headerOff, BodyOff: bodyOff, BodySize: bodySize}
		if id == SectionCustom && bodySize > 0 {
			nr := bytes.NewReader(data[bodyOff : bodyOff+bodySize])
			nameLen, err := ReadLEB128u(nr)
			if err != nil {
				return nil, fmt.Errorf("scan: read custom section name at %#x: %w", bodyOff, err)
			}
			nameOff := bodySize - uint32(nr.Len())
			if nameLen > uint32(nr.Len()) {
				return nil, fmt.Errorf("scan: custom section name overruns body at %#x", bodyOff)
			}
			info.Name = string(data[bodyOff+nameOff : bodyOff+nameOff+nameLen])
		}
		infos = append(infos, info)

		if _, err := r.Seek(int64(bodySize), io.SeekCurrent); err != nil {
			return nil, fmt.Errorf("scan: skip section body at %#x: %w", bodyOff, err)
		}
	}
	return infos, nil
}
