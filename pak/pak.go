// Package pak reads and writes Chromium data pack (.pak) files.
//
// Two layouts are supported, both little-endian:
//
//	v4: uint32 version, uint32 count, uint8 encoding,
//	    (count+1) x {uint16 id, uint32 offset}, data
//	v5: uint32 version, uint8 encoding, 3 pad bytes,
//	    uint16 count, uint16 aliases,
//	    (count+1) x {uint16 id, uint32 offset},
//	    aliases x {uint16 id, uint16 entry index}, data
//
// The extra index entry is a sentinel whose offset marks the end of the
// last resource.
package pak

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
)

// Encoding describes how resource payloads are encoded.
type Encoding uint8

const (
	Binary Encoding = 0
	UTF8   Encoding = 1
	UTF16  Encoding = 2
)

func (e Encoding) String() string {
	switch e {
	case Binary:
		return "binary"
	case UTF8:
		return "utf-8"
	case UTF16:
		return "utf-16"
	}
	return fmt.Sprintf("encoding(%d)", uint8(e))
}

// Format versions.
const (
	Version4 = 4
	Version5 = 5
)

// DefaultVersion is the format written when none is requested.
const DefaultVersion = Version4

const (
	headerLenV4 = 4 + 4 + 1
	headerLenV5 = 4 + 4 + 2 + 2
	entryLen    = 2 + 4
	aliasLen    = 2 + 2
)

// ErrUnsupportedVersion is returned for pak versions other than 4 and 5.
var ErrUnsupportedVersion = errors.New("unsupported pak version")

// ErrCorrupt is returned when the index table points outside the file.
var ErrCorrupt = errors.New("corrupt pak file")

// DataPack is the decoded content of a pak file.
type DataPack struct {
	// Resources maps resource ids to their raw payloads.
	Resources map[uint16][]byte
	// Encoding of the text resources in this pack.
	Encoding Encoding
	// Version the pack was read as (0 for packs built in memory).
	Version int
}

// New returns an empty pack with the given encoding.
func New(enc Encoding) *DataPack {
	return &DataPack{Resources: make(map[uint16][]byte), Encoding: enc}
}

// IDs returns the resource ids in ascending order.
func (dp *DataPack) IDs() []uint16 {
	ids := make([]uint16, 0, len(dp.Resources))
	for id := range dp.Resources {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ReadFile loads and parses the pak at path.
func ReadFile(path string) (*DataPack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	dp, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return dp, nil
}

// Parse decodes a v4 or v5 pak.
func Parse(data []byte) (*DataPack, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: header truncated", ErrCorrupt)
	}
	switch v := binary.LittleEndian.Uint32(data); v {
	case Version4:
		return parseV4(data)
	case Version5:
		return parseV5(data)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}
}

func parseV4(data []byte) (*DataPack, error) {
	if len(data) < headerLenV4 {
		return nil, fmt.Errorf("%w: header truncated", ErrCorrupt)
	}
	count := binary.LittleEndian.Uint32(data[4:])
	enc := Encoding(data[8])

	dp := New(enc)
	dp.Version = Version4
	offsets, ids, err := readTable(data, headerLenV4, int(count))
	if err != nil {
		return nil, err
	}
	for i, id := range ids {
		dp.Resources[id] = data[offsets[i]:offsets[i+1]]
	}
	return dp, nil
}

func parseV5(data []byte) (*DataPack, error) {
	if len(data) < headerLenV5 {
		return nil, fmt.Errorf("%w: header truncated", ErrCorrupt)
	}
	enc := Encoding(data[4])
	count := int(binary.LittleEndian.Uint16(data[8:]))
	aliases := int(binary.LittleEndian.Uint16(data[10:]))

	dp := New(enc)
	dp.Version = Version5
	offsets, ids, err := readTable(data, headerLenV5, count)
	if err != nil {
		return nil, err
	}
	for i, id := range ids {
		dp.Resources[id] = data[offsets[i]:offsets[i+1]]
	}

	aliasStart := headerLenV5 + (count+1)*entryLen
	if len(data) < aliasStart+aliases*aliasLen {
		return nil, fmt.Errorf("%w: alias table truncated", ErrCorrupt)
	}
	for i := 0; i < aliases; i++ {
		p := aliasStart + i*aliasLen
		id := binary.LittleEndian.Uint16(data[p:])
		index := int(binary.LittleEndian.Uint16(data[p+2:]))
		if index >= count {
			return nil, fmt.Errorf("%w: alias %d points at entry %d of %d", ErrCorrupt, id, index, count)
		}
		dp.Resources[id] = dp.Resources[ids[index]]
	}
	return dp, nil
}

// readTable reads count entries plus the sentinel starting at start and
// returns the offsets (count+1 of them) and resource ids (count).
func readTable(data []byte, start, count int) ([]uint32, []uint16, error) {
	if len(data) < start+(count+1)*entryLen {
		return nil, nil, fmt.Errorf("%w: index table truncated", ErrCorrupt)
	}
	ids := make([]uint16, count)
	offsets := make([]uint32, count+1)
	for i := 0; i <= count; i++ {
		p := start + i*entryLen
		if i < count {
			ids[i] = binary.LittleEndian.Uint16(data[p:])
		}
		offsets[i] = binary.LittleEndian.Uint32(data[p+2:])
	}
	for i := 0; i < count; i++ {
		if offsets[i] > offsets[i+1] || int(offsets[i+1]) > len(data) {
			return nil, nil, fmt.Errorf("%w: resource %d spans %d..%d of %d bytes", ErrCorrupt, ids[i], offsets[i], offsets[i+1], len(data))
		}
	}
	return offsets, ids, nil
}

// Marshal encodes dp in the requested format version. Resources are
// written in ascending id order.
func Marshal(dp *DataPack, version int) ([]byte, error) {
	switch version {
	case Version4:
		return marshalV4(dp)
	case Version5:
		return marshalV5(dp)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
}

func marshalV4(dp *DataPack) ([]byte, error) {
	ids := dp.IDs()

	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, uint32(Version4))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(ids)))
	buf.WriteByte(byte(dp.Encoding))

	offset := headerLenV4 + (len(ids)+1)*entryLen
	for _, id := range ids {
		if err := writeEntry(&buf, id, offset); err != nil {
			return nil, err
		}
		offset += len(dp.Resources[id])
	}
	if err := writeEntry(&buf, 0, offset); err != nil {
		return nil, err
	}
	for _, id := range ids {
		buf.Write(dp.Resources[id])
	}
	return buf.Bytes(), nil
}

func marshalV5(dp *DataPack) ([]byte, error) {
	ids := dp.IDs()

	// Identical payloads are stored once; the lowest id owns the data and
	// higher ids become aliases of it.
	owner := make(map[string]uint16, len(ids))
	alias := make(map[uint16]uint16)
	var unique []uint16
	for _, id := range ids {
		key := string(dp.Resources[id])
		if first, ok := owner[key]; ok {
			alias[id] = first
			continue
		}
		owner[key] = id
		unique = append(unique, id)
	}
	if len(unique) > 0xffff || len(alias) > 0xffff {
		return nil, fmt.Errorf("too many resources for pak v5: %d entries, %d aliases", len(unique), len(alias))
	}

	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, uint32(Version5))
	buf.WriteByte(byte(dp.Encoding))
	buf.Write([]byte{0, 0, 0})
	_ = binary.Write(&buf, binary.LittleEndian, uint16(len(unique)))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(len(alias)))

	offset := headerLenV5 + (len(unique)+1)*entryLen + len(alias)*aliasLen
	index := make(map[uint16]uint16, len(unique))
	for i, id := range unique {
		index[id] = uint16(i)
		if err := writeEntry(&buf, id, offset); err != nil {
			return nil, err
		}
		offset += len(dp.Resources[id])
	}
	if err := writeEntry(&buf, 0, offset); err != nil {
		return nil, err
	}
	for _, id := range ids {
		first, ok := alias[id]
		if !ok {
			continue
		}
		_ = binary.Write(&buf, binary.LittleEndian, id)
		_ = binary.Write(&buf, binary.LittleEndian, index[first])
	}
	for _, id := range unique {
		buf.Write(dp.Resources[id])
	}
	return buf.Bytes(), nil
}

func writeEntry(buf *bytes.Buffer, id uint16, offset int) error {
	if int64(offset) > math.MaxUint32 {
		return fmt.Errorf("pak too large: offset %d exceeds 4 GiB", offset)
	}
	_ = binary.Write(buf, binary.LittleEndian, id)
	_ = binary.Write(buf, binary.LittleEndian, uint32(offset))
	return nil
}

// WriteFile encodes dp and writes it to path. The parent directory must
// exist.
func WriteFile(path string, dp *DataPack, version int) error {
	data, err := Marshal(dp, version)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
