package vpx

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Compound file binary format constants (MS-CFB).
const (
	headerSize     = 512
	dirEntrySize   = 128
	miniSectorSize = 64

	secFree       uint32 = 0xFFFFFFFF
	secEndOfChain uint32 = 0xFFFFFFFE
	secFAT        uint32 = 0xFFFFFFFD
	secDIFAT      uint32 = 0xFFFFFFFC
	noStream      uint32 = 0xFFFFFFFF
)

var cfbMagic = [8]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// Parsing errors returned by parseCompound.
var (
	ErrInvalidMagic  = errors.New("not a compound document")
	ErrInvalidSector = errors.New("invalid sector size")
)

// Directory entry object types.
const (
	objStorage byte = 1
	objStream  byte = 2
	objRoot    byte = 5
)

type dirEntry struct {
	name        string
	objType     byte
	left        uint32
	right       uint32
	child       uint32
	startSector uint32
	size        uint64
}

// compound is a read-only view over a parsed compound document.
type compound struct {
	r          io.ReaderAt
	fat        []uint32
	miniFAT    []uint32
	dir        []dirEntry
	miniStream []byte
	sectorSize int
	miniCutoff uint32
}

// parseCompound reads the header, FAT, directory and mini stream.
func parseCompound(r io.ReaderAt) (*compound, error) {
	var h [headerSize]byte
	if _, err := r.ReadAt(h[:], 0); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	if [8]byte(h[0:8]) != cfbMagic {
		return nil, ErrInvalidMagic
	}

	sectorShift := binary.LittleEndian.Uint16(h[30:])
	if sectorShift != 9 && sectorShift != 12 {
		return nil, fmt.Errorf("%w: shift %d", ErrInvalidSector, sectorShift)
	}

	c := &compound{
		r:          r,
		sectorSize: 1 << sectorShift,
		miniCutoff: binary.LittleEndian.Uint32(h[56:]),
	}

	numFAT := binary.LittleEndian.Uint32(h[44:])
	firstDir := binary.LittleEndian.Uint32(h[48:])
	firstMiniFAT := binary.LittleEndian.Uint32(h[60:])
	numMiniFAT := binary.LittleEndian.Uint32(h[64:])
	firstDIFAT := binary.LittleEndian.Uint32(h[68:])
	numDIFAT := binary.LittleEndian.Uint32(h[72:])

	fatSectors, err := c.readDIFAT(h[:], numFAT, firstDIFAT, numDIFAT)
	if err != nil {
		return nil, fmt.Errorf("difat: %w", err)
	}

	if err := c.readFAT(fatSectors); err != nil {
		return nil, fmt.Errorf("fat: %w", err)
	}

	if err := c.readDirectory(firstDir); err != nil {
		return nil, fmt.Errorf("directory: %w", err)
	}

	if err := c.readMiniFAT(firstMiniFAT, numMiniFAT); err != nil {
		return nil, fmt.Errorf("minifat: %w", err)
	}

	// The mini stream lives in the root entry's regular chain.
	if len(c.dir) > 0 && c.dir[0].size > 0 {
		ms, err := c.readChain(c.dir[0].startSector, c.dir[0].size)
		if err != nil {
			return nil, fmt.Errorf("mini stream: %w", err)
		}
		c.miniStream = ms
	}

	return c, nil
}

// readSector reads regular sector i. Sector 0 starts right after the header.
func (c *compound) readSector(i uint32) ([]byte, error) {
	buf := make([]byte, c.sectorSize)
	off := (int64(i) + 1) * int64(c.sectorSize)
	if _, err := c.r.ReadAt(buf, off); err != nil {
		return nil, fmt.Errorf("sector %d: %w", i, err)
	}
	return buf, nil
}

// readDIFAT collects the FAT sector locations: 109 entries in the header,
// then chained DIFAT sectors.
func (c *compound) readDIFAT(header []byte, numFAT, firstDIFAT, numDIFAT uint32) ([]uint32, error) {
	var fatSectors []uint32
	for i := 0; i < 109; i++ {
		s := binary.LittleEndian.Uint32(header[76+i*4:])
		if s >= secDIFAT {
			continue
		}
		fatSectors = append(fatSectors, s)
	}

	next := firstDIFAT
	for i := uint32(0); i < numDIFAT && next < secDIFAT; i++ {
		sec, err := c.readSector(next)
		if err != nil {
			return nil, err
		}
		entries := c.sectorSize/4 - 1
		for j := 0; j < entries; j++ {
			s := binary.LittleEndian.Uint32(sec[j*4:])
			if s >= secDIFAT {
				continue
			}
			fatSectors = append(fatSectors, s)
		}
		next = binary.LittleEndian.Uint32(sec[len(sec)-4:])
	}

	if uint32(len(fatSectors)) < numFAT {
		return nil, fmt.Errorf("header declares %d FAT sectors, DIFAT lists %d", numFAT, len(fatSectors))
	}
	return fatSectors[:numFAT], nil
}

func (c *compound) readFAT(fatSectors []uint32) error {
	for _, s := range fatSectors {
		sec, err := c.readSector(s)
		if err != nil {
			return err
		}
		for off := 0; off < len(sec); off += 4 {
			c.fat = append(c.fat, binary.LittleEndian.Uint32(sec[off:]))
		}
	}
	return nil
}

func (c *compound) readMiniFAT(first, count uint32) error {
	next := first
	for i := uint32(0); i < count && next < secDIFAT; i++ {
		sec, err := c.readSector(next)
		if err != nil {
			return err
		}
		for off := 0; off < len(sec); off += 4 {
			c.miniFAT = append(c.miniFAT, binary.LittleEndian.Uint32(sec[off:]))
		}
		next, err = c.nextSector(next)
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *compound) nextSector(s uint32) (uint32, error) {
	if int(s) >= len(c.fat) {
		return 0, fmt.Errorf("sector %d outside FAT", s)
	}
	return c.fat[s], nil
}

// readChain follows a regular FAT chain and returns size bytes.
// Chain length is capped at the FAT size to break cycles in corrupt files.
func (c *compound) readChain(start uint32, size uint64) ([]byte, error) {
	out := make([]byte, 0, size)
	s := start
	for steps := 0; s < secDIFAT; steps++ {
		if steps > len(c.fat) {
			return nil, errors.New("FAT chain cycle")
		}
		sec, err := c.readSector(s)
		if err != nil {
			return nil, err
		}
		out = append(out, sec...)
		s, err = c.nextSector(s)
		if err != nil {
			return nil, err
		}
	}
	if uint64(len(out)) < size {
		return nil, fmt.Errorf("chain ends after %d of %d bytes", len(out), size)
	}
	return out[:size], nil
}

// readMiniChain follows a mini-FAT chain through the mini stream.
func (c *compound) readMiniChain(start uint32, size uint64) ([]byte, error) {
	out := make([]byte, 0, size)
	s := start
	for steps := 0; s < secDIFAT; steps++ {
		if steps > len(c.miniFAT) {
			return nil, errors.New("mini-FAT chain cycle")
		}
		off := int(s) * miniSectorSize
		if off+miniSectorSize > len(c.miniStream) {
			return nil, fmt.Errorf("mini sector %d outside mini stream", s)
		}
		out = append(out, c.miniStream[off:off+miniSectorSize]...)
		if int(s) >= len(c.miniFAT) {
			return nil, fmt.Errorf("mini sector %d outside mini FAT", s)
		}
		s = c.miniFAT[s]
	}
	if uint64(len(out)) < size {
		return nil, fmt.Errorf("mini chain ends after %d of %d bytes", len(out), size)
	}
	return out[:size], nil
}

func (c *compound) readDirectory(first uint32) error {
	// The directory chain length is not in the header (v3); follow the FAT.
	s := first
	for steps := 0; s < secDIFAT; steps++ {
		if steps > len(c.fat) {
			return errors.New("directory chain cycle")
		}
		sec, err := c.readSector(s)
		if err != nil {
			return err
		}
		for off := 0; off+dirEntrySize <= len(sec); off += dirEntrySize {
			e, err := parseDirEntry(sec[off : off+dirEntrySize])
			if err != nil {
				return err
			}
			c.dir = append(c.dir, e)
		}
		s, err = c.nextSector(s)
		if err != nil {
			return err
		}
	}
	if len(c.dir) == 0 || c.dir[0].objType != objRoot {
		return errors.New("missing root directory entry")
	}
	return nil
}

func parseDirEntry(b []byte) (dirEntry, error) {
	nameLen := int(binary.LittleEndian.Uint16(b[64:]))
	if nameLen > 64 {
		return dirEntry{}, fmt.Errorf("directory name length %d out of range", nameLen)
	}
	name := ""
	if nameLen >= 2 {
		// nameLen counts the UTF-16 terminator.
		s, err := decodeUTF16(b[:nameLen-2])
		if err != nil {
			return dirEntry{}, fmt.Errorf("directory name: %w", err)
		}
		name = s
	}
	return dirEntry{
		name:        name,
		objType:     b[66],
		left:        binary.LittleEndian.Uint32(b[68:]),
		right:       binary.LittleEndian.Uint32(b[72:]),
		child:       binary.LittleEndian.Uint32(b[76:]),
		startSector: binary.LittleEndian.Uint32(b[116:]),
		size:        binary.LittleEndian.Uint64(b[120:]),
	}, nil
}

// children walks the red-black sibling tree rooted at parent.child and
// returns the entries in traversal order.
func (c *compound) children(parent *dirEntry) ([]*dirEntry, error) {
	var out []*dirEntry
	seen := make(map[uint32]bool)

	var walk func(idx uint32) error
	walk = func(idx uint32) error {
		if idx == noStream {
			return nil
		}
		if int(idx) >= len(c.dir) {
			return fmt.Errorf("directory index %d out of range", idx)
		}
		if seen[idx] {
			return errors.New("directory sibling cycle")
		}
		seen[idx] = true
		e := &c.dir[idx]
		if err := walk(e.left); err != nil {
			return err
		}
		out = append(out, e)
		return walk(e.right)
	}

	if err := walk(parent.child); err != nil {
		return nil, err
	}
	return out, nil
}

// storage finds a named storage among the root's children.
func (c *compound) storage(name string) (*dirEntry, error) {
	kids, err := c.children(&c.dir[0])
	if err != nil {
		return nil, err
	}
	for _, e := range kids {
		if e.objType == objStorage && e.name == name {
			return e, nil
		}
	}
	return nil, fmt.Errorf("storage %q not found", name)
}

// streamData reads the full payload of a stream entry, choosing the mini
// stream for payloads under the cutoff.
func (c *compound) streamData(e *dirEntry) ([]byte, error) {
	if e.size == 0 {
		return nil, nil
	}
	if e.size < uint64(c.miniCutoff) {
		return c.readMiniChain(e.startSector, e.size)
	}
	return c.readChain(e.startSector, e.size)
}

var utf16Decoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

func decodeUTF16(b []byte) (string, error) {
	out, _, err := transform.Bytes(utf16Decoder.NewDecoder(), b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
