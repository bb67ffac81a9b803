// Package vpxtest builds synthetic VPX containers for tests.
//
// Build produces a minimal but structurally valid compound document: one FAT
// sector, one mini-FAT sector, a directory with TableInfo and GameStg
// storages, and every stream small enough to live in the mini stream. It
// exists so decoder and extraction tests can run against real container
// bytes without shipping binary fixtures.
package vpxtest

import (
	"encoding/binary"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Table describes the container to build.
type Table struct {
	// Info maps TableInfo stream names (well-known or custom) to values.
	Info map[string]string
	// InfoOrder fixes the stream order; names absent from Info are skipped.
	// When nil, map iteration order is used.
	InfoOrder []string
	// ExtraRecords prepends raw BIFF records before CODE, keyed by tag,
	// for skip-path coverage.
	ExtraRecords map[string][]byte
	// Code is the script source stored in the GameData CODE record.
	Code string
}

const (
	sectorSize     = 512
	miniSectorSize = 64
	dirEntrySize   = 128

	secFree       uint32 = 0xFFFFFFFF
	secEndOfChain uint32 = 0xFFFFFFFE
	secFAT        uint32 = 0xFFFFFFFD
	noStream      uint32 = 0xFFFFFFFF
)

type stream struct {
	name      string
	data      []byte
	miniStart uint32
}

// Build returns the bytes of a synthetic .vpx container.
func Build(t Table) []byte {
	var infoStreams []stream
	names := t.InfoOrder
	if names == nil {
		for name := range t.Info {
			names = append(names, name)
		}
	}
	for _, name := range names {
		value, ok := t.Info[name]
		if !ok {
			continue
		}
		infoStreams = append(infoStreams, stream{name: name, data: encodeUTF16(value)})
	}

	gameStreams := []stream{{name: "GameData", data: buildGameData(t)}}

	// Lay out the mini stream and its FAT chains.
	var miniStream []byte
	var miniFAT []uint32
	place := func(streams []stream) {
		for i := range streams {
			s := &streams[i]
			if len(s.data) == 0 {
				s.miniStart = secEndOfChain
				continue
			}
			s.miniStart = uint32(len(miniFAT))
			sectors := (len(s.data) + miniSectorSize - 1) / miniSectorSize
			for j := 0; j < sectors-1; j++ {
				miniFAT = append(miniFAT, uint32(len(miniFAT))+1)
			}
			miniFAT = append(miniFAT, secEndOfChain)
			miniStream = append(miniStream, s.data...)
			if pad := sectors*miniSectorSize - len(s.data); pad > 0 {
				miniStream = append(miniStream, make([]byte, pad)...)
			}
		}
	}
	place(infoStreams)
	place(gameStreams)

	// Directory: root, TableInfo, GameStg, then streams in storage order.
	type entry struct {
		name        string
		objType     byte
		left        uint32
		right       uint32
		child       uint32
		startSector uint32
		size        uint64
	}

	chain := func(first int, n int) uint32 {
		if n == 0 {
			return noStream
		}
		return uint32(first)
	}

	infoFirst := 3
	gameFirst := infoFirst + len(infoStreams)

	entries := []entry{
		{name: "Root Entry", objType: 5, left: noStream, right: noStream,
			child: 1, size: uint64(len(miniStream))},
		{name: "TableInfo", objType: 1, left: noStream, right: 2,
			child: chain(infoFirst, len(infoStreams)), startSector: secEndOfChain},
		{name: "GameStg", objType: 1, left: noStream, right: noStream,
			child: chain(gameFirst, len(gameStreams)), startSector: secEndOfChain},
	}
	appendStreams := func(streams []stream, first int) {
		for i, s := range streams {
			right := noStream
			if i < len(streams)-1 {
				right = uint32(first + i + 1)
			}
			entries = append(entries, entry{
				name: s.name, objType: 2, left: noStream, right: right,
				child: noStream, startSector: s.miniStart, size: uint64(len(s.data)),
			})
		}
	}
	appendStreams(infoStreams, infoFirst)
	appendStreams(gameStreams, gameFirst)

	// Sector layout: directory, mini FAT, mini stream, FAT.
	entriesPerSector := sectorSize / dirEntrySize
	nDir := (len(entries) + entriesPerSector - 1) / entriesPerSector
	nMini := (len(miniStream) + sectorSize - 1) / sectorSize
	miniFATSector := uint32(nDir)
	miniFirst := uint32(nDir + 1)
	fatSector := uint32(nDir + 1 + nMini)
	totalSectors := nDir + 1 + nMini + 1

	entries[0].startSector = miniFirst
	if len(miniStream) == 0 {
		entries[0].startSector = secEndOfChain
	}

	// FAT for the regular sectors.
	fat := make([]uint32, sectorSize/4)
	for i := range fat {
		fat[i] = secFree
	}
	for i := 0; i < nDir-1; i++ {
		fat[i] = uint32(i + 1)
	}
	fat[nDir-1] = secEndOfChain
	fat[miniFATSector] = secEndOfChain
	for i := 0; i < nMini-1; i++ {
		fat[int(miniFirst)+i] = miniFirst + uint32(i) + 1
	}
	if nMini > 0 {
		fat[int(miniFirst)+nMini-1] = secEndOfChain
	}
	fat[fatSector] = secFAT

	out := make([]byte, 0, 512+totalSectors*sectorSize)
	out = append(out, buildHeader(miniFATSector, fatSector)...)

	// Directory sectors.
	dirBytes := make([]byte, nDir*sectorSize)
	for i, e := range entries {
		writeDirEntry(dirBytes[i*dirEntrySize:(i+1)*dirEntrySize], e.name,
			e.objType, e.left, e.right, e.child, e.startSector, e.size)
	}
	// Free entries keep noStream pointers so tree walks stay closed.
	for i := len(entries); i < nDir*entriesPerSector; i++ {
		writeDirEntry(dirBytes[i*dirEntrySize:(i+1)*dirEntrySize], "",
			0, noStream, noStream, noStream, secFree, 0)
	}
	out = append(out, dirBytes...)

	// Mini FAT sector.
	miniFATBytes := make([]byte, sectorSize)
	for i := 0; i < sectorSize/4; i++ {
		v := secFree
		if i < len(miniFAT) {
			v = miniFAT[i]
		}
		binary.LittleEndian.PutUint32(miniFATBytes[i*4:], v)
	}
	out = append(out, miniFATBytes...)

	// Mini stream sectors.
	miniBytes := make([]byte, nMini*sectorSize)
	copy(miniBytes, miniStream)
	out = append(out, miniBytes...)

	// FAT sector.
	fatBytes := make([]byte, sectorSize)
	for i, v := range fat {
		binary.LittleEndian.PutUint32(fatBytes[i*4:], v)
	}
	out = append(out, fatBytes...)

	return out
}

func buildHeader(miniFATSector, fatSector uint32) []byte {
	h := make([]byte, 512)
	copy(h, []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1})
	binary.LittleEndian.PutUint16(h[24:], 0x003E) // minor version
	binary.LittleEndian.PutUint16(h[26:], 0x0003) // major version 3
	binary.LittleEndian.PutUint16(h[28:], 0xFFFE) // little endian
	binary.LittleEndian.PutUint16(h[30:], 9)      // 512-byte sectors
	binary.LittleEndian.PutUint16(h[32:], 6)      // 64-byte mini sectors
	binary.LittleEndian.PutUint32(h[44:], 1)      // one FAT sector
	binary.LittleEndian.PutUint32(h[48:], 0)      // directory starts at sector 0
	binary.LittleEndian.PutUint32(h[56:], 4096)   // mini stream cutoff
	binary.LittleEndian.PutUint32(h[60:], miniFATSector)
	binary.LittleEndian.PutUint32(h[64:], 1) // one mini FAT sector
	binary.LittleEndian.PutUint32(h[68:], secEndOfChain)
	binary.LittleEndian.PutUint32(h[72:], 0) // no DIFAT sectors
	binary.LittleEndian.PutUint32(h[76:], fatSector)
	for i := 1; i < 109; i++ {
		binary.LittleEndian.PutUint32(h[76+i*4:], secFree)
	}
	return h
}

func writeDirEntry(b []byte, name string, objType byte, left, right, child, start uint32, size uint64) {
	nameBytes := encodeUTF16(name)
	copy(b[:64], nameBytes)
	if name != "" {
		binary.LittleEndian.PutUint16(b[64:], uint16(len(nameBytes)+2))
	}
	b[66] = objType
	b[67] = 1 // black
	binary.LittleEndian.PutUint32(b[68:], left)
	binary.LittleEndian.PutUint32(b[72:], right)
	binary.LittleEndian.PutUint32(b[76:], child)
	binary.LittleEndian.PutUint32(b[116:], start)
	binary.LittleEndian.PutUint64(b[120:], size)
}

func buildGameData(t Table) []byte {
	var b []byte
	u32 := func(v uint32) {
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], v)
		b = append(b, tmp[:]...)
	}
	tag4 := func(tag string) {
		for len(tag) < 4 {
			tag += " "
		}
		b = append(b, tag[:4]...)
	}

	for tag, payload := range t.ExtraRecords {
		u32(uint32(4 + len(payload)))
		tag4(tag)
		b = append(b, payload...)
	}

	u32(4)
	tag4("CODE")
	u32(uint32(len(t.Code)))
	b = append(b, t.Code...)

	u32(4)
	tag4("ENDB")
	return b
}

func encodeUTF16(s string) []byte {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	out, _, err := transform.Bytes(enc, []byte(s))
	if err != nil {
		// Inputs are test-authored literals; an encode failure is a test bug.
		panic(err)
	}
	return out
}
