package vpx

import (
	"encoding/binary"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/surtarso/vpxinfo/errors"
)

// GameData is the decoded GameStg/GameData stream. Only the script source is
// surfaced; the remaining records describe gameplay state this library does
// not interpret.
type GameData struct {
	// Code is the embedded script source, byte-for-byte as stored.
	Code string
}

const (
	gameStorage    = "GameStg"
	gameDataStream = "GameData"
)

// ReadGameData walks the BIFF record sequence of the GameData stream and
// extracts the CODE record.
//
// Each record is a little-endian u32 size followed by size bytes beginning
// with a 4-byte tag. The CODE record is special: its size covers only the
// tag, and the script body follows as a separate u32 length-prefixed blob.
func (f *File) ReadGameData() (*GameData, error) {
	storage, err := f.c.storage(gameStorage)
	if err != nil {
		return nil, errors.DecodeFailed(f.path, err)
	}

	streams, err := f.c.children(storage)
	if err != nil {
		return nil, errors.DecodeFailed(f.path, err)
	}

	var data []byte
	found := false
	for _, s := range streams {
		if s.objType == objStream && s.name == gameDataStream {
			data, err = f.c.streamData(s)
			if err != nil {
				return nil, errors.DecodeFailed(f.path, err)
			}
			found = true
		}
	}
	if !found {
		return nil, errors.New(errors.PhaseDecode, errors.KindDecodeFailed).
			File(f.path).Detail("stream %q not found", gameDataStream).Build()
	}

	gd, err := parseGameData(data)
	if err != nil {
		return nil, errors.DecodeFailed(f.path, err)
	}

	Logger().Debug("game data decoded",
		zap.String("path", f.path),
		zap.Int("code_bytes", len(gd.Code)))

	return gd, nil
}

func parseGameData(data []byte) (*GameData, error) {
	gd := &GameData{}
	pos := 0
	for pos+4 <= len(data) {
		size := int(binary.LittleEndian.Uint32(data[pos:]))
		pos += 4
		if size < 4 || pos+size > len(data) {
			return nil, fmt.Errorf("record at %d: size %d out of range", pos-4, size)
		}
		tag := strings.TrimRight(string(data[pos:pos+4]), " \x00")
		pos += size

		switch tag {
		case "CODE":
			// Script body follows the record with its own length prefix.
			if pos+4 > len(data) {
				return nil, fmt.Errorf("CODE record: missing length prefix")
			}
			n := int(binary.LittleEndian.Uint32(data[pos:]))
			pos += 4
			if n < 0 || pos+n > len(data) {
				return nil, fmt.Errorf("CODE record: script length %d out of range", n)
			}
			gd.Code = string(data[pos : pos+n])
			pos += n
		case "ENDB":
			return gd, nil
		}
	}
	return gd, nil
}
