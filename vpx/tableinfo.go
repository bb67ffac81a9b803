package vpx

import (
	"go.uber.org/zap"

	"github.com/surtarso/vpxinfo/errors"
)

// TableInfo is the decoded TableInfo storage of a container.
// Fields absent from the file decode to empty strings.
type TableInfo struct {
	Properties       map[string]string
	TableName        string
	AuthorName       string
	TableBlurb       string
	TableRules       string
	AuthorEmail      string
	ReleaseDate      string
	TableSaveRev     string
	TableVersion     string
	AuthorWebSite    string
	TableSaveDate    string
	TableDescription string
}

// tableInfoStorage is the storage name VPX uses for table metadata.
const tableInfoStorage = "TableInfo"

// ReadTableInfo decodes the TableInfo storage. Streams with well-known names
// become fixed fields; every other stream becomes a Properties entry. When
// the container repeats a name the last stream wins.
func (f *File) ReadTableInfo() (*TableInfo, error) {
	storage, err := f.c.storage(tableInfoStorage)
	if err != nil {
		return nil, errors.DecodeFailed(f.path, err)
	}

	streams, err := f.c.children(storage)
	if err != nil {
		return nil, errors.DecodeFailed(f.path, err)
	}

	info := &TableInfo{Properties: make(map[string]string)}
	for _, s := range streams {
		if s.objType != objStream {
			continue
		}
		data, err := f.c.streamData(s)
		if err != nil {
			return nil, errors.New(errors.PhaseDecode, errors.KindDecodeFailed).
				File(f.path).Detail("stream %q", s.name).Cause(err).Build()
		}
		value, err := decodeUTF16(data)
		if err != nil {
			return nil, errors.New(errors.PhaseDecode, errors.KindDecodeFailed).
				File(f.path).Detail("stream %q text", s.name).Cause(err).Build()
		}

		if field := info.field(s.name); field != nil {
			*field = value
		} else {
			info.Properties[s.name] = value
		}
	}

	Logger().Debug("table info decoded",
		zap.String("path", f.path),
		zap.String("table", info.TableName),
		zap.Int("properties", len(info.Properties)))

	return info, nil
}

// field maps a stream name to its fixed field, or nil for custom properties.
func (t *TableInfo) field(stream string) *string {
	switch stream {
	case "TableName":
		return &t.TableName
	case "AuthorName":
		return &t.AuthorName
	case "TableBlurb":
		return &t.TableBlurb
	case "TableRules":
		return &t.TableRules
	case "AuthorEmail":
		return &t.AuthorEmail
	case "ReleaseDate":
		return &t.ReleaseDate
	case "TableSaveRev":
		return &t.TableSaveRev
	case "TableVersion":
		return &t.TableVersion
	case "AuthorWebSite":
		return &t.AuthorWebSite
	case "TableSaveDate":
		return &t.TableSaveDate
	case "TableDescription":
		return &t.TableDescription
	}
	return nil
}
