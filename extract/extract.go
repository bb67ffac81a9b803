package extract

import (
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/surtarso/vpxinfo/errors"
	"github.com/surtarso/vpxinfo/vpx"
)

// Container is the decoder's view of an open table container.
// *vpx.File satisfies it.
type Container interface {
	ReadTableInfo() (*vpx.TableInfo, error)
	ReadGameData() (*vpx.GameData, error)
	Close() error
}

// OpenFunc opens a container by path.
type OpenFunc func(path string) (Container, error)

func defaultOpen(path string) (Container, error) {
	f, err := vpx.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Extractor runs extraction pipelines. The zero value is not usable; call
// New. An Extractor holds no mutable state and is safe for concurrent use.
type Extractor struct {
	open OpenFunc
	log  *zap.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithOpen substitutes the container opener. Used by tests.
func WithOpen(open OpenFunc) Option {
	return func(e *Extractor) { e.open = open }
}

// WithLogger sets a logger for this Extractor instead of the package logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) { e.log = l }
}

// New creates an Extractor backed by the vpx decoder.
func New(opts ...Option) *Extractor {
	e := &Extractor{open: defaultOpen}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Extractor) logger() *zap.Logger {
	if e.log != nil {
		return e.log
	}
	return Logger()
}

// tableInfoDocument is the serialized shape of a table-info record. Every
// key is always present; absent fields serialize as empty strings.
type tableInfoDocument struct {
	TableName        string            `json:"table_name"`
	AuthorName       string            `json:"author_name"`
	TableBlurb       string            `json:"table_blurb"`
	TableRules       string            `json:"table_rules"`
	AuthorEmail      string            `json:"author_email"`
	ReleaseDate      string            `json:"release_date"`
	TableSaveRev     string            `json:"table_save_rev"`
	TableVersion     string            `json:"table_version"`
	AuthorWebSite    string            `json:"author_website"`
	TableSaveDate    string            `json:"table_save_date"`
	TableDescription string            `json:"table_description"`
	Properties       map[string]string `json:"properties"`
}

// TableInfoJSON opens the container at path and returns its table-info
// record as a JSON document.
func (e *Extractor) TableInfoJSON(path string) (string, error) {
	return e.guard(path, func() (string, error) {
		c, err := e.open(path)
		if err != nil {
			e.logger().Error("open failed", zap.String("path", path), zap.Error(err))
			return "", err
		}
		defer c.Close()

		info, err := c.ReadTableInfo()
		if err != nil {
			e.logger().Error("table info read failed", zap.String("path", path), zap.Error(err))
			return "", err
		}

		doc := tableInfoDocument{
			TableName:        info.TableName,
			AuthorName:       info.AuthorName,
			TableBlurb:       info.TableBlurb,
			TableRules:       info.TableRules,
			AuthorEmail:      info.AuthorEmail,
			ReleaseDate:      info.ReleaseDate,
			TableSaveRev:     info.TableSaveRev,
			TableVersion:     info.TableVersion,
			AuthorWebSite:    info.AuthorWebSite,
			TableSaveDate:    info.TableSaveDate,
			TableDescription: info.TableDescription,
			Properties:       make(map[string]string, len(info.Properties)),
		}
		// Plain insert: a repeated key from the decoder overwrites silently.
		for k, v := range info.Properties {
			doc.Properties[k] = v
		}

		// JSON escapes control characters, so the serialized document never
		// carries a raw NUL byte.
		b, err := json.Marshal(doc)
		if err != nil {
			serr := errors.New(errors.PhaseMarshal, errors.KindSerialization).
				File(path).Cause(err).Build()
			e.logger().Error("serialization failed", zap.String("path", path), zap.Error(serr))
			return "", serr
		}
		return string(b), nil
	})
}

// GameDataCode opens the container at path and returns the embedded script
// source exactly as decoded. Script text containing a NUL byte is rejected
// rather than truncated.
func (e *Extractor) GameDataCode(path string) (string, error) {
	return e.guard(path, func() (string, error) {
		c, err := e.open(path)
		if err != nil {
			e.logger().Error("open failed", zap.String("path", path), zap.Error(err))
			return "", err
		}
		defer c.Close()

		gd, err := c.ReadGameData()
		if err != nil {
			e.logger().Error("game data read failed", zap.String("path", path), zap.Error(err))
			return "", err
		}

		if strings.IndexByte(gd.Code, 0) >= 0 {
			nerr := errors.EmbeddedNull(path)
			e.logger().Error("script not representable", zap.String("path", path), zap.Error(nerr))
			return "", nerr
		}
		return gd.Code, nil
	})
}

// guard is the crash isolation boundary. A panic anywhere in fn, decoder
// included, becomes an internal-fault error; it never unwinds past here.
// The scope protects against abrupt in-process faults only, not against
// memory already corrupted before the fault fired.
func (e *Extractor) guard(path string, fn func() (string, error)) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = ""
			err = errors.Internal(path, r)
			e.logger().Error("fault caught at isolation boundary",
				zap.String("path", path), zap.Any("recovered", r))
		}
	}()
	return fn()
}
