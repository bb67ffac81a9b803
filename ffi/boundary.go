package ffi

import (
	"github.com/surtarso/vpxinfo/errors"
	"github.com/surtarso/vpxinfo/extract"
)

// extractor is stateless; sharing one instance keeps calls independent.
var extractor = extract.New()

// TableInfoJSON is the Go-typed pipeline behind get_vpx_table_info_as_json:
// path validation, crash-isolated extraction, serialization. The path is the
// raw byte content of the caller's C string; nil means a NULL pointer.
func TableInfoJSON(path []byte) (string, error) {
	p, err := extract.ValidatePath(path)
	if err != nil {
		return "", err
	}
	return extractor.TableInfoJSON(p)
}

// GameDataCode is the Go-typed pipeline behind get_vpx_gamedata_code.
func GameDataCode(path []byte) (string, error) {
	p, err := extract.ValidatePath(path)
	if err != nil {
		return "", err
	}
	return extractor.GameDataCode(p)
}

// allocFailure is the diagnostic for a result buffer the C heap refused.
func allocFailure(bytes int) *errors.Error {
	return errors.New(errors.PhaseMarshal, errors.KindAllocation).
		Detail("result buffer of %d bytes", bytes).Build()
}
