// Package vpx decodes Visual Pinball X table containers.
//
// A .vpx file is an OLE2 compound document. This package reads the subset of
// that format VPX uses: the FAT and mini-FAT sector chains, the directory
// tree, and the mini stream. On top of the container it decodes two records:
//
//   - the TableInfo storage, whose UTF-16LE streams describe the table
//     (name, author, version, ...) plus free-form custom properties
//   - the GameStg/GameData stream, a BIFF record sequence whose CODE record
//     embeds the table's script source
//
// The package exposes exactly three operations: Open a path to a *File, then
// ReadTableInfo and ReadGameData on it. Errors are structured
// (vpxinfo/errors); anything the bounds checks miss is recovered at the
// extraction layer's isolation boundary, never here.
package vpx
