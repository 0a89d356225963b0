// Package storage provides JSON-based persistence for pipeline stage
// snapshots.
//
// Each pipeline stage writes its full output once: the discovered link
// list to links.json and the parsed detail records to details.json. A
// later stage reads the previous stage's file, so a crashed run can be
// resumed stage-by-stage at "redo this whole stage" granularity. The
// default location is ~/.local/share/seattle-events/.
package storage
