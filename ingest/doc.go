// Package ingest decodes input documents into query values.
//
// Every supported encoding produces the same value model: null, booleans,
// numbers, strings, lists and ordered objects. Decoders keep the member
// order of the document where the underlying parser reports it (JSON, JSON5,
// YAML, TOML, INI, XML, CSV, env); script objects are sorted by key.
//
// Tabular formats produce a list of objects keyed by the header row, with
// each cell typed by content. XML elements become objects with "@attr" and
// "#text" members. Script files (.js, .ts, .mjs, .cjs) are not executed:
// only the literal after "export default" or "module.exports =" is
// evaluated, as an expression.
package ingest
