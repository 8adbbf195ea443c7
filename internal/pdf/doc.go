// Package pdf removes password protection from PDF documents.
//
// Normalize loads a document, unlocks it with the given password when it is
// encrypted, and re-serializes every page, in order, into a plain PDF file.
// Unencrypted input passes through unchanged apart from re-serialization.
// The written file is verified to be unencrypted and to carry the input's
// page contents, page by page, before it replaces the destination.
// Documents protected by an owner password only are opened with an empty
// user password when the supplied one does not match.
//
// Decryption is provided by github.com/pdfcpu/pdfcpu.
package pdf
