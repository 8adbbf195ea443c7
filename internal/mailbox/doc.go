// Package mailbox reads mail archives from local disk and serves them to
// the export pipeline as a message source.
//
// Two archive formats are supported: a directory of .eml files and a single
// mbox file. Every message is parsed once when the archive is opened and its
// MIME tree is converted into the typed tree of the message package. Part
// contents are kept inline in base64url form, so a Mailbox never needs to
// fetch attachment blobs out of line.
//
// Queries of the form subject:<value> match messages whose Subject header
// contains value, ignoring case. Any other query matches every message.
package mailbox
