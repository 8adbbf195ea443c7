// Package cmd implements the command-line interface for payslip.
//
// This package provides the following commands:
//   - export: Export and upload the payslip PDFs of all matching emails
//   - auth: Authorize access to Gmail and Google Drive
//   - version: Display version information
//
// The export command is the default command when no subcommand is specified.
package cmd
