// Package pdftest builds small PDF documents for tests.
package pdftest

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Build returns a valid PDF with the given number of pages. Each page draws
// a line whose length depends on its index, so pages are distinguishable.
func Build(pages int) []byte {
	if pages < 1 {
		pages = 1
	}

	var buf bytes.Buffer
	offsets := []int{}

	// Objects: 1 catalog, 2 page tree, then a page and a content stream
	// for every page.
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	obj("<< /Type /Catalog /Pages 2 0 R >>")

	kids := ""
	for i := 0; i < pages; i++ {
		kids += fmt.Sprintf("%d 0 R ", 3+2*i)
	}
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pages))

	for i := 0; i < pages; i++ {
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> /Contents %d 0 R >>", 4+2*i))
		content := fmt.Sprintf("10 10 m %d %d l S", 50+10*i, 50+10*i)
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R /ID [<70617973> <70617973>] >>\n", len(offsets)+1)
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xref)

	return buf.Bytes()
}

// Encrypt protects raw with AES-256 using password as both user and owner
// password.
func Encrypt(raw []byte, password string) ([]byte, error) {
	var buf bytes.Buffer
	conf := model.NewAESConfiguration(password, password, 256)
	if err := api.Encrypt(bytes.NewReader(raw), &buf, conf); err != nil {
		return nil, fmt.Errorf("failed to encrypt pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// EncryptOwnerOnly protects raw with AES-256 using an empty user password
// and ownerPassword, so the document opens without a password but carries
// encryption.
func EncryptOwnerOnly(raw []byte, ownerPassword string) ([]byte, error) {
	var buf bytes.Buffer
	conf := model.NewAESConfiguration("", ownerPassword, 256)
	conf.Permissions = model.PermissionsAll
	if err := api.Encrypt(bytes.NewReader(raw), &buf, conf); err != nil {
		return nil, fmt.Errorf("failed to encrypt pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildEncrypted returns an encrypted PDF with the given number of pages
func BuildEncrypted(pages int, password string) ([]byte, error) {
	return Encrypt(Build(pages), password)
}
