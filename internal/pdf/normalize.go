package pdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// Keep pdfcpu from creating its config directory under the user's home.
	api.DisableConfigDir()
}

// Info describes a loaded document
type Info struct {
	Encrypted bool
	Pages     int
}

// Result describes a written export artifact
type Result struct {
	Path      string
	Pages     int
	Decrypted bool
}

func newConfig(password string) *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.UserPW = password
	conf.OwnerPW = password
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// load reads raw, decrypting it with password when needed. Documents that
// only carry an owner password open with an empty user password, so that is
// tried before giving up. The password that opened the document is returned.
func load(raw []byte, password string) (*model.Context, string, error) {
	ctx, err := api.ReadContext(bytes.NewReader(raw), newConfig(password))
	if err != nil && password != "" && isPasswordError(err) {
		if fallback, ferr := api.ReadContext(bytes.NewReader(raw), newConfig("")); ferr == nil {
			ctx, password = fallback, ""
			err = nil
		}
	}
	if err != nil {
		if isPasswordError(err) {
			return nil, "", &DecryptionError{Err: err}
		}
		return nil, "", fmt.Errorf("failed to read pdf: %w", err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, "", fmt.Errorf("failed to count pdf pages: %w", err)
	}
	return ctx, password, nil
}

// pageContents returns the decoded content stream of every page, in page
// order. A page without content yields an empty slice.
func pageContents(ctx *model.Context) ([][]byte, error) {
	contents := make([][]byte, 0, ctx.PageCount)
	for i := 1; i <= ctx.PageCount; i++ {
		r, err := pdfcpu.ExtractPageContent(ctx, i)
		if err != nil {
			return nil, fmt.Errorf("failed to read content of page %d: %w", i, err)
		}
		var content []byte
		if r != nil {
			if content, err = io.ReadAll(r); err != nil {
				return nil, fmt.Errorf("failed to read content of page %d: %w", i, err)
			}
		}
		contents = append(contents, content)
	}
	return contents, nil
}

// Inspect loads raw as a PDF document, decrypting it with password when
// needed, and reports whether it is encrypted and how many pages it has.
func Inspect(raw []byte, password string) (Info, error) {
	ctx, _, err := load(raw, password)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Encrypted: ctx.Encrypt != nil,
		Pages:     ctx.PageCount,
	}, nil
}

// PageContents returns the decoded content stream of every page of raw,
// in page order.
func PageContents(raw []byte, password string) ([][]byte, error) {
	ctx, _, err := load(raw, password)
	if err != nil {
		return nil, err
	}
	return pageContents(ctx)
}

// Normalize writes raw to dst as an unencrypted PDF with the same pages in
// the same order. Encrypted input is unlocked with password; otherwise
// password is ignored. A wrong password yields a DecryptionError and dst is
// left untouched. An existing file at dst is replaced.
func Normalize(raw []byte, password, dst string) (*Result, error) {
	in, password, err := load(raw, password)
	if err != nil {
		return nil, err
	}
	inContents, err := pageContents(in)
	if err != nil {
		return nil, err
	}
	encrypted := in.Encrypt != nil

	var buf bytes.Buffer
	if encrypted {
		err = api.Decrypt(bytes.NewReader(raw), &buf, newConfig(password))
	} else {
		err = api.Optimize(bytes.NewReader(raw), &buf, newConfig(password))
	}
	if err != nil {
		if isPasswordError(err) {
			return nil, &DecryptionError{Err: err}
		}
		return nil, fmt.Errorf("failed to rewrite pdf: %w", err)
	}

	if err := verify(buf.Bytes(), inContents); err != nil {
		return nil, err
	}

	if err := writeFileAtomic(dst, buf.Bytes()); err != nil {
		return nil, err
	}

	return &Result{
		Path:      dst,
		Pages:     len(inContents),
		Decrypted: encrypted,
	}, nil
}

// verify checks that out is unencrypted and carries want as its page
// contents, page by page.
func verify(out []byte, want [][]byte) error {
	ctx, _, err := load(out, "")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPostcondition, err)
	}
	if ctx.Encrypt != nil {
		return fmt.Errorf("%w: output is still encrypted", ErrPostcondition)
	}
	if ctx.PageCount != len(want) {
		return fmt.Errorf("%w: output has %d pages, input has %d", ErrPostcondition, ctx.PageCount, len(want))
	}

	got, err := pageContents(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPostcondition, err)
	}
	for i := range want {
		if !bytes.Equal(got[i], want[i]) {
			return fmt.Errorf("%w: content of page %d changed", ErrPostcondition, i+1)
		}
	}
	return nil
}

// exportPerm matches what a plain file create yields under the usual umask
const exportPerm = 0o644

// writeFileAtomic writes data next to dst and renames it into place, so
// readers never observe a partial file.
func writeFileAtomic(dst string, data []byte) error {
	dir := filepath.Dir(dst)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	if err := tmp.Chmod(exportPerm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to set mode of %s: %w", dst, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync %s: %w", dst, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", dst, err)
	}

	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move %s into place: %w", dst, err)
	}
	return nil
}
