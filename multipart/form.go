package multipart

import "errors"

// Kind discriminates the two variants a decoded form value can take.
type Kind uint8

const (
	// KindText is a plain value field decoded as text.
	KindText Kind = iota
	// KindFile is a file upload, in memory or on disk.
	KindFile
)

// Value is one decoded form field: either text or an uploaded file,
// discriminated by Kind. Params carries the parsed Content-Disposition
// parameters of the originating part.
type Value struct {
	Kind   Kind
	Text   string
	File   UploadedFile
	Params map[string]string
}

// Form maps field names to their decoded values.
type Form map[string]Value

// Text returns the text value of the named field, or the empty string when
// the field is absent or is a file upload.
func (f Form) Text(name string) string {
	v, ok := f[name]
	if !ok || v.Kind != KindText {
		return ""
	}
	return v.Text
}

// File returns the uploaded file of the named field, or nil when the field
// is absent or is a plain text value.
func (f Form) File(name string) UploadedFile {
	v, ok := f[name]
	if !ok || v.Kind != KindFile {
		return nil
	}
	return v.File
}

// Close releases every file-backed value in the form, removing temporary
// files that were not saved elsewhere.
func (f Form) Close() error {
	var errs []error
	for _, v := range f {
		if v.File != nil {
			if err := v.File.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
