// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package srcjar writes and reads hermetic source archives.
//
// Archives carry a fixed modification time and mode on every entry and are
// stored without compression, so that their bytes depend only on entry names
// and contents.
package srcjar

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Timestamp is the modification time applied to every archive entry.
var Timestamp = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

// Mode is the file mode applied to every archive entry.
const Mode = 0644

// AddHermetic adds a single entry to w with normalized metadata.
func AddHermetic(w *zip.Writer, name string, data []byte) (err error) {
	hdr := &zip.FileHeader{
		Name:     name,
		Method:   zip.Store,
		Modified: Timestamp,
	}
	hdr.SetMode(Mode)

	f, err := w.CreateHeader(hdr)

	if err != nil {
		return
	}

	_, err = f.Write(data)

	return
}

// WriteArchive creates (or replaces) the archive at p holding a single entry.
func WriteArchive(p string, name string, data []byte) (err error) {
	if dir := filepath.Dir(p); dir != "" {
		if err = os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("could not create %s, %w", dir, err)
		}
	}

	f, err := os.Create(p)

	if err != nil {
		return
	}

	defer func() {
		if e := f.Close(); e != nil && err == nil {
			err = e
		}
	}()

	w := zip.NewWriter(f)

	if err = AddHermetic(w, name, data); err != nil {
		return fmt.Errorf("could not add %s to %s, %w", name, p, err)
	}

	if err = w.Close(); err != nil {
		return fmt.Errorf("could not finalize %s, %w", p, err)
	}

	return
}

// ReadEntry returns the content of a named entry within the archive at p.
func ReadEntry(p string, name string) (buf []byte, err error) {
	reader, err := zip.OpenReader(p)

	if err != nil {
		return
	}
	defer reader.Close()

	f, err := reader.Open(name)

	if err != nil {
		return nil, fmt.Errorf("could not open %s, %w", name, err)
	}
	defer f.Close()

	return io.ReadAll(f)
}

// Entries returns the entry names of the archive at p, in archive order.
func Entries(p string) (names []string, err error) {
	reader, err := zip.OpenReader(p)

	if err != nil {
		return
	}
	defer reader.Close()

	for _, f := range reader.File {
		names = append(names, f.Name)
	}

	return
}
