// Copyright 2025 Sonic Labs
// This file is part of Aida Testing Infrastructure for Sonic
//
// Aida is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Aida is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Aida. If not, see <http://www.gnu.org/licenses/>.

package dataset

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/gzip"
)

// compressed reports whether a path names a gzip file.
func compressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var err error
	for _, c := range r.closers {
		err = errors.CombineErrors(err, c.Close())
	}
	return err
}

// openFile opens a file for reading. Files ending in .gz are decompressed.
func openFile(path string) (io.ReadCloser, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not stat file %v, does it exist?", path)
	}
	if stat.IsDir() {
		return nil, errors.Newf("%v is a directory", path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open %v", path)
	}
	if !compressed(path) {
		return &readCloser{Reader: bufio.NewReader(file), closers: []io.Closer{file}}, nil
	}
	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, errors.CombineErrors(errors.Wrapf(err, "could not create gzip reader for %v", path), file.Close())
	}
	return &readCloser{Reader: bufio.NewReader(gzipReader), closers: []io.Closer{gzipReader, file}}, nil
}

type writeCloser struct {
	buffer  *bufio.Writer
	closers []io.Closer
}

func (w *writeCloser) Write(p []byte) (int, error) {
	return w.buffer.Write(p)
}

// Close flushes the buffer, then closes the compressor and the file.
func (w *writeCloser) Close() error {
	err := w.buffer.Flush()
	for _, c := range w.closers {
		err = errors.CombineErrors(err, c.Close())
	}
	return err
}

// createFile creates or truncates a file for writing. Files ending in .gz are
// compressed.
func createFile(path string) (io.WriteCloser, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not create %v", path)
	}
	if !compressed(path) {
		return &writeCloser{buffer: bufio.NewWriter(file), closers: []io.Closer{file}}, nil
	}
	gzipWriter := gzip.NewWriter(file)
	return &writeCloser{buffer: bufio.NewWriter(gzipWriter), closers: []io.Closer{gzipWriter, file}}, nil
}
