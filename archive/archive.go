// Copyright 2025 Loreweave Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package archive moves processed source files into a cumulative tar
// container with zstd-compressed entries. A file is appended first and
// deleted only after the append is durable; a deletion failure is surfaced
// rather than swallowed, since it leaves the source both on disk and in the
// archive.
package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// A tar stream ends with two 512-byte zero blocks. Appending means seeking
// back over that trailer and writing the new entry plus a fresh trailer.
const tarTrailerSize = 1024

// Archiver appends files to one container. Safe for concurrent use; appends
// are serialized.
type Archiver struct {
	containerPath string
	encoder       *zstd.Encoder
	decoder       *zstd.Decoder
	logger        *slog.Logger
	mu            sync.Mutex
}

// New creates an archiver writing to the container at containerPath.
// The container is created on first append.
func New(containerPath string) (*Archiver, error) {
	if containerPath == "" {
		return nil, ErrContainerPathRequired
	}
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, err
	}
	return &Archiver{
		containerPath: containerPath,
		encoder:       encoder,
		decoder:       decoder,
		logger:        slog.Default().With("component", "archive", "container", containerPath),
	}, nil
}

// Close releases the compression codecs.
func (a *Archiver) Close() error {
	a.encoder.Close()
	a.decoder.Close()
	return nil
}

// Archive appends filePath to the container and deletes the original.
// The entry is stored zstd-compressed under the file's base name with a
// nanosecond suffix, so repeated ingestion of equally named files never
// collides.
func (a *Archiver) Archive(ctx context.Context, filePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", ErrAppendFailed, filePath, err)
	}

	compressed := a.encoder.EncodeAll(data, nil)
	now := time.Now().UTC()
	entryName := fmt.Sprintf("%s.%d.zst", filepath.Base(filePath), now.UnixNano())

	if err := a.appendEntry(entryName, compressed, now); err != nil {
		return fmt.Errorf("%w: appending %s: %v", ErrAppendFailed, filePath, err)
	}

	if err := os.Remove(filePath); err != nil {
		// The entry is durable at this point. Deleting failed, so the source
		// is both archived and still on disk; the operator has to clean up.
		a.logger.Error("archived but failed to delete source", "file", filePath, "err", err)
		return fmt.Errorf("%w: %s archived but not deleted: %v", ErrDeleteFailed, filePath, err)
	}

	a.logger.Debug("file archived", "file", filePath, "entry", entryName,
		"rawBytes", len(data), "compressedBytes", len(compressed))
	return nil
}

// appendEntry writes one tar entry at the end of the container, overwriting
// the previous trailer when the container already exists.
func (a *Archiver) appendEntry(name string, data []byte, modTime time.Time) error {
	f, err := os.OpenFile(a.containerPath, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.Size() >= tarTrailerSize {
		if _, err := f.Seek(-tarTrailerSize, io.SeekEnd); err != nil {
			return err
		}
	}

	tw := tar.NewWriter(f)
	hdr := &tar.Header{
		Name:    name,
		Mode:    0644,
		Size:    int64(len(data)),
		ModTime: modTime,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if _, err := tw.Write(data); err != nil {
		return err
	}
	if err := tw.Close(); err != nil {
		return err
	}
	return f.Sync()
}

// Entry is one archived file.
type Entry struct {
	Name     string
	ModTime  time.Time
	Contents []byte
}

// List reads back every entry in the container, decompressed. Mainly for
// inspection and tests; the ingestion path never reads the container.
func (a *Archiver) List() ([]Entry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	f, err := os.Open(a.containerPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	tr := tar.NewReader(f)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		compressed, err := io.ReadAll(tr)
		if err != nil {
			return nil, err
		}
		contents, err := a.decoder.DecodeAll(compressed, nil)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			Name:     hdr.Name,
			ModTime:  hdr.ModTime,
			Contents: contents,
		})
	}
	return entries, nil
}
