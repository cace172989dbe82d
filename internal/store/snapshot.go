package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/DaanHessen/sisyphus/internal/engine"
)

// SnapshotVersion is written into every snapshot header.
const SnapshotVersion = 1

// SnapshotFile is the file name used for a run's final state.
const SnapshotFile = "final_state.json.zst"

// Header is the first line of a snapshot, readable without decoding the state.
type Header struct {
	Version  int       `json:"version"`
	RunCount int       `json:"run_count"`
	Level    int       `json:"level"`
	SavedAt  time.Time `json:"saved_at"`
}

// EncodeSnapshot writes a header line followed by the JSON state, zstd-compressed.
func EncodeSnapshot(w io.Writer, st *engine.PlayerState, savedAt time.Time) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 64*1024)
	hb, _ := json.Marshal(Header{Version: SnapshotVersion, RunCount: st.RunCount, Level: st.Level, SavedAt: savedAt.UTC()})
	if _, err := bw.Write(hb); err != nil {
		enc.Close()
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		enc.Close()
		return err
	}
	if err := json.NewEncoder(bw).Encode(st); err != nil {
		enc.Close()
		return fmt.Errorf("json encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// DecodeSnapshot reverses EncodeSnapshot. The returned state is backfilled.
func DecodeSnapshot(r io.Reader) (Header, *engine.PlayerState, error) {
	var h Header
	dec, err := zstd.NewReader(r)
	if err != nil {
		return h, nil, err
	}
	defer dec.Close()
	br := bufio.NewReaderSize(dec, 64*1024)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return h, nil, fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, nil, fmt.Errorf("decode header: %w", err)
	}
	if h.Version != SnapshotVersion {
		return h, nil, fmt.Errorf("unsupported snapshot version %d", h.Version)
	}
	st := engine.NewState()
	if err := json.NewDecoder(br).Decode(st); err != nil {
		return h, nil, fmt.Errorf("json decode: %w", err)
	}
	st.Backfill(time.Now())
	return h, st, nil
}

func compressState(st *engine.PlayerState, savedAt time.Time) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, st, savedAt); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteSnapshot stores st at path, creating parent directories.
func WriteSnapshot(path string, st *engine.PlayerState) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := EncodeSnapshot(f, st, time.Now()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadSnapshot loads a snapshot written by WriteSnapshot.
func ReadSnapshot(path string) (Header, *engine.PlayerState, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, nil, err
	}
	defer f.Close()
	return DecodeSnapshot(f)
}

// FileSnapshotter writes the final state of a dead run next to its archived records.
type FileSnapshotter struct{}

func (FileSnapshotter) SnapshotRun(ctx context.Context, dir string, st *engine.PlayerState) error {
	return wrap(WriteSnapshot(filepath.Join(dir, SnapshotFile), st), "write run snapshot")
}

// MultiSnapshotter fans a run snapshot out to several sinks and returns the first error.
type MultiSnapshotter []engine.Snapshotter

func (m MultiSnapshotter) SnapshotRun(ctx context.Context, dir string, st *engine.PlayerState) error {
	var first error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.SnapshotRun(ctx, dir, st); err != nil && first == nil {
			first = err
		}
	}
	return first
}
