// Copyright 2026 The Pushgate Authors
// SPDX-License-Identifier: Apache-2.0

package diag

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"

	"github.com/nightjar-systems/pushgate/lib/codec"
	"github.com/nightjar-systems/pushgate/lib/ref"
)

// Record is one notification run's terminal diagnostic.
type Record struct {
	// Time is when the run reached its terminal state.
	Time time.Time `cbor:"time"`

	// RunID correlates this record with homeserver logs. See RunID.
	RunID string `cbor:"run_id"`

	// Outcome is the terminal kind: "delivered", "suppressed", or
	// "fallback".
	Outcome string `cbor:"outcome"`

	// Reason is the fallback reason, empty for delivered/suppressed.
	Reason string `cbor:"reason,omitempty"`

	// ElapsedMS is wall-clock duration of the run in milliseconds.
	ElapsedMS int64 `cbor:"elapsed_ms"`

	// SyncRetries counts background syncs performed during the run.
	SyncRetries int `cbor:"sync_retries,omitempty"`
}

// RunID derives the spool correlation identifier for a run: the first
// 16 hex characters of BLAKE3(roomID || 0x00 || eventID). Stable for a
// given notification, meaningless without the original identifiers.
func RunID(roomID ref.RoomID, eventID ref.EventID) string {
	hasher := blake3.New()
	hasher.Write([]byte(roomID.String()))
	hasher.Write([]byte{0})
	hasher.Write([]byte(eventID.String()))
	sum := hasher.Sum(nil)
	return hex.EncodeToString(sum[:8])
}

// zstdEncoder and zstdDecoder are shared across Recorder instances.
// EncodeAll/DecodeAll with nil destination are safe for concurrent use.
var (
	zstdEncoder, _ = zstd.NewWriter(nil)
	zstdDecoder, _ = zstd.NewReader(nil)
)

// Recorder appends records to the spool file. A Recorder with an empty
// path is valid and records nothing (outcomes still reach the logger).
type Recorder struct {
	path   string
	logger *slog.Logger
}

// NewRecorder creates a Recorder spooling to path. A nil logger means
// slog.Default().
func NewRecorder(path string, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{path: path, logger: logger}
}

// Record logs the record and, when a spool path is configured, appends
// it to the spool. Failures are logged and swallowed — diagnostics
// must never block or fail a delivery.
func (r *Recorder) Record(record Record) {
	r.logger.Info("notification run finished",
		"run_id", record.RunID,
		"outcome", record.Outcome,
		"reason", record.Reason,
		"elapsed_ms", record.ElapsedMS,
		"sync_retries", record.SyncRetries,
	)
	if r.path == "" {
		return
	}
	if err := r.append(record); err != nil {
		r.logger.Warn("diagnostic spool write failed", "path", r.path, "error", err)
	}
}

// append encodes, compresses, and frames one record onto the spool.
// Frame layout: 4-byte big-endian length, then a zstd frame containing
// the CBOR record.
func (r *Recorder) append(record Record) error {
	encoded, err := codec.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	compressed := zstdEncoder.EncodeAll(encoded, nil)

	frame := make([]byte, 4+len(compressed))
	binary.BigEndian.PutUint32(frame, uint32(len(compressed)))
	copy(frame[4:], compressed)

	file, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("opening spool: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(frame); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// ReadSpool reads all records from a spool file. Used by operator
// tooling and tests; the renderer itself only appends.
func ReadSpool(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening spool: %w", err)
	}
	defer file.Close()

	var records []Record
	var header [4]byte
	for {
		if _, err := io.ReadFull(file, header[:]); err != nil {
			if err == io.EOF {
				return records, nil
			}
			return records, fmt.Errorf("reading frame header: %w", err)
		}
		length := binary.BigEndian.Uint32(header[:])
		compressed := make([]byte, length)
		if _, err := io.ReadFull(file, compressed); err != nil {
			return records, fmt.Errorf("reading frame body: %w", err)
		}
		encoded, err := zstdDecoder.DecodeAll(compressed, nil)
		if err != nil {
			return records, fmt.Errorf("decompressing frame: %w", err)
		}
		var record Record
		if err := codec.Unmarshal(encoded, &record); err != nil {
			return records, fmt.Errorf("decoding record: %w", err)
		}
		records = append(records, record)
	}
}
