// Copyright 2026 The Homeroom Authors
// SPDX-License-Identifier: Apache-2.0

package conversation

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"

	"github.com/homeroom-project/homeroom/lib/codec"
	"github.com/homeroom-project/homeroom/lib/tag"
)

// ErrNotFound reports that no tag set is stored for a conversation.
var ErrNotFound = errors.New("conversation not found")

// Store persists the tag set attached to each conversation.
type Store interface {
	// SaveTags replaces the conversation's tag set.
	SaveTags(conversationID string, tags []tag.Tag) error

	// Tags returns the conversation's tag set, or ErrNotFound.
	Tags(conversationID string) ([]tag.Tag, error)
}

// Tag-set record format, one file per conversation:
//
//	magic "HRTG" | version u8 | compression u8 | payload length u32 BE
//	| BLAKE3 keyed digest (32 bytes) | payload
//
// The payload is the deterministic CBOR encoding of tagRecord,
// zstd-compressed when that is smaller. The digest covers the
// uncompressed canonical payload; the length field is the
// uncompressed size. These values are format constants — changing
// them breaks existing stores.
const (
	recordVersion = 1

	compressionNone uint8 = 0
	compressionZstd uint8 = 1

	headerSize = 4 + 1 + 1 + 4 + 32
)

var recordMagic = [4]byte{'H', 'R', 'T', 'G'}

// recordDomainKey separates tag-record digests from any other BLAKE3
// use: ASCII domain name, zero-padded to the 32 bytes keyed mode
// requires.
var recordDomainKey = [32]byte{
	'h', 'o', 'm', 'e', 'r', 'o', 'o', 'm', '.', 'c', 'o', 'n', 'v', 'e', 'r', 's',
	'a', 't', 'i', 'o', 'n', '.', 't', 'a', 'g', 's', 0, 0, 0, 0, 0, 0,
}

// zstdEncoder and zstdDecoder are shared across calls; both are safe
// for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("conversation: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("conversation: zstd decoder initialization failed: " + err.Error())
	}
}

// tagRecord is the persisted form of one conversation's tag set.
type tagRecord struct {
	Conversation string    `cbor:"conversation"`
	Tags         []tag.Tag `cbor:"tags"`
}

// FileStore is a Store keeping one record file per conversation under
// a directory. Writes are atomic (temp file + rename), so readers
// never observe a partial record.
type FileStore struct {
	dir string
}

// NewFileStore opens (creating if needed) a tag store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating tag store %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// SaveTags implements [Store]. The tag set is normalized (sorted,
// deduplicated) before encoding so the stored bytes are canonical for
// the set.
func (s *FileStore) SaveTags(conversationID string, tags []tag.Tag) error {
	path, err := s.recordPath(conversationID)
	if err != nil {
		return err
	}

	tokens := make([]string, 0, len(tags))
	for _, t := range tags {
		tokens = append(tokens, t.String())
	}
	payload, err := codec.Marshal(tagRecord{
		Conversation: conversationID,
		Tags:         tag.Normalize(tokens, nil),
	})
	if err != nil {
		return fmt.Errorf("encoding tag set for conversation %s: %w", conversationID, err)
	}

	digest := digestPayload(payload)

	compression := compressionNone
	body := payload
	if compressed := zstdEncoder.EncodeAll(payload, nil); len(compressed) < len(payload) {
		compression = compressionZstd
		body = compressed
	}

	record := make([]byte, 0, headerSize+len(body))
	record = append(record, recordMagic[:]...)
	record = append(record, recordVersion, compression)
	record = binary.BigEndian.AppendUint32(record, uint32(len(payload)))
	record = append(record, digest[:]...)
	record = append(record, body...)

	tmp, err := os.CreateTemp(s.dir, "."+conversationID+".tags.*")
	if err != nil {
		return fmt.Errorf("writing tag set for conversation %s: %w", conversationID, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(record); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing tag set for conversation %s: %w", conversationID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing tag set for conversation %s: %w", conversationID, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing tag set for conversation %s: %w", conversationID, err)
	}
	return nil
}

// Tags implements [Store]. The record's digest is recomputed over the
// decoded payload and must match, so silent corruption surfaces as an
// error instead of a wrong tag set.
func (s *FileStore) Tags(conversationID string) ([]tag.Tag, error) {
	path, err := s.recordPath(conversationID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("conversation %s: %w", conversationID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading tag set for conversation %s: %w", conversationID, err)
	}

	if len(data) < headerSize || [4]byte(data[:4]) != recordMagic {
		return nil, fmt.Errorf("conversation %s: not a tag record", conversationID)
	}
	if version := data[4]; version != recordVersion {
		return nil, fmt.Errorf("conversation %s: unsupported tag record version %d", conversationID, version)
	}
	compression := data[5]
	payloadLen := int(binary.BigEndian.Uint32(data[6:10]))
	var digest [32]byte
	copy(digest[:], data[10:42])
	body := data[headerSize:]

	var payload []byte
	switch compression {
	case compressionNone:
		payload = body
	case compressionZstd:
		payload, err = zstdDecoder.DecodeAll(body, make([]byte, 0, payloadLen))
		if err != nil {
			return nil, fmt.Errorf("conversation %s: decompressing tag record: %w", conversationID, err)
		}
	default:
		return nil, fmt.Errorf("conversation %s: unknown compression %d", conversationID, compression)
	}
	if len(payload) != payloadLen {
		return nil, fmt.Errorf("conversation %s: tag record payload is %d bytes, header says %d",
			conversationID, len(payload), payloadLen)
	}
	if digestPayload(payload) != digest {
		return nil, fmt.Errorf("conversation %s: tag record digest mismatch", conversationID)
	}

	var record tagRecord
	if err := codec.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("conversation %s: decoding tag record: %w", conversationID, err)
	}
	return record.Tags, nil
}

// recordPath validates the conversation id and maps it to a file
// path. Ids are restricted to a filename-safe alphabet so a caller
// can never address outside the store directory.
func (s *FileStore) recordPath(conversationID string) (string, error) {
	if conversationID == "" {
		return "", fmt.Errorf("empty conversation id")
	}
	for i := 0; i < len(conversationID); i++ {
		c := conversationID[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c == '-' || c == '_':
		default:
			return "", fmt.Errorf("invalid conversation id %q", conversationID)
		}
	}
	return filepath.Join(s.dir, conversationID+".tags"), nil
}

func digestPayload(payload []byte) [32]byte {
	hasher, err := blake3.NewKeyed(recordDomainKey[:])
	if err != nil {
		panic("conversation: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(payload)
	var digest [32]byte
	copy(digest[:], hasher.Sum(nil))
	return digest
}
