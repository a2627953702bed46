package codec

import (
	"io"

	"github.com/ValentinKolb/binser/codec/common"
	"github.com/ValentinKolb/binser/lib/buffer"
	"github.com/ValentinKolb/binser/lib/serialize"
	"github.com/cockroachdb/errors"
)

// --------------------------------------------------------------------------
// Archive file format
// --------------------------------------------------------------------------
//
// An archive is a native encoded ArchiveHeader followed by Count records.
// Each record is a native encoded []byte holding the output of the codec
// named in the header, so the records can be read back without knowing the
// configuration used to write them.

const (
	archiveMagic   = "BINSER"
	archiveVersion = 1
)

// ErrInvalidArchive is returned if the input does not start with an archive header
var ErrInvalidArchive = errors.New("not a binser archive")

// ArchiveHeader describes the content of an archive
type ArchiveHeader struct {
	Magic       string
	Version     uint16
	Codec       string
	Compression string
	Count       uint64
}

// Config returns the codec configuration stored in the header
func (h ArchiveHeader) Config() common.CodecConfig {
	return common.CodecConfig{Codec: h.Codec, Compression: h.Compression}
}

// WriteArchive encodes records with the codec described by cfg and writes them to w.
// It returns the encoded size of every record.
func WriteArchive[T any](w io.Writer, cfg common.CodecConfig, records []T) ([]int, error) {
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}

	compression := cfg.Compression
	if compression == "" {
		compression = common.CompressionNone
	}

	b := buffer.New(0)
	header := ArchiveHeader{
		Magic:       archiveMagic,
		Version:     archiveVersion,
		Codec:       cfg.Codec,
		Compression: compression,
		Count:       uint64(len(records)),
	}
	if err := serialize.Serialize(b, header); err != nil {
		return nil, err
	}

	sizes := make([]int, len(records))
	for i, record := range records {
		data, err := c.Serialize(record)
		if err != nil {
			return nil, errors.Wrapf(err, "record %d", i)
		}
		if err := serialize.Serialize(b, data); err != nil {
			return nil, err
		}
		sizes[i] = len(data)
	}

	if _, err := w.Write(b.Bytes()); err != nil {
		return nil, errors.Wrap(err, "writing archive")
	}
	Logger.Infof("wrote %d records (%s, %d bytes)", len(records), c.Name(), b.AvailableReadBytes())
	return sizes, nil
}

// ReadArchive reads an archive written by WriteArchive and decodes all records
func ReadArchive[T any](r io.Reader) (ArchiveHeader, []T, error) {
	var header ArchiveHeader

	data, err := io.ReadAll(r)
	if err != nil {
		return header, nil, errors.Wrap(err, "reading archive")
	}
	b := buffer.FromBytes(data)

	if err := serialize.Deserialize(b, &header); err != nil {
		return header, nil, errors.Mark(errors.Wrap(err, "reading header"), ErrInvalidArchive)
	}
	if header.Magic != archiveMagic {
		return header, nil, errors.Wrapf(ErrInvalidArchive, "unexpected magic %q", header.Magic)
	}
	if header.Version != archiveVersion {
		return header, nil, errors.Wrapf(ErrInvalidArchive, "unsupported version %d", header.Version)
	}

	c, err := New(header.Config())
	if err != nil {
		return header, nil, err
	}

	records := make([]T, 0, min(header.Count, uint64(b.AvailableReadBytes())))
	for i := uint64(0); i < header.Count; i++ {
		var raw []byte
		if err := serialize.Deserialize(b, &raw); err != nil {
			return header, records, errors.Wrapf(err, "record %d", i)
		}
		var record T
		if err := c.Deserialize(raw, &record); err != nil {
			return header, records, errors.Wrapf(err, "record %d", i)
		}
		records = append(records, record)
	}

	Logger.Infof("read %d records (%s)", len(records), c.Name())
	return header, records, nil
}
