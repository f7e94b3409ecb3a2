package xpt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/sendstack/sendxpt/core/dataset"
	"github.com/sendstack/sendxpt/core/errors"
	"github.com/sendstack/sendxpt/core/schema"
)

// namestr is the 140-byte variable descriptor, big-endian on the wire.
// Field names follow the transport specification.
type namestr struct {
	Ntype  int16    // 1 numeric, 2 character
	Nhfun  int16    // name hash, unused
	Nlng   int16    // field length in the observation record
	Nvar0  int16    // variable number, 1-based
	Nname  [8]byte  // variable name, blank-padded
	Nlabel [40]byte // variable label, blank-padded
	Nform  [8]byte  // format name
	Nfl    int16    // format field length
	Nfd    int16    // format decimals
	Nfj    int16    // justification: 0 left, 1 right
	Nfill  [2]byte  // unused
	Niform [8]byte  // informat name
	Nifl   int16    // informat length
	Nifd   int16    // informat decimals
	Npos   int32    // position in the observation record
	Rest   [52]byte // padding to the fixed 140-byte descriptor size
}

// EncodeBytes serializes a dataset into transport file bytes.
func EncodeBytes(d *dataset.Dataset, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, d, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode serializes a dataset to w. The full file is assembled in memory
// before the first byte is written, so a failed write never leaves a
// half-encoded stream behind.
func Encode(w io.Writer, d *dataset.Dataset, opts Options) error {
	data, err := EncodeBytes(d, opts)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return errors.NewIO("write", "", err)
	}
	return nil
}

func encode(buf *bytes.Buffer, d *dataset.Dataset, opts Options) error {
	opts = opts.withDefaults()
	s := d.Schema
	ts := sasDatetime(opts.Created)

	// Library header and the two real header records.
	buf.WriteString(libraryHeader)
	buf.WriteString("SAS     SAS     SASLIB  " +
		pad(opts.Version, 8) + pad(opts.OS, 8) + pad("", 24) + ts)
	buf.WriteString(ts + pad("", 64))

	// Member and descriptor headers.
	buf.WriteString(memberHeader)
	buf.WriteString(dscrptrHeader)
	buf.WriteString("SAS     " + pad(s.Domain, 8) + "SASDATA " +
		pad(opts.Version, 8) + pad(opts.OS, 8) + pad("", 24) + ts)
	buf.WriteString(ts + pad("", 16) + pad(s.Label, 40) + pad("", 8))

	// Variable descriptors.
	fmt.Fprintf(buf, namestrHeaderFmt, len(s.Variables))
	pos := 0
	for i, v := range s.Variables {
		ns := namestr{
			Nvar0: int16(i + 1),
			Npos:  int32(pos),
		}
		switch v.Kind {
		case schema.Numeric:
			ns.Ntype = typeNumeric
			ns.Nlng = int16(schema.NumericFieldLength)
		case schema.Character:
			ns.Ntype = typeCharacter
			ns.Nlng = int16(v.Length)
		}
		copy(ns.Nname[:], pad(v.Name, 8))
		copy(ns.Nlabel[:], pad(v.Label, 40))
		copy(ns.Nform[:], pad("", 8))
		copy(ns.Nfill[:], pad("", 2))
		copy(ns.Niform[:], pad("", 8))
		if err := binary.Write(buf, binary.BigEndian, ns); err != nil {
			return errors.Wrap(err, "encoding variable descriptor")
		}
		pos += int(ns.Nlng)
	}
	padToBoundary(buf)

	// Observations.
	buf.WriteString(obsHeader)
	for ri := range d.Records {
		for vi, v := range s.Variables {
			cell := d.Records[ri].Values[vi]
			switch v.Kind {
			case schema.Numeric:
				b := ibmEncode(cell.Num)
				buf.Write(b[:])
			case schema.Character:
				buf.WriteString(pad(cell.Chr, v.Length))
			}
		}
	}
	padToBoundary(buf)
	return nil
}

// padToBoundary pads the stream to an 80-byte record boundary with blanks.
func padToBoundary(buf *bytes.Buffer) {
	if rem := buf.Len() % recordLen; rem != 0 {
		buf.WriteString(pad("", recordLen-rem))
	}
}
