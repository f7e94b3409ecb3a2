package xpt

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/sendstack/sendxpt/core/errors"
)

// Variable describes one decoded variable.
type Variable struct {
	Name     string
	Label    string
	Numeric  bool
	Length   int
	Position int
}

// Cell is one decoded value; Str for character variables, Num for numeric.
type Cell struct {
	Str string
	Num float64
}

// Observation is one decoded record in variable order.
type Observation struct {
	Values []Cell
}

// File is a decoded transport member.
type File struct {
	Member       string
	Label        string
	Variables    []Variable
	Observations []Observation
}

// VariableIndex returns the position of a named variable, or -1.
func (f *File) VariableIndex(name string) int {
	for i, v := range f.Variables {
		if v.Name == name {
			return i
		}
	}
	return -1
}

// Decode reads a version 5 transport file.
func Decode(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewIO("read", "", err)
	}
	return DecodeBytes(data)
}

// DecodeBytes parses transport file bytes.
func DecodeBytes(data []byte) (*File, error) {
	if len(data)%recordLen != 0 {
		return nil, errors.NewParse("XPT", "",
			fmt.Sprintf("file length %d is not a multiple of %d", len(data), recordLen))
	}
	p := &parser{data: data}
	return p.parse()
}

type parser struct {
	data []byte
	off  int
}

func (p *parser) record() ([]byte, error) {
	if p.off+recordLen > len(p.data) {
		return nil, errors.NewParse("XPT", "", "unexpected end of file")
	}
	rec := p.data[p.off : p.off+recordLen]
	p.off += recordLen
	return rec, nil
}

func (p *parser) expectHeader(want, what string) error {
	rec, err := p.record()
	if err != nil {
		return err
	}
	if !strings.HasPrefix(string(rec), want) {
		return errors.NewParse("XPT", "", fmt.Sprintf("missing %s header record", what))
	}
	return nil
}

func (p *parser) parse() (*File, error) {
	if err := p.expectHeader("HEADER RECORD*******LIBRARY HEADER RECORD", "library"); err != nil {
		return nil, err
	}
	// The two real header records carry version/OS/timestamps; nothing the
	// decoder needs.
	for i := 0; i < 2; i++ {
		if _, err := p.record(); err != nil {
			return nil, err
		}
	}

	if err := p.expectHeader("HEADER RECORD*******MEMBER  HEADER RECORD", "member"); err != nil {
		return nil, err
	}
	if err := p.expectHeader("HEADER RECORD*******DSCRPTR HEADER RECORD", "descriptor"); err != nil {
		return nil, err
	}

	f := &File{}
	rec, err := p.record()
	if err != nil {
		return nil, err
	}
	f.Member = strings.TrimRight(string(rec[8:16]), " ")
	rec, err = p.record()
	if err != nil {
		return nil, err
	}
	f.Label = strings.TrimRight(string(rec[32:72]), " ")

	nvars, err := p.parseNamestrHeader()
	if err != nil {
		return nil, err
	}
	if err := p.parseNamestrs(f, nvars); err != nil {
		return nil, err
	}

	if err := p.expectHeader("HEADER RECORD*******OBS     HEADER RECORD", "observation"); err != nil {
		return nil, err
	}
	if err := p.parseObservations(f); err != nil {
		return nil, err
	}
	return f, nil
}

func (p *parser) parseNamestrHeader() (int, error) {
	rec, err := p.record()
	if err != nil {
		return 0, err
	}
	if !strings.HasPrefix(string(rec), "HEADER RECORD*******NAMESTR HEADER RECORD") {
		return 0, errors.NewParse("XPT", "", "missing namestr header record")
	}
	nvars, err := strconv.Atoi(strings.TrimLeft(string(rec[54:58]), "0 "))
	if err != nil {
		return 0, errors.NewParse("XPT", "", "unreadable variable count in namestr header")
	}
	return nvars, nil
}

func (p *parser) parseNamestrs(f *File, nvars int) error {
	need := nvars * namestrLen
	if p.off+need > len(p.data) {
		return errors.NewParse("XPT", "", "truncated variable descriptors")
	}
	for i := 0; i < nvars; i++ {
		raw := p.data[p.off+i*namestrLen : p.off+(i+1)*namestrLen]
		v := Variable{
			Name:     strings.TrimRight(string(raw[8:16]), " "),
			Label:    strings.TrimRight(string(raw[16:56]), " \x00"),
			Numeric:  binary.BigEndian.Uint16(raw[0:2]) == typeNumeric,
			Length:   int(binary.BigEndian.Uint16(raw[4:6])),
			Position: int(binary.BigEndian.Uint32(raw[84:88])),
		}
		f.Variables = append(f.Variables, v)
	}
	p.off += need
	// Descriptor block is padded to the record boundary.
	if rem := p.off % recordLen; rem != 0 {
		p.off += recordLen - rem
	}
	return nil
}

func (p *parser) parseObservations(f *File) error {
	obsLen := 0
	for _, v := range f.Variables {
		obsLen += v.Length
	}
	if obsLen == 0 {
		return errors.NewParse("XPT", "", "observation record length is zero")
	}

	for p.off+obsLen <= len(p.data) {
		raw := p.data[p.off : p.off+obsLen]
		if isBlank(raw) && len(p.data)-p.off < obsLen+recordLen {
			// Trailing blank padding, not data.
			break
		}
		obs := Observation{Values: make([]Cell, len(f.Variables))}
		pos := 0
		for i, v := range f.Variables {
			field := raw[pos : pos+v.Length]
			if v.Numeric {
				// Truncated doubles (length 2..7) are zero-extended.
				var full [8]byte
				copy(full[:], field)
				num := ibmDecode(full[:])
				if math.IsNaN(num) {
					num = 0 // SAS missing; normalized data carries zero
				}
				obs.Values[i] = Cell{Num: num}
			} else {
				obs.Values[i] = Cell{Str: strings.TrimRight(string(field), " ")}
			}
			pos += v.Length
		}
		f.Observations = append(f.Observations, obs)
		p.off += obsLen
	}
	return nil
}

func isBlank(b []byte) bool {
	for _, c := range b {
		if c != ' ' {
			return false
		}
	}
	return true
}
