// Package backup writes the normalized table back out as delimited text, a
// human-readable echo of exactly what was encoded.
package backup

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/ulikunitz/xz"

	"github.com/sendstack/sendxpt/core/dataset"
	"github.com/sendstack/sendxpt/core/errors"
	"github.com/sendstack/sendxpt/core/schema"
)

// Write renders the dataset as CSV at path. With compress set, the file is
// xz-compressed and ".xz" is appended to the path. Returns the path
// actually written.
func Write(path string, d *dataset.Dataset, compress bool) (string, error) {
	if compress {
		path += ".xz"
	}
	f, err := os.Create(path)
	if err != nil {
		return "", errors.NewIO("create", path, err)
	}
	defer f.Close()

	var w io.Writer = f
	var xzw *xz.Writer
	if compress {
		xzw, err = xz.NewWriter(f)
		if err != nil {
			return "", errors.NewIO("compress", path, err)
		}
		w = xzw
	}

	if err := writeCSV(w, d); err != nil {
		return "", errors.NewIO("write", path, err)
	}
	if xzw != nil {
		if err := xzw.Close(); err != nil {
			return "", errors.NewIO("compress", path, err)
		}
	}
	if err := f.Close(); err != nil {
		return "", errors.NewIO("write", path, err)
	}
	return path, nil
}

func writeCSV(w io.Writer, d *dataset.Dataset) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(d.Schema.Variables))
	for i, v := range d.Schema.Variables {
		header[i] = v.Name
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(d.Schema.Variables))
	for ri := range d.Records {
		for vi, spec := range d.Schema.Variables {
			v := d.Records[ri].Values[vi]
			if spec.Kind == schema.Numeric {
				row[vi] = strconv.FormatFloat(v.Num, 'g', -1, 64)
			} else {
				row[vi] = v.Chr
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
