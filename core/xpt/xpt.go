// Package xpt reads and writes SAS version 5 transport (XPT) files.
//
// The transport layout is a sequence of 80-byte records: library and member
// headers, one 140-byte "namestr" descriptor per variable, then fixed-length
// observation records. Character fields are space-padded to their declared
// length; numeric fields are 8-byte IBM base-16 doubles. Downstream
// regulatory tooling parses the format strictly, so the writer is byte-exact
// and the reader applies the same rules in reverse.
package xpt

import (
	"strings"
	"time"
)

// recordLen is the fixed transport record length.
const recordLen = 80

// namestrLen is the size of one variable descriptor.
const namestrLen = 140

const (
	typeNumeric   = 1
	typeCharacter = 2
)

var (
	libraryHeader = "HEADER RECORD*******LIBRARY HEADER RECORD!!!!!!!" +
		strings.Repeat("0", 30) + "  "
	memberHeader = "HEADER RECORD*******MEMBER  HEADER RECORD!!!!!!!" +
		strings.Repeat("0", 17) + "16" + strings.Repeat("0", 8) + "140  "
	dscrptrHeader = "HEADER RECORD*******DSCRPTR HEADER RECORD!!!!!!!" +
		strings.Repeat("0", 30) + "  "
	obsHeader = "HEADER RECORD*******OBS     HEADER RECORD!!!!!!!" +
		strings.Repeat("0", 30) + "  "
)

// namestrHeader carries the 4-digit variable count at offset 54.
const namestrHeaderFmt = "HEADER RECORD*******NAMESTR HEADER RECORD!!!!!!!000000%04d00000000000000000000  "

// Options configures header fields of an encoded transport file.
type Options struct {
	// Created stamps the library and member headers. It is an explicit
	// input so that encoding is a pure function: equal inputs produce
	// byte-identical files. The zero value encodes as the Unix epoch.
	Created time.Time
	// Version is the SAS version string in the headers. Defaults to "9.4".
	Version string
	// OS is the operating system string in the headers. Defaults to "LINUX".
	OS string
}

func (o Options) withDefaults() Options {
	if o.Created.IsZero() {
		o.Created = time.Unix(0, 0).UTC()
	}
	if o.Version == "" {
		o.Version = "9.4"
	}
	if o.OS == "" {
		o.OS = "LINUX"
	}
	return o
}

// sasDatetime renders a timestamp in the transport header format,
// ddMMMyy:hh:mm:ss with an uppercase month.
func sasDatetime(t time.Time) string {
	return strings.ToUpper(t.Format("02Jan06:15:04:05"))
}

// pad right-pads s with spaces to width, truncating if longer.
func pad(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}
