// Package manifest records what a conversion run produced: output digests,
// the validation report, normalization outcomes, and round-trip status.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/sendstack/sendxpt/core/errors"
	"github.com/sendstack/sendxpt/core/validate"
	"github.com/sendstack/sendxpt/core/verify"
)

// FileDigest identifies one output file by content.
type FileDigest struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
	SHA256    string `json:"sha256"`
	BLAKE3    string `json:"blake3"`
}

// Manifest is the JSON record of one conversion run.
type Manifest struct {
	RunID         string          `json:"run_id"`
	CreatedAt     time.Time       `json:"created_at"`
	Domain        string          `json:"domain"`
	Input         string          `json:"input"`
	Records       int             `json:"records"`
	Outputs       []FileDigest    `json:"outputs"`
	Validation    validate.Report `json:"validation"`
	Normalization map[string]int  `json:"normalization,omitempty"`
	RoundTrip     verify.Result   `json:"round_trip"`
}

// New creates a manifest with a fresh run identifier.
func New(domain, input string) *Manifest {
	return &Manifest{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Domain:    domain,
		Input:     input,
	}
}

// AddOutput digests a written file and records it.
func (m *Manifest) AddOutput(path string) error {
	d, err := DigestFile(path)
	if err != nil {
		return err
	}
	m.Outputs = append(m.Outputs, d)
	return nil
}

// Write serializes the manifest as indented JSON.
func (m *Manifest) Write(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, "serializing manifest")
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewIO("write", path, err)
	}
	return nil
}

// DigestFile computes SHA-256 and BLAKE3 digests of a file.
func DigestFile(path string) (FileDigest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileDigest{}, errors.NewIO("read", path, err)
	}
	return Digest(path, data), nil
}

// Digest computes the digests of in-memory content.
func Digest(path string, data []byte) FileDigest {
	sum := sha256.Sum256(data)
	b3 := blake3.Sum256(data)
	return FileDigest{
		Path:      path,
		SizeBytes: int64(len(data)),
		SHA256:    hex.EncodeToString(sum[:]),
		BLAKE3:    hex.EncodeToString(b3[:]),
	}
}
