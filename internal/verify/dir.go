package verify

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const schemaSuffix = ".schema.json"

// FileResult is the verification of one schema file on disk.
type FileResult struct {
	SchemaPath string `json:"schema_path"`
	// SamplesPath is empty when no matching .jsonl file exists.
	SamplesPath string `json:"samples_path,omitempty"`
	Result
}

// VerifyDir compiles every *.schema.json under dir and validates the
// samples in the sibling <kind>.jsonl file when there is one.
func (v *Verifier) VerifyDir(ctx context.Context, dir string) ([]FileResult, error) {
	var results []FileResult
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), schemaSuffix) {
			return nil
		}

		fr, err := v.verifyFile(dir, path)
		if err != nil {
			return err
		}
		results = append(results, fr)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (v *Verifier) verifyFile(root, schemaPath string) (FileResult, error) {
	doc, err := os.ReadFile(schemaPath)
	if err != nil {
		return FileResult{}, fmt.Errorf("read schema: %w", err)
	}

	key, err := filepath.Rel(root, schemaPath)
	if err != nil {
		key = schemaPath
	}
	key = strings.TrimSuffix(filepath.ToSlash(key), schemaSuffix)

	samplesPath := strings.TrimSuffix(schemaPath, schemaSuffix) + ".jsonl"
	samples, err := readLines(samplesPath)
	if errors.Is(err, fs.ErrNotExist) {
		samplesPath = ""
	} else if err != nil {
		return FileResult{}, err
	}

	return FileResult{
		SchemaPath:  schemaPath,
		SamplesPath: samplesPath,
		Result:      v.ValidateSamples(key, doc, samples),
	}, nil
}

func readLines(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines [][]byte
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 64<<20)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		lines = append(lines, bytes.Clone(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}
