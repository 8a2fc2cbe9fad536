package config

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"cssvm/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates initialized empty reporter.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	r := &Report{entries: make(map[string]entry)}

	if f, err := os.Create(conf.Destination); err == nil {
		r.file = f
	} else if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err == nil {
		r.file = f
	} else {
		return nil, fmt.Errorf("unable to create report: %w", err)
	}
	return r, nil
}

type entryKind int

const (
	// kindLive is read from disk when the report is closed (log files).
	kindLive entryKind = iota
	// kindCopy is file content captured when it was stored (documents, stylesheets).
	kindCopy
	// kindData is content produced by the program (snapshots, configuration).
	kindData
)

func (k entryKind) String() string {
	switch k {
	case kindLive:
		return "live"
	case kindCopy:
		return "copy"
	}
	return "data"
}

type entry struct {
	kind     entryKind
	source   string
	modified time.Time
	data     []byte
}

// Report collects inputs, outputs and logs of a single run into a zip
// archive written on Close. A nil *Report accepts every call and does
// nothing, so callers never check whether a report was requested.
// Report is not safe for concurrent use.
type Report struct {
	entries map[string]entry
	file    *os.File
}

// Close writes the archive.
func (r *Report) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	defer r.file.Close()
	return r.finalize()
}

// Name returns name of underlying file.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// Store registers a file which is still being written, its content is read
// when the report is closed. Missing files are skipped then.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	if old, exists := r.entries[name]; exists && old.source != path {
		panic(fmt.Sprintf("Attempt to overwrite file in the report for [%s]: was %s, now %s", name, old.source, path))
	}
	if p, err := filepath.Abs(path); err == nil {
		path = p
	}
	r.entries[name] = entry{kind: kindLive, source: path}
}

// StoreData puts data into the report under name.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	if _, exists := r.entries[name]; exists {
		panic(fmt.Sprintf("Attempt to overwrite data in the report for [%s]", name))
	}
	r.entries[name] = entry{kind: kindData, data: data, modified: time.Now()}
}

// StoreCopy captures the current content of a regular file. When name is
// taken a numbered suffix is added, so the same file may be stored more than
// once.
func (r *Report) StoreCopy(name, path string) error {
	if r == nil {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("unable to copy %s into report: not a regular file", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if p, err := filepath.Abs(path); err == nil {
		path = p
	}
	r.entries[r.freeName(name)] = entry{kind: kindCopy, source: path, modified: info.ModTime(), data: data}
	return nil
}

func (r *Report) freeName(name string) string {
	if _, exists := r.entries[name]; !exists {
		return name
	}
	for i := 2; ; i++ {
		n := fmt.Sprintf("%s~%d", name, i)
		if _, exists := r.entries[n]; !exists {
			return n
		}
	}
}

// finalize writes MANIFEST followed by entries in name order.
func (r *Report) finalize() error {
	arc := zip.NewWriter(r.file)

	names := make([]string, 0, len(r.entries))
	for k := range r.entries {
		names = append(names, k)
	}
	sort.Strings(names)

	now := time.Now()
	manifest := new(bytes.Buffer)
	for _, name := range names {
		e := r.entries[name]
		stamp := e.modified
		if stamp.IsZero() {
			stamp = now
		}
		fmt.Fprintf(manifest, "%s\t%s\t%s\t%s\n", stamp.UTC().Format(time.UnixDate), e.kind, name, e.source)
	}
	if err := saveFile(arc, "MANIFEST", now, manifest); err != nil {
		arc.Close()
		return err
	}

	for _, name := range names {
		e := r.entries[name]
		if e.kind != kindLive {
			if err := saveFile(arc, name, e.modified, bytes.NewReader(e.data)); err != nil {
				arc.Close()
				return err
			}
			continue
		}
		if err := saveLive(arc, name, e.source); err != nil {
			arc.Close()
			return err
		}
	}
	return arc.Close()
}

func saveLive(dst *zip.Writer, name, path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		// log files are optional
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return saveFile(dst, name, info.ModTime(), f)
}

func saveFile(dst *zip.Writer, name string, t time.Time, src io.Reader) error {
	w, err := dst.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: t})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}
