package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"testing"
)

func newTestReport(t *testing.T) (*Report, string) {
	t.Helper()
	name := filepath.Join(t.TempDir(), "report.zip")
	r, err := (&ReporterConfig{Destination: name}).Prepare()
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	return r, name
}

func readArchive(t *testing.T, name string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("unable to open report: %v", err)
	}
	defer zr.Close()

	out := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("unable to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("unable to read %s: %v", f.Name, err)
		}
		out[f.Name] = string(data)
	}
	return out
}

func archiveNames(files map[string]string) []string {
	names := make([]string, 0, len(files))
	for n := range files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func TestReportClose_Archive(t *testing.T) {
	r, name := newTestReport(t)

	dir := t.TempDir()
	log := filepath.Join(dir, "run.log")
	if err := os.WriteFile(log, []byte("first"), 0644); err != nil {
		t.Fatal(err)
	}
	src := filepath.Join(dir, "page.html")
	if err := os.WriteFile(src, []byte("<p>text</p>"), 0644); err != nil {
		t.Fatal(err)
	}

	r.Store("final.log", log)
	r.Store("absent.log", filepath.Join(dir, "absent.log"))
	r.StoreData("snapshot.txt", []byte("view"))
	if err := r.StoreCopy("input/page.html", src); err != nil {
		t.Fatalf("StoreCopy() error: %v", err)
	}
	if r.Name() != name {
		t.Errorf("Name() = %q, want %q", r.Name(), name)
	}

	// live entries are read on close, copies keep content from store time
	if err := os.WriteFile(log, []byte("first second"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, []byte("<p>changed</p>"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	files := readArchive(t, name)
	want := []string{"MANIFEST", "final.log", "input/page.html", "snapshot.txt"}
	if got := archiveNames(files); !slices.Equal(got, want) {
		t.Fatalf("archive entries = %v, want %v", got, want)
	}
	if files["snapshot.txt"] != "view" {
		t.Errorf("snapshot.txt = %q", files["snapshot.txt"])
	}
	if files["input/page.html"] != "<p>text</p>" {
		t.Errorf("input/page.html = %q", files["input/page.html"])
	}
	if files["final.log"] != "first second" {
		t.Errorf("final.log = %q", files["final.log"])
	}
	for _, line := range []string{"copy\tinput/page.html\t" + src, "live\tfinal.log\t" + log, "data\tsnapshot.txt\t"} {
		if !strings.Contains(files["MANIFEST"], line) {
			t.Errorf("MANIFEST misses %q:\n%s", line, files["MANIFEST"])
		}
	}
}

func TestReportStoreCopy(t *testing.T) {
	r, name := newTestReport(t)

	dir := t.TempDir()
	sheet := filepath.Join(dir, "user.css")
	if err := os.WriteFile(sheet, []byte("p { color: red }"), 0644); err != nil {
		t.Fatal(err)
	}
	for range 3 {
		if err := r.StoreCopy("sheets/user/user.css", sheet); err != nil {
			t.Fatalf("StoreCopy() error: %v", err)
		}
	}
	if err := r.StoreCopy("sheets", dir); err == nil {
		t.Error("StoreCopy() accepted a directory")
	}
	if err := r.StoreCopy("absent", filepath.Join(dir, "absent.css")); !os.IsNotExist(err) {
		t.Errorf("StoreCopy() error = %v, want not exist", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	files := readArchive(t, name)
	want := []string{"MANIFEST", "sheets/user/user.css", "sheets/user/user.css~2", "sheets/user/user.css~3"}
	if got := archiveNames(files); !slices.Equal(got, want) {
		t.Fatalf("archive entries = %v, want %v", got, want)
	}
	if files["sheets/user/user.css~3"] != "p { color: red }" {
		t.Errorf("copy content = %q", files["sheets/user/user.css~3"])
	}
}

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
	r.Store("x", "y")
	r.StoreData("x", nil)
	if err := r.StoreCopy("x", "y"); err != nil {
		t.Errorf("StoreCopy on nil report should not error, got: %v", err)
	}
	if r.Name() != "" {
		t.Errorf("Name() = %q", r.Name())
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}
