package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCmd(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func TestDetect(t *testing.T) {
	path := writeFile(t, "name;age\nAnn;31\nBo;27\n")
	out, errOut, code := runCmd(t, "detect", "-json", path)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	var report detectReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatal(err)
	}
	if report.Delimiter != ";" || report.Rows != 3 || report.Columns != 2 || report.Confidence != 1 || !report.Header {
		t.Errorf("report = %+v", report)
	}

	out, _, code = runCmd(t, "detect", path)
	if code != 0 || !strings.Contains(out, "delimiter:  ';'") {
		t.Errorf("text report (exit %d):\n%s", code, out)
	}
}

func TestConvert(t *testing.T) {
	path := writeFile(t, "a;b\n1;x,y\n2;z\n")
	out, errOut, code := runCmd(t, "convert", "-delimiter", "comma", "-linebreak", "lf", path)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if out != "a,b\n1,\"x,y\"\n2,z\n" {
		t.Errorf("output = %q", out)
	}
}

func TestConvertToFile(t *testing.T) {
	path := writeFile(t, "a,b\n")
	dst := filepath.Join(t.TempDir(), "out.csv")
	if _, errOut, code := runCmd(t, "convert", "-o", dst, "-encoding", "utf16le", path); code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0xFF, 0xFE, 'a', 0, ',', 0, 'b', 0, '\r', 0, '\n', 0}
	if !bytes.Equal(got, want) {
		t.Errorf("output = % x", got)
	}
}

func TestJSON(t *testing.T) {
	path := writeFile(t, "id,name\n1,Ann\n")
	out, errOut, code := runCmd(t, "json", "-header", "-numbers", path)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if out != "[\n{\"id\":1,\"name\":\"Ann\"}\n]\n" {
		t.Errorf("output = %q", out)
	}
}

func TestSort(t *testing.T) {
	path := writeFile(t, "n,s\n10,a\n9,b\n2,c\n")
	out, errOut, code := runCmd(t, "sort", "-column", "0", "-mode", "numeric", "-header", "-linebreak", "lf", path)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if out != "n,s\n2,c\n9,b\n10,a\n" {
		t.Errorf("output = %q", out)
	}

	_, errOut, code = runCmd(t, "sort", "-column", "5", path)
	if code != 1 || !strings.Contains(errOut, "out of range") {
		t.Errorf("exit %d: %s", code, errOut)
	}
}

func TestExplicitInputDialect(t *testing.T) {
	path := writeFile(t, "a|b\n")
	out, errOut, code := runCmd(t, "convert", "-in-delimiter", "pipe", "-linebreak", "lf", path)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if out != "a|b\n" {
		t.Errorf("output = %q", out)
	}
}

func TestExplicitInputDialectSkipsBOM(t *testing.T) {
	path := writeFile(t, "\xEF\xBB\xBFid;name\n1;x\n")
	out, errOut, code := runCmd(t, "convert", "-in-delimiter", ";", "-linebreak", "lf", path)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if out != "id;name\n1;x\n" {
		t.Errorf("output = %q", out)
	}
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no command", nil, 2},
		{"unknown command", []string{"frobnicate"}, 2},
		{"missing file argument", []string{"detect"}, 2},
		{"bad flag", []string{"json", "-nope", "x"}, 2},
		{"missing file", []string{"detect", filepath.Join(t.TempDir(), "missing.csv")}, 1},
		{"help", []string{"help"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, code := runCmd(t, tt.args...); code != tt.code {
				t.Errorf("exit = %d, want %d", code, tt.code)
			}
		})
	}
}

func TestEnvFallback(t *testing.T) {
	t.Setenv("SHAPETABLE_LINEBREAK", "lf")
	path := writeFile(t, "a,b\n")
	out, _, code := runCmd(t, "convert", path)
	if code != 0 || out != "a,b\n" {
		t.Errorf("exit %d, output = %q", code, out)
	}
}
