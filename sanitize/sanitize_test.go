package sanitize

import (
	"errors"
	"strings"
	"testing"
)

func TestSecureFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "report.docx", "report.docx"},
		{"unix path stripped", "/etc/passwd", "passwd"},
		{"windows path stripped", `C:\Users\x\doc.pdf`, "doc.pdf"},
		{"traversal stripped", "../../secret.txt", "secret.txt"},
		{"spaces collapse", "my  report final.txt", "my_report_final.txt"},
		{"unicode collapses", "résumé.pdf", "r_sum_.pdf"},
		{"leading dot removed", ".hidden", "hidden"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SecureFilename(tt.in)
			if err != nil {
				t.Fatalf("SecureFilename(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("SecureFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSecureFilename_Empty(t *testing.T) {
	// WHAT: names that sanitize to nothing must be rejected.
	// WHY: an empty name would otherwise become a staging path component.
	for _, in := range []string{"", "...", "///", "™©®"} {
		if _, err := SecureFilename(in); !errors.Is(err, ErrMissingFile) {
			t.Errorf("SecureFilename(%q): want ErrMissingFile, got %v", in, err)
		}
	}
}

func TestCheckExtension(t *testing.T) {
	got, err := CheckExtension("notes.TXT", TextExtensions)
	if err != nil {
		t.Fatalf("CheckExtension: %v", err)
	}
	if got != "notes.TXT" {
		t.Errorf("CheckExtension = %q, want notes.TXT", got)
	}

	if _, err := CheckExtension("shell.sh", TextExtensions); !errors.Is(err, ErrUnsupportedExtension) {
		t.Errorf("want ErrUnsupportedExtension, got %v", err)
	}
	if _, err := CheckExtension("noext", ImageExtensions); !errors.Is(err, ErrUnsupportedExtension) {
		t.Errorf("no extension: want ErrUnsupportedExtension, got %v", err)
	}
}

func TestCheckExtension_TraversalBeforeCheck(t *testing.T) {
	// WHAT: traversal components are removed before the extension check.
	// WHY: "../../x.png" has a valid extension but must not keep its path.
	got, err := CheckExtension("../../x.png", ImageExtensions)
	if err != nil {
		t.Fatalf("CheckExtension: %v", err)
	}
	if strings.Contains(got, "/") || strings.Contains(got, "..") {
		t.Errorf("sanitized name still contains path parts: %q", got)
	}
}

func TestSafePath(t *testing.T) {
	base := t.TempDir()

	p, err := SafePath(base, "upload/in.docx")
	if err != nil {
		t.Fatalf("SafePath: %v", err)
	}
	if !strings.HasPrefix(p, base) {
		t.Errorf("SafePath = %q, want prefix %q", p, base)
	}

	if _, err := SafePath(base, "../outside"); !errors.Is(err, ErrPathTraversal) {
		t.Errorf("want ErrPathTraversal, got %v", err)
	}
}

func TestLimitedReadAll(t *testing.T) {
	data, err := LimitedReadAll(strings.NewReader("hello"), 10)
	if err != nil {
		t.Fatalf("LimitedReadAll: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("data = %q", data)
	}

	if _, err := LimitedReadAll(strings.NewReader("0123456789abc"), 10); err == nil {
		t.Error("want error for oversized body")
	}
}
