package staging

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hazyhaar/morph/sanitize"
)

func TestNew_UniquePerRequest(t *testing.T) {
	base := t.TempDir()

	a, err := New(base, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	b, err := New(base, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	if a.Root() == b.Root() {
		t.Fatalf("staging dirs collide: %q", a.Root())
	}
	if !strings.HasPrefix(filepath.Base(a.Root()), "morph-") {
		t.Errorf("unexpected dir name %q", a.Root())
	}
}

func TestWriteFileAndClose(t *testing.T) {
	d, err := New(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}

	p, err := d.WriteFile("in.txt", []byte("hello"))
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello" {
		t.Fatalf("data = %q", data)
	}

	d.Close()
	if _, err := os.Stat(d.Root()); !os.IsNotExist(err) {
		t.Fatalf("staging dir still exists after Close: %v", err)
	}
}

func TestPath_RejectsTraversal(t *testing.T) {
	d, err := New(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	if _, err := d.Path("../escape.txt"); !errors.Is(err, sanitize.ErrPathTraversal) {
		t.Fatalf("want ErrPathTraversal, got %v", err)
	}
}

func TestClose_Idempotent(t *testing.T) {
	d, err := New(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	d.Close()
	d.Close() // second Close logs at most, never panics
}
