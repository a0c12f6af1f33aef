package static_test

import (
	"io/fs"
	"testing"

	"github.com/euforicio/wikigen/static"
)

func TestEmbeddedStylesheets(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"style.css", "chroma.css"} {
		data, err := fs.ReadFile(static.FS(), name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("%s is empty", name)
		}
	}
	if _, err := fs.Stat(static.FS(), "missing.css"); err == nil {
		t.Fatal("unexpected asset reported present")
	}
}
