package storage_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/philatopia/pkg/storage"
)

func TestNaming_ContentKey(t *testing.T) {
	data := []byte("inverted jenny")

	a, err := storage.NamingContent.Key("Jenny.PNG", data)
	if err != nil {
		t.Fatalf("Key() failed: %v", err)
	}
	b, _ := storage.NamingContent.Key("other-name.png", data)
	c, _ := storage.NamingContent.Key("Jenny.PNG", []byte("different bytes"))

	if a != b {
		t.Errorf("identical bytes produced different keys: %q vs %q", a, b)
	}
	if a == c {
		t.Error("different bytes produced the same key")
	}
	if !strings.HasSuffix(a, ".png") {
		t.Errorf("key %q should keep the lower-cased extension", a)
	}
	if len(a) != 64+len(".png") {
		t.Errorf("key %q should be a sha256 hex digest plus extension", a)
	}
}

func TestNaming_OriginalKey(t *testing.T) {
	tests := []struct {
		filename string
		want     string
		wantErr  bool
	}{
		{"penny-black.jpg", "penny-black.jpg", false},
		{"../../etc/passwd", "passwd", false},
		{`C:\photos\blue mauritius.png`, "blue_mauritius.png", false},
		{"..", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := storage.NamingOriginal.Key(tt.filename, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Key() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNaming_Validate(t *testing.T) {
	if err := storage.Naming("random").Validate(); err == nil {
		t.Error("Validate() accepted unknown naming")
	}
}
