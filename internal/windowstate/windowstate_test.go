package windowstate

import (
	"os"
	"testing"
)

type fakeWindow struct{ x, y, w, h int }

func (f fakeWindow) Size() (int, int)     { return f.w, f.h }
func (f fakeWindow) Position() (int, int) { return f.x, f.y }

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()

	if s := Load(dir); s != nil {
		t.Fatalf("expected nil state for empty dir, got %+v", s)
	}

	want := Capture(fakeWindow{x: -1440, y: 25, w: 1280, h: 860})
	if err := Save(dir, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got := Load(dir)
	if got == nil {
		t.Fatal("expected saved state")
	}
	if *got != want {
		t.Errorf("expected %+v, got %+v", want, *got)
	}
}

func TestSaveSkipsInvalidSize(t *testing.T) {
	dir := t.TempDir()
	if err := Save(dir, State{Width: 0, Height: 0}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(Path(dir)); !os.IsNotExist(err) {
		t.Error("minimised window size should not be written")
	}
}

func TestLoadRejectsNonsense(t *testing.T) {
	dir := t.TempDir()

	os.WriteFile(Path(dir), []byte(`{"x":0,"y":0,"width":120,"height":80}`), 0644)
	if s := Load(dir); s != nil {
		t.Errorf("expected tiny size rejected, got %+v", s)
	}

	os.WriteFile(Path(dir), []byte(`not json`), 0644)
	if s := Load(dir); s != nil {
		t.Errorf("expected corrupt file rejected, got %+v", s)
	}
}
