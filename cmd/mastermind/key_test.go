package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	zkr "github.com/zalando/go-keyring"

	"github.com/mastermind-ai/mastermind/internal/keyring"
)

func runKey(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := KeyCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("key %v failed: %v", args, err)
	}
	return out.String()
}

func TestKeySetStatusDelete(t *testing.T) {
	zkr.MockInit()
	dir := isolate(t)
	os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("credential:\n  use_keyring: true\n"), 0644)

	out := runKey(t, "sk-ant-api03-from-stdin\n", "set")
	if !strings.Contains(out, "sk-ant-...tdin") {
		t.Errorf("expected masked key in output, got %q", out)
	}
	if v, _ := keyring.Get(); v != "sk-ant-api03-from-stdin" {
		t.Errorf("keychain holds %q", v)
	}

	out = runKey(t, "", "status")
	if !strings.Contains(out, "keyring") {
		t.Errorf("expected keyring source, got %q", out)
	}

	runKey(t, "", "delete")
	out = runKey(t, "", "status")
	if !strings.Contains(out, "No API key") {
		t.Errorf("expected missing key after delete, got %q", out)
	}
}
