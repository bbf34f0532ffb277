package env

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnv_SetsUnsetVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("TOURISM_ENV_TEST=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TOURISM_ENV_TEST", "")
	os.Unsetenv("TOURISM_ENV_TEST")

	LoadEnv(path)

	if got := os.Getenv("TOURISM_ENV_TEST"); got != "from-file" {
		t.Fatalf("TOURISM_ENV_TEST = %q, want from-file", got)
	}
}

func TestLoadEnv_DoesNotOverrideExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("TOURISM_ENV_TEST=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TOURISM_ENV_TEST", "from-process")

	LoadEnv(path)

	if got := os.Getenv("TOURISM_ENV_TEST"); got != "from-process" {
		t.Fatalf("TOURISM_ENV_TEST = %q, want from-process", got)
	}
}

func TestLoadEnv_MissingFile(t *testing.T) {
	LoadEnv(filepath.Join(t.TempDir(), "absent.env"))
}
