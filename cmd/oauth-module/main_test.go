package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bigkaa/goartstore/oauth-module/internal/config"
)

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version вернул ошибку: %v", err)
	}
	if strings.TrimSpace(out.String()) != config.Version {
		t.Errorf("вывод = %q, ожидается %q", out.String(), config.Version)
	}
}

func TestBuildHTTPClientWithCA_Errors(t *testing.T) {
	if _, err := buildHTTPClientWithCA(filepath.Join(t.TempDir(), "missing.pem"), 0); err == nil {
		t.Error("ожидалась ошибка для отсутствующего файла")
	}

	path := filepath.Join(t.TempDir(), "garbage.pem")
	if err := os.WriteFile(path, []byte("not a certificate"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := buildHTTPClientWithCA(path, 0); err == nil {
		t.Error("ожидалась ошибка для файла без PEM")
	}
}
