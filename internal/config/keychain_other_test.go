//go:build !darwin

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestKeychainSet_CorruptFileKept(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	p := secretsFilePath()
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		t.Fatal(err)
	}
	corrupt := []byte(`{"cgs": {"admin_password": "hunter2"`)
	if err := os.WriteFile(p, corrupt, 0o600); err != nil {
		t.Fatal(err)
	}

	if err := keychainSet(secretService, sessionTokenSecret, "tok"); err == nil {
		t.Error("keychainSet should fail on an unparseable secrets file")
	}
	if err := keychainDelete(secretService, adminPasswordSecret); err == nil {
		t.Error("keychainDelete should fail on an unparseable secrets file")
	}

	got, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(corrupt) {
		t.Errorf("secrets file was rewritten: %s", got)
	}
}

func TestKeychainRoundTrip(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	if err := keychainDelete(secretService, sessionTokenSecret); err != nil {
		t.Fatalf("delete with no file: %v", err)
	}
	if err := keychainSet(secretService, sessionTokenSecret, "tok"); err != nil {
		t.Fatalf("keychainSet: %v", err)
	}
	if err := keychainSet(secretService, adminPasswordSecret, "pw"); err != nil {
		t.Fatalf("keychainSet: %v", err)
	}
	if v, err := keychainGet(secretService, sessionTokenSecret); err != nil || string(v) != "tok" {
		t.Fatalf("keychainGet = %q, %v", v, err)
	}

	if err := keychainDelete(secretService, sessionTokenSecret); err != nil {
		t.Fatalf("keychainDelete: %v", err)
	}
	if _, err := keychainGet(secretService, sessionTokenSecret); err == nil {
		t.Error("token still present after delete")
	}
	if v, _ := keychainGet(secretService, adminPasswordSecret); string(v) != "pw" {
		t.Errorf("unrelated secret lost: %q", v)
	}
}
