package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConvertGitHubURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "blob url",
			in:   "https://github.com/user/repo/blob/main/demo.ipynb",
			want: "https://raw.githubusercontent.com/user/repo/main/demo.ipynb",
		},
		{
			name: "blob url in subdirectory",
			in:   "https://github.com/org/proj/blob/v1.2/notebooks/train.ipynb",
			want: "https://raw.githubusercontent.com/org/proj/v1.2/notebooks/train.ipynb",
		},
		{
			name: "already raw",
			in:   "https://raw.githubusercontent.com/user/repo/main/demo.ipynb",
			want: "https://raw.githubusercontent.com/user/repo/main/demo.ipynb",
		},
		{
			name: "github without blob",
			in:   "https://github.com/user/repo",
			want: "https://github.com/user/repo",
		},
		{
			name: "unrelated host",
			in:   "https://example.com/files/demo.ipynb",
			want: "https://example.com/files/demo.ipynb",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ConvertGitHubURL(tc.in); got != tc.want {
				t.Errorf("ConvertGitHubURL(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestFilenameFromURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com/files/demo.ipynb", "demo.ipynb"},
		{"https://example.com/files/demo", "demo.ipynb"},
		{"https://example.com/files/demo.ipynb?raw=1", "demo.ipynb"},
		{"https://example.com/", "notebook.ipynb"},
		{"https://example.com", "notebook.ipynb"},
	}
	for _, tc := range tests {
		if got := FilenameFromURL(tc.in); got != tc.want {
			t.Errorf("FilenameFromURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDownload(t *testing.T) {
	const body = `{"cells": [], "metadata": {}, "nbformat": 4, "nbformat_minor": 5}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/nb/demo.ipynb" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "demo.ipynb")
	got, err := New("").Download(context.Background(), srv.URL+"/nb/demo.ipynb", out)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if got != out {
		t.Errorf("Download returned %q, want %q", got, out)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != body {
		t.Errorf("downloaded content = %q, want %q", data, body)
	}
}

func TestDownload_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "missing.ipynb")
	_, err := New("").Download(context.Background(), srv.URL+"/gone.ipynb", out)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "HTTP") {
		t.Errorf("error = %v, want HTTP status mention", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("no file should be written on HTTP error")
	}
}
