package storage

import (
	"strings"
	"testing"
)

func TestValidateImageFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"avatar.jpg", true},
		{"avatar.JPEG", true},
		{"avatar.png", true},
		{"avatar.gif", true},
		{"avatar.webp", false},
		{"avatar.svg", false},
		{"script.jpg.exe", false},
		{"noextension", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidateImageFilename(tt.filename); got != tt.want {
			t.Errorf("ValidateImageFilename(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestContentTypeForFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"a.jpg", "image/jpeg"},
		{"a.jpeg", "image/jpeg"},
		{"a.PNG", "image/png"},
		{"a.gif", "image/gif"},
		{"a.bin", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := ContentTypeForFilename(tt.filename); got != tt.want {
			t.Errorf("ContentTypeForFilename(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestObjectKeys(t *testing.T) {
	profile := ProfileKey("me.PNG")
	if !strings.HasPrefix(profile, FolderProfiles+"/") {
		t.Errorf("profile key %q not under %s/", profile, FolderProfiles)
	}
	if !strings.HasSuffix(profile, ".png") {
		t.Errorf("profile key %q does not keep lowercased extension", profile)
	}

	// Keys must be unique per call.
	if ProfileKey("me.png") == ProfileKey("me.png") {
		t.Error("ProfileKey returned the same key twice")
	}
}
