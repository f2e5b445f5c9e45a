package handlers

import (
	"mime/multipart"
	"strings"
	"testing"
)

func TestSaveAttachmentRejectsUnsupportedTypes(t *testing.T) {
	bad := []string{"payload.exe", "script.sh", "noextension"}
	for _, name := range bad {
		file := &multipart.FileHeader{Filename: name, Size: 100}
		if _, err := saveAttachment(file); err == nil {
			t.Fatalf("expected %s to be rejected", name)
		}
	}
}

func TestSaveAttachmentRejectsOversizedFiles(t *testing.T) {
	file := &multipart.FileHeader{Filename: "id.png", Size: 6 << 20}
	_, err := saveAttachment(file)
	if err == nil {
		t.Fatal("expected oversized file to be rejected")
	}
	if !strings.Contains(err.Error(), "too large") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSafeDeleteUploadRefusesEscapes(t *testing.T) {
	refused := []string{
		"../etc/passwd",
		"uploads/../../etc/passwd",
		"documents/file.png",
		"/etc/passwd",
	}
	for _, p := range refused {
		if err := safeDeleteUpload(p); err == nil {
			t.Fatalf("expected %s to be refused", p)
		}
	}
}

func TestSafeDeleteUploadIgnoresEmptyAndMissing(t *testing.T) {
	if err := safeDeleteUpload(""); err != nil {
		t.Fatalf("empty path should be a no-op, got %v", err)
	}
	if err := safeDeleteUpload("   "); err != nil {
		t.Fatalf("blank path should be a no-op, got %v", err)
	}
	// A well-formed path that does not exist is not an error.
	if err := safeDeleteUpload("uploads/documents/000000000000000000000000.png"); err != nil {
		t.Fatalf("missing file should be a no-op, got %v", err)
	}
}
