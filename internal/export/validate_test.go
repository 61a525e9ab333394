package export

import (
	"errors"
	"strings"
	"testing"

	"github.com/campusforge/portal-export/internal/platform/apierr"
)

func TestValidateArtifactAcceptsPDF(t *testing.T) {
	if err := ValidateArtifact([]byte("%PDF-1.7\n...")); err != nil {
		t.Fatalf("expected valid artifact, got %v", err)
	}
}

func TestValidateArtifactRejectsEmpty(t *testing.T) {
	err := ValidateArtifact(nil)
	if err == nil {
		t.Fatal("expected error for empty artifact")
	}
	var classified *apierr.Error
	if !errors.As(err, &classified) || classified.Kind != apierr.KindInvalidArtifact {
		t.Fatalf("expected invalid_artifact, got %v", err)
	}
}

func TestValidateArtifactClassifiesMarkup(t *testing.T) {
	for _, payload := range []string{"<!DOCTYPE html><html>error</html>", "<html><body>oops</body></html>", "<HTML>"} {
		err := ValidateArtifact([]byte(payload))
		if err == nil {
			t.Fatalf("expected error for %q", payload)
		}
		var classified *apierr.Error
		if !errors.As(err, &classified) || classified.Kind != apierr.KindInvalidArtifact {
			t.Fatalf("expected invalid_artifact for %q, got %v", payload, err)
		}
		if !strings.Contains(classified.Err.Error(), "markup") {
			t.Fatalf("expected markup diagnostic for %q, got %q", payload, classified.Err.Error())
		}
	}
}

func TestValidateArtifactReportsBadHeaderBytes(t *testing.T) {
	err := ValidateArtifact([]byte{0x00, 0x01, 0x02, 0x03})
	var classified *apierr.Error
	if !errors.As(err, &classified) || classified.Kind != apierr.KindInvalidArtifact {
		t.Fatalf("expected invalid_artifact, got %v", err)
	}
	if !strings.Contains(classified.Err.Error(), "00 01 02 03") {
		t.Fatalf("expected hex header in diagnostic, got %q", classified.Err.Error())
	}
}
