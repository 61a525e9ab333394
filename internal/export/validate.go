package export

import (
	"bytes"

	"github.com/campusforge/portal-export/internal/platform/apierr"
)

var pdfMagic = []byte("%PDF")

// ValidateArtifact checks that rendered bytes are a plausible PDF before
// they are handed to the client. A renderer that navigated to an error page
// produces markup instead of a binary, that case gets its own diagnostic.
func ValidateArtifact(data []byte) error {
	if len(data) == 0 {
		return apierr.Newf(apierr.KindInvalidArtifact, "la génération du document a échoué",
			"rendered artifact is empty")
	}
	if bytes.HasPrefix(data, pdfMagic) {
		return nil
	}
	head := data
	if len(head) > 8 {
		head = head[:8]
	}
	if bytes.HasPrefix(data, []byte("<!")) || bytes.HasPrefix(bytes.ToLower(head), []byte("<htm")) {
		return apierr.Newf(apierr.KindInvalidArtifact, "la génération du document a échoué",
			"renderer produced markup instead of a PDF (%d bytes)", len(data))
	}
	return apierr.Newf(apierr.KindInvalidArtifact, "la génération du document a échoué",
		"artifact has bad header % x (%d bytes)", head, len(data))
}
