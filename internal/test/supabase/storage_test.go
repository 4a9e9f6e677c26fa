package supabase_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStorageClient_SignedDocumentURL(t *testing.T) {
	// This is a placeholder test
	// Full implementation would require setting up a mock storage client
	t.Skip("Requires mock storage client setup")
}

func TestDocumentPathFormat(t *testing.T) {
	teamID := uuid.New()
	quoteID := uuid.New()
	filename := "quote.pdf"

	expectedPath := "teams/" + teamID.String() + "/quotes/" + quoteID.String() + "/" + filename

	// Verify path format
	assert.Contains(t, expectedPath, "teams/")
	assert.Contains(t, expectedPath, "quotes/")
	assert.Contains(t, expectedPath, filename)
}
