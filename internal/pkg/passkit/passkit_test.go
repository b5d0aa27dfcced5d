package passkit

import (
	"archive/zip"
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evently/evently-api/internal/domain"
)

func sampleClaims() domain.TicketClaims {
	return domain.TicketClaims{
		EventID:          42,
		EventName:        "Gophers Meetup",
		EventDescription: "Monthly meetup",
		StartDate:        time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2026, 9, 1, 21, 0, 0, 0, time.UTC),
		Username:         "alice",
	}
}

func readBundle(t *testing.T, bundle []byte) map[string][]byte {
	t.Helper()

	r, err := zip.NewReader(bytes.NewReader(bundle), int64(len(bundle)))
	require.NoError(t, err)

	files := make(map[string][]byte, len(r.File))
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)

		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())

		files[f.Name] = content
	}

	return files
}

func TestRender_BundleLayout(t *testing.T) {
	bundle, err := NewGenerator("https://evently.example.com").Render(sampleClaims())
	require.NoError(t, err)

	files := readBundle(t, bundle)
	require.Contains(t, files, "pass.json")
	require.Contains(t, files, "manifest.json")
	assert.Len(t, files, 2)
}

func TestRender_PassContent(t *testing.T) {
	bundle, err := NewGenerator("https://evently.example.com").Render(sampleClaims())
	require.NoError(t, err)

	files := readBundle(t, bundle)

	var pass passDefinition
	require.NoError(t, json.Unmarshal(files["pass.json"], &pass))

	assert.Equal(t, 1, pass.FormatVersion)
	assert.Equal(t, passTypeIdentifier, pass.PassTypeIdentifier)
	assert.Equal(t, teamIdentifier, pass.TeamIdentifier)
	assert.Equal(t, organizationName, pass.OrganizationName)
	assert.Equal(t, "Gophers Meetup", pass.Description)
	assert.Regexp(t, `^EVENTLY\d+$`, pass.SerialNumber)

	require.Len(t, pass.Barcodes, 1)
	assert.Equal(t, "https://evently.example.com/events/42", pass.Barcodes[0].Message)
	assert.Equal(t, "PKBarcodeFormatQR", pass.Barcodes[0].Format)

	require.Len(t, pass.EventTicket.PrimaryFields, 1)
	assert.Equal(t, "Gophers Meetup", pass.EventTicket.PrimaryFields[0].Value)
	require.Len(t, pass.EventTicket.AuxiliaryFields, 1)
	assert.Equal(t, "alice", pass.EventTicket.AuxiliaryFields[0].Value)
}

func TestRender_ManifestDigests(t *testing.T) {
	bundle, err := NewGenerator("https://evently.example.com").Render(sampleClaims())
	require.NoError(t, err)

	files := readBundle(t, bundle)

	var manifest map[string]string
	require.NoError(t, json.Unmarshal(files["manifest.json"], &manifest))

	sum := sha1.Sum(files["pass.json"])
	assert.Equal(t, hex.EncodeToString(sum[:]), manifest["pass.json"])
}
