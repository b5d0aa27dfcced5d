// Package passkit builds the wallet-pass bundle handed out on ticket
// redemption: a zip containing pass.json and a manifest of SHA-1 digests,
// laid out as an eventTicket pass with a QR code pointing at the event.
package passkit

import (
	"archive/zip"
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/evently/evently-api/internal/domain"
)

const (
	passTypeIdentifier = "pass.net.club-rezo.rezaleux"
	teamIdentifier     = "AY235446A3"
	organizationName   = "Evently"
)

type Generator struct {
	baseURL string
}

func NewGenerator(baseURL string) *Generator {
	return &Generator{
		baseURL: baseURL,
	}
}

type passField struct {
	Key           string `json:"key"`
	Label         string `json:"label,omitempty"`
	Value         string `json:"value"`
	DateStyle     string `json:"dateStyle,omitempty"`
	TimeStyle     string `json:"timeStyle,omitempty"`
	TextAlignment string `json:"textAlignment,omitempty"`
}

type passBarcode struct {
	Message string `json:"message"`
	Format  string `json:"format"`
}

type passStructure struct {
	HeaderFields    []passField `json:"headerFields"`
	PrimaryFields   []passField `json:"primaryFields"`
	SecondaryFields []passField `json:"secondaryFields"`
	AuxiliaryFields []passField `json:"auxiliaryFields"`
	BackFields      []passField `json:"backFields"`
}

type passDefinition struct {
	FormatVersion      int           `json:"formatVersion"`
	PassTypeIdentifier string        `json:"passTypeIdentifier"`
	SerialNumber       string        `json:"serialNumber"`
	TeamIdentifier     string        `json:"teamIdentifier"`
	OrganizationName   string        `json:"organizationName"`
	Description        string        `json:"description"`
	RelevantDate       string        `json:"relevantDate"`
	Barcodes           []passBarcode `json:"barcodes"`
	EventTicket        passStructure `json:"eventTicket"`
}

func (g *Generator) Render(claims domain.TicketClaims) ([]byte, error) {
	pass := passDefinition{
		FormatVersion:      1,
		PassTypeIdentifier: passTypeIdentifier,
		SerialNumber:       fmt.Sprintf("EVENTLY%d%06d", time.Now().Year(), rand.Intn(1000000)),
		TeamIdentifier:     teamIdentifier,
		OrganizationName:   organizationName,
		Description:        claims.EventName,
		RelevantDate:       claims.StartDate.Format(time.RFC3339),
		Barcodes: []passBarcode{
			{
				Message: fmt.Sprintf("%s/events/%d", g.baseURL, claims.EventID),
				Format:  "PKBarcodeFormatQR",
			},
		},
		EventTicket: passStructure{
			HeaderFields: []passField{
				{
					Key:           "header-date-time",
					Label:         "Starting at",
					Value:         claims.StartDate.Format(time.RFC3339),
					DateStyle:     "PKDateStyleShort",
					TextAlignment: "PKTextAlignmentRight",
				},
			},
			PrimaryFields: []passField{
				{
					Key:           "event-name",
					Label:         "Event",
					Value:         claims.EventName,
					TextAlignment: "PKTextAlignmentLeft",
				},
			},
			SecondaryFields: []passField{
				{
					Key:           "start-time",
					Label:         "Starts at",
					Value:         claims.StartDate.Format(time.RFC3339),
					TimeStyle:     "PKDateStyleShort",
					TextAlignment: "PKTextAlignmentLeft",
				},
				{
					Key:           "end-time",
					Label:         "Ends at",
					Value:         claims.EndDate.Format(time.RFC3339),
					TimeStyle:     "PKDateStyleShort",
					TextAlignment: "PKTextAlignmentRight",
				},
			},
			AuxiliaryFields: []passField{
				{
					Key:           "event-participant",
					Label:         "Participant",
					Value:         claims.Username,
					TextAlignment: "PKTextAlignmentLeft",
				},
			},
			BackFields: []passField{
				{
					Key:           "description",
					Label:         "Description",
					Value:         claims.EventDescription,
					TextAlignment: "PKTextAlignmentLeft",
				},
			},
		},
	}

	passJSON, err := json.Marshal(pass)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal -> %w", err)
	}

	return buildBundle(map[string][]byte{
		"pass.json": passJSON,
	})
}

func buildBundle(files map[string][]byte) ([]byte, error) {
	manifest := make(map[string]string, len(files))
	for name, content := range files {
		sum := sha1.Sum(content)
		manifest[name] = hex.EncodeToString(sum[:])
	}

	manifestJSON, err := json.Marshal(manifest)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal -> %w", err)
	}
	files["manifest.json"] = manifestJSON

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			return nil, fmt.Errorf("w.Create -> %w", err)
		}
		if _, err = f.Write(content); err != nil {
			return nil, fmt.Errorf("f.Write -> %w", err)
		}
	}
	if err = w.Close(); err != nil {
		return nil, fmt.Errorf("w.Close -> %w", err)
	}

	return buf.Bytes(), nil
}
