package normalize

import (
	"strings"

	"github.com/alfgow/inmobiliaria-server/internal/models"
)

// signedURLMarkers flag links that were produced by a time-limited presigner;
// those must never be promoted into the long-lived URL slot.
var signedURLMarkers = []string{"X-Amz-", "x-amz-"}

func looksSigned(url string) bool {
	for _, marker := range signedURLMarkers {
		if strings.Contains(url, marker) {
			return true
		}
	}
	return false
}

// normalizeImage reconciles the image shapes seen across backends: flat
// records, records with a nested metadata object, and records where url and
// signedUrl were conflated into a single field.
func normalizeImage(raw map[string]interface{}, index int) models.Image {
	metadata, _ := raw["metadata"].(map[string]interface{})
	if metadata == nil {
		metadata = map[string]interface{}{}
	}

	img := models.Image{
		ID:       formatIdentifier(raw["id"]),
		IsPublic: true,
		Order:    index,
	}
	if img.ID == "" {
		img.ID = formatIdentifier(metadata["id"])
	}

	url := firstString(raw["url"], metadata["url"], metadata["publicUrl"])
	signed := firstString(raw["signedUrl"], raw["signed_url"], metadata["signedUrl"])
	path := firstString(raw["path"], raw["s3Key"], raw["s3_key"], metadata["path"])

	// Older records stored the presigned link in the url column; keep the
	// marker heuristic so it lands in the right slot.
	if url != nil && looksSigned(*url) {
		if signed == nil {
			signed = url
		}
		url = nil
	}
	if signed != nil && !looksSigned(*signed) && url == nil {
		url = signed
	}

	img.URL = url
	img.SignedURL = signed
	img.Path = path

	if title := firstString(raw["title"], metadata["title"]); title != nil {
		img.Title = title
	}
	if description := firstString(raw["description"], metadata["description"]); description != nil {
		img.Description = description
	}

	if value, ok := raw["isCover"]; ok {
		img.IsCover = ParseBool(value)
	} else if value, ok := metadata["isCover"]; ok {
		img.IsCover = ParseBool(value)
	}

	if value, ok := raw["isPublic"]; ok {
		img.IsPublic = ParseBool(value)
	} else if value, ok := metadata["isPublic"]; ok {
		img.IsPublic = ParseBool(value)
	}

	if order := ParseNumber(firstValue(raw["order"], raw["orden"], metadata["order"])); order != nil {
		img.Order = int(*order)
	}

	return img
}

func firstString(values ...interface{}) *string {
	for _, value := range values {
		if s := ParseString(value); s != nil {
			return s
		}
	}
	return nil
}

func firstValue(values ...interface{}) interface{} {
	for _, value := range values {
		if value != nil {
			return value
		}
	}
	return nil
}
