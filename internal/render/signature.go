package render

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	signatureMaxW = 300
	signatureMaxH = 120
)

var errBadDataURL = errors.New("render: malformed signature data URL")

// decodeDataURL extracts the raw bytes of a "data:<mime>[;base64],<payload>" URL.
func decodeDataURL(s string) ([]byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, errBadDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, errBadDataURL
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
		if err != nil {
			// browsers sometimes emit unpadded payloads
			data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(strings.TrimSpace(payload), "="))
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errBadDataURL, err)
		}
		return data, nil
	}
	unescaped, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadDataURL, err)
	}
	return []byte(unescaped), nil
}

// normalizeSignature decodes any raster format imaging understands, fits it
// into the signature box and re-encodes it as PNG for the PDF writer.
func normalizeSignature(dataURL string) ([]byte, error) {
	raw, err := decodeDataURL(dataURL)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("render: decode signature: %w", err)
	}
	b := img.Bounds()
	if b.Dx() > signatureMaxW || b.Dy() > signatureMaxH {
		img = imaging.Fit(img, signatureMaxW, signatureMaxH, imaging.Lanczos)
	}
	var out bytes.Buffer
	if err := imaging.Encode(&out, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("render: encode signature: %w", err)
	}
	return out.Bytes(), nil
}
