package protocol

import (
	"encoding/base64"
	"encoding/json"

	mcperrors "github.com/ajitpratap0/mcp-schema-go/pkg/errors"
)

// Resource identifies a piece of server-side data. URI is opaque; no scheme
// is enforced.
type Resource struct {
	URI         string       `json:"uri"`
	Name        *string      `json:"name,omitempty"`
	MimeType    *string      `json:"mime_type,omitempty"`
	Annotations *Annotations `json:"annotations,omitempty"`
}

func (r Resource) GetAnnotations() *Annotations { return r.Annotations }

func (r Resource) MarshalJSON() ([]byte, error) {
	type resource Resource
	return json.Marshal(resource(r))
}

func (r *Resource) UnmarshalJSON(data []byte) error {
	return decodeDocument(data, r.decode)
}

func (r *Resource) decode(data []byte, path string) error {
	obj, err := readObject(data, path)
	if err != nil {
		return err
	}

	var out Resource
	if out.URI, err = obj.requiredString("uri"); err != nil {
		return err
	}
	if out.Name, err = obj.optionalString("name"); err != nil {
		return err
	}
	if out.MimeType, err = obj.optionalString("mime_type"); err != nil {
		return err
	}
	if out.Annotations, err = decodeAnnotations(obj); err != nil {
		return err
	}

	*r = out
	return nil
}

// BlobResourceContents carries binary resource data as base64 text.
type BlobResourceContents struct {
	// Blob is the standard, padded base64 encoding of the data.
	Blob     string  `json:"blob"`
	MimeType *string `json:"mime_type,omitempty"`
	URI      string  `json:"uri"`
}

// Bytes decodes Blob.
func (b BlobResourceContents) Bytes() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(b.Blob)
	if err != nil {
		return nil, mcperrors.InvalidEncoding("blob", err)
	}
	return data, nil
}

func (b BlobResourceContents) MarshalJSON() ([]byte, error) {
	if _, err := base64.StdEncoding.DecodeString(b.Blob); err != nil {
		return nil, mcperrors.EncodeFault("BlobResourceContents", "blob is not valid base64")
	}
	type blobResourceContents BlobResourceContents
	return json.Marshal(blobResourceContents(b))
}

func (b *BlobResourceContents) UnmarshalJSON(data []byte) error {
	return decodeDocument(data, b.decode)
}

func (b *BlobResourceContents) decode(data []byte, path string) error {
	obj, err := readObject(data, path)
	if err != nil {
		return err
	}

	var out BlobResourceContents
	if out.Blob, err = obj.requiredBase64("blob"); err != nil {
		return err
	}
	if out.MimeType, err = obj.optionalString("mime_type"); err != nil {
		return err
	}
	if out.URI, err = obj.requiredString("uri"); err != nil {
		return err
	}

	*b = out
	return nil
}

// NewBlobResourceContents encodes data for uri.
func NewBlobResourceContents(uri string, data []byte, mimeType string) BlobResourceContents {
	b := BlobResourceContents{
		Blob: base64.StdEncoding.EncodeToString(data),
		URI:  uri,
	}
	if mimeType != "" {
		b.MimeType = &mimeType
	}
	return b
}
