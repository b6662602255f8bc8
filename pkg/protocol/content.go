package protocol

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	mcperrors "github.com/ajitpratap0/mcp-schema-go/pkg/errors"
)

// ContentType is the wire discriminator of a content item.
type ContentType string

const (
	ContentTypeText     ContentType = "Text"
	ContentTypeImage    ContentType = "Image"
	ContentTypeResource ContentType = "EmbeddedResource"
)

// Content is one unit of a tool result. The union is closed: TextContent,
// ImageContent and EmbeddedResource are its only members, so a type switch
// over them is exhaustive.
type Content interface {
	Annotated

	// Type returns the variant's discriminator tag.
	Type() ContentType

	isContent()
}

// TextContent is a plain text content item.
type TextContent struct {
	Text        string       `json:"text"`
	Annotations *Annotations `json:"annotations,omitempty"`
}

func (TextContent) isContent()                     {}
func (TextContent) Type() ContentType              { return ContentTypeText }
func (c TextContent) GetAnnotations() *Annotations { return c.Annotations }

func (c TextContent) MarshalJSON() ([]byte, error) {
	type textContent TextContent
	return json.Marshal(struct {
		Type ContentType `json:"type"`
		textContent
	}{ContentTypeText, textContent(c)})
}

func (c *TextContent) UnmarshalJSON(data []byte) error {
	return decodeDocument(data, func(data []byte, path string) error {
		return decodeVariant(data, path, c)
	})
}

func (c *TextContent) decodeFields(obj *wireObject) error {
	var (
		out TextContent
		err error
	)
	if out.Text, err = obj.requiredString("text"); err != nil {
		return err
	}
	if out.Annotations, err = decodeAnnotations(obj); err != nil {
		return err
	}
	*c = out
	return nil
}

// ImageContent is an image content item. ImageData holds the standard,
// padded base64 encoding of the image.
type ImageContent struct {
	ImageData   string       `json:"image_data"`
	MimeType    string       `json:"mime_type"`
	Annotations *Annotations `json:"annotations,omitempty"`
}

func (ImageContent) isContent()                     {}
func (ImageContent) Type() ContentType              { return ContentTypeImage }
func (c ImageContent) GetAnnotations() *Annotations { return c.Annotations }

// Bytes decodes ImageData.
func (c ImageContent) Bytes() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(c.ImageData)
	if err != nil {
		return nil, mcperrors.InvalidEncoding("image_data", err)
	}
	return data, nil
}

func (c ImageContent) MarshalJSON() ([]byte, error) {
	if _, err := base64.StdEncoding.DecodeString(c.ImageData); err != nil {
		return nil, mcperrors.EncodeFault("ImageContent", "image_data is not valid base64")
	}
	type imageContent ImageContent
	return json.Marshal(struct {
		Type ContentType `json:"type"`
		imageContent
	}{ContentTypeImage, imageContent(c)})
}

func (c *ImageContent) UnmarshalJSON(data []byte) error {
	return decodeDocument(data, func(data []byte, path string) error {
		return decodeVariant(data, path, c)
	})
}

func (c *ImageContent) decodeFields(obj *wireObject) error {
	var (
		out ImageContent
		err error
	)
	if out.ImageData, err = obj.requiredBase64("image_data"); err != nil {
		return err
	}
	if out.MimeType, err = obj.requiredString("mime_type"); err != nil {
		return err
	}
	if out.Annotations, err = decodeAnnotations(obj); err != nil {
		return err
	}
	*c = out
	return nil
}

// EmbeddedResource is a content item that carries a Resource inline.
type EmbeddedResource struct {
	Resource    Resource     `json:"resource"`
	Annotations *Annotations `json:"annotations,omitempty"`
}

func (EmbeddedResource) isContent()                     {}
func (EmbeddedResource) Type() ContentType              { return ContentTypeResource }
func (c EmbeddedResource) GetAnnotations() *Annotations { return c.Annotations }

func (c EmbeddedResource) MarshalJSON() ([]byte, error) {
	type embeddedResource EmbeddedResource
	return json.Marshal(struct {
		Type ContentType `json:"type"`
		embeddedResource
	}{ContentTypeResource, embeddedResource(c)})
}

func (c *EmbeddedResource) UnmarshalJSON(data []byte) error {
	return decodeDocument(data, func(data []byte, path string) error {
		return decodeVariant(data, path, c)
	})
}

func (c *EmbeddedResource) decodeFields(obj *wireObject) error {
	raw, err := obj.require("resource", shapeObject)
	if err != nil {
		return err
	}
	var out EmbeddedResource
	if err := out.Resource.decode(raw, obj.at("resource")); err != nil {
		return err
	}
	if out.Annotations, err = decodeAnnotations(obj); err != nil {
		return err
	}
	*c = out
	return nil
}

// NewTextContent returns a text item without annotations.
func NewTextContent(text string) TextContent {
	return TextContent{Text: text}
}

// NewImageContent base64-encodes data into an image item.
func NewImageContent(data []byte, mimeType string) ImageContent {
	return ImageContent{
		ImageData: base64.StdEncoding.EncodeToString(data),
		MimeType:  mimeType,
	}
}

// NewEmbeddedResource wraps resource in a content item.
func NewEmbeddedResource(resource Resource) EmbeddedResource {
	return EmbeddedResource{Resource: resource}
}

// decodeContent reads one content item, dispatching on its "type" tag.
func decodeContent(data []byte, path string) (Content, error) {
	obj, err := readObject(data, path)
	if err != nil {
		return nil, err
	}
	tag, err := obj.requiredString("type")
	if err != nil {
		return nil, err
	}

	switch ContentType(tag) {
	case ContentTypeText:
		var c TextContent
		if err := c.decodeFields(obj); err != nil {
			return nil, err
		}
		return c, nil
	case ContentTypeImage:
		var c ImageContent
		if err := c.decodeFields(obj); err != nil {
			return nil, err
		}
		return c, nil
	case ContentTypeResource:
		var c EmbeddedResource
		if err := c.decodeFields(obj); err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, mcperrors.UnknownVariantTag(obj.at("type"), tag)
	}
}

// decodeVariant decodes a bare content item into a specific variant and
// rejects documents tagged as a different one.
func decodeVariant[T Content](data []byte, path string, dst *T) error {
	c, err := decodeContent(data, path)
	if err != nil {
		return err
	}
	v, ok := c.(T)
	if !ok {
		var want T
		return mcperrors.TypeMismatch(joinPath(path, "type"), fmt.Sprintf("%q", want.Type()), fmt.Sprintf("%q", c.Type()))
	}
	*dst = v
	return nil
}

// ContentItem holds a single content item of any variant. It is the
// decoding target for a bare content document whose variant is not known
// in advance.
type ContentItem struct {
	Content Content
}

func (c ContentItem) GetAnnotations() *Annotations {
	if c.Content == nil {
		return nil
	}
	return c.Content.GetAnnotations()
}

func (c ContentItem) MarshalJSON() ([]byte, error) {
	if c.Content == nil {
		return nil, mcperrors.EncodeFault("ContentItem", "content is nil")
	}
	return json.Marshal(c.Content)
}

func (c *ContentItem) UnmarshalJSON(data []byte) error {
	return decodeDocument(data, func(data []byte, path string) error {
		content, err := decodeContent(data, path)
		if err != nil {
			return err
		}
		c.Content = content
		return nil
	})
}

// encodeContents marshals a content sequence, which is always present on
// the wire: a nil slice encodes as [].
func encodeContents(entity string, contents []Content) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, len(contents))
	for i, c := range contents {
		if c == nil {
			return nil, mcperrors.EncodeFault(entity, fmt.Sprintf("content[%d] is nil", i))
		}
		data, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		out[i] = data
	}
	return out, nil
}
