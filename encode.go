package rollbar

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Wire formats supported by the encoding stage.
const (
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
)

// EncodedPayload is the wire-ready form of a payload: the encoded bytes plus
// the format needed to route them to the right decoder. Its size in bytes is
// observable for the truncation stage. Never mutated after the send call
// returns.
type EncodedPayload struct {
	Format string
	Data   []byte
}

// Size returns the encoded size in bytes.
func (p EncodedPayload) Size() int { return len(p.Data) }

// Bytes returns the encoded form.
func (p EncodedPayload) Bytes() []byte { return p.Data }

// Encoder converts a plain serialized tree to and from its wire form.
// Encoding is a discrete pipeline stage so the wire format stays swappable.
type Encoder interface {
	Format() string
	Encode(tree any) (EncodedPayload, error)
	Decode(p EncodedPayload, out any) error
}

func newEncoder(format string) (Encoder, error) {
	switch format {
	case FormatJSON, "":
		return jsonEncoder{}, nil
	case FormatMsgpack:
		return msgpackEncoder{}, nil
	default:
		return nil, fmt.Errorf("%w: format must be one of json, msgpack; %q given",
			ErrInvalidArgument, format)
	}
}

type jsonEncoder struct{}

func (jsonEncoder) Format() string { return FormatJSON }

func (jsonEncoder) Encode(tree any) (EncodedPayload, error) {
	data, err := json.Marshal(tree)
	if err != nil {
		return EncodedPayload{}, fmt.Errorf("encode json: %w", err)
	}
	return EncodedPayload{Format: FormatJSON, Data: data}, nil
}

func (jsonEncoder) Decode(p EncodedPayload, out any) error {
	return json.Unmarshal(p.Data, out)
}

type msgpackEncoder struct{}

func (msgpackEncoder) Format() string { return FormatMsgpack }

func (msgpackEncoder) Encode(tree any) (EncodedPayload, error) {
	data, err := msgpack.Marshal(tree)
	if err != nil {
		return EncodedPayload{}, fmt.Errorf("encode msgpack: %w", err)
	}
	return EncodedPayload{Format: FormatMsgpack, Data: data}, nil
}

func (msgpackEncoder) Decode(p EncodedPayload, out any) error {
	return msgpack.Unmarshal(p.Data, out)
}

// encodeBatch combines already-encoded payloads into one wire-level array
// without re-encoding the items.
func encodeBatch(batch []EncodedPayload) (EncodedPayload, error) {
	if len(batch) == 0 {
		return EncodedPayload{}, fmt.Errorf("empty batch")
	}

	switch batch[0].Format {
	case FormatMsgpack:
		items := make([]msgpack.RawMessage, len(batch))
		for i, p := range batch {
			items[i] = msgpack.RawMessage(p.Data)
		}
		data, err := msgpack.Marshal(items)
		if err != nil {
			return EncodedPayload{}, fmt.Errorf("encode msgpack batch: %w", err)
		}
		return EncodedPayload{Format: FormatMsgpack, Data: data}, nil
	default:
		items := make([]json.RawMessage, len(batch))
		for i, p := range batch {
			items[i] = json.RawMessage(p.Data)
		}
		data, err := json.Marshal(items)
		if err != nil {
			return EncodedPayload{}, fmt.Errorf("encode json batch: %w", err)
		}
		return EncodedPayload{Format: FormatJSON, Data: data}, nil
	}
}
