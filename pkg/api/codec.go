// Package api holds the Connect wire messages, handlers and clients of the
// group ledger services. Messages are plain Go structs carried as JSON.
package api

import (
	"encoding/json"
	"fmt"
	"strings"

	"connectrpc.com/connect"
)

// DateLayout is the wire form of calendar dates.
const DateLayout = "2006-01-02"

// Error metadata keys set on rejected calls.
const (
	MetaErrorCode  = "Shg-Error-Code"
	MetaErrorField = "Shg-Error-Field"
	MetaMaxAllowed = "Shg-Max-Allowed"
)

// Codec marshals messages as JSON. It registers under the name "json", so
// Connect serves it for application/json requests.
type Codec struct{}

// Name implements connect.Codec.
func (Codec) Name() string { return "json" }

// Marshal implements connect.Codec.
func (Codec) Marshal(msg any) ([]byte, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", msg, err)
	}
	return b, nil
}

// Unmarshal implements connect.Codec. An empty body decodes to the zero message.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("failed to unmarshal %T: %w", msg, err)
	}
	return nil
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
}

func trimBaseURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/")
}
