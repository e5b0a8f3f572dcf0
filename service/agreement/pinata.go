package agreement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"creditrust/core"
	"creditrust/pkg/id"
	"creditrust/pkg/resthttp"
)

// Pinata pins agreement documents through the pinata.cloud api
type Pinata struct {
	client *resthttp.Client
}

var _ core.Pinner = (*Pinata)(nil)

// NewPinata pinner authenticated with an api key pair
func NewPinata(endpoint, apiKey, apiSecret string) *Pinata {
	return &Pinata{
		client: resthttp.New(endpoint, map[string]string{
			"pinata_api_key":        apiKey,
			"pinata_secret_api_key": apiSecret,
		}),
	}
}

type pinRequest struct {
	Content  json.RawMessage `json:"pinataContent"`
	Metadata struct {
		Name string `json:"name"`
	} `json:"pinataMetadata"`
}

type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

func (p *Pinata) PinJSON(ctx context.Context, name string, content []byte) (string, error) {
	body := pinRequest{Content: content}
	body.Metadata.Name = name

	// the same document always pins under the same request id
	var resp pinResponse
	if err := p.client.Post(ctx, "/pinning/pinJSONToIPFS", id.TraceIDFrom(name), body, &resp); err != nil {
		return "", fmt.Errorf("pinata: %w", err)
	}

	if resp.IpfsHash == "" {
		return "", errors.New("pinata: empty IpfsHash")
	}

	return resp.IpfsHash, nil
}
