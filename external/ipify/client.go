// Package ipify captures the device's public address from an IP-echo
// endpoint. The address is advisory metadata on a consent record; every
// failure mode collapses to the "Unknown" sentinel rather than an error.
package ipify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// UnknownOrigin is recorded when the public address cannot be determined.
const UnknownOrigin = "Unknown"

type Client struct {
	endpoint string
	client   *http.Client
}

func New(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// PublicIP queries the echo endpoint. On any failure it returns
// UnknownOrigin.
func (c *Client) PublicIP(ctx context.Context) string {
	reqString := fmt.Sprintf("%s?format=json", c.endpoint)
	log.WithField("prefix", "ipify").WithField("req", reqString).Debug("request public ip")

	req, err := http.NewRequestWithContext(ctx, "GET", reqString, nil)
	if err != nil {
		return UnknownOrigin
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.WithField("prefix", "ipify").WithError(err).Warn("fail to query public ip")
		return UnknownOrigin
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.WithField("prefix", "ipify").WithField("status", resp.StatusCode).Warn("error response from ip echo")
		return UnknownOrigin
	}

	var result struct {
		IP string `json:"ip"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil || result.IP == "" {
		return UnknownOrigin
	}

	return result.IP
}
