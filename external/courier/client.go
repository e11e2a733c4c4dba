package courier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httputil"
	"time"

	log "github.com/sirupsen/logrus"
)

type Client struct {
	endpoint string
	token    string
	client   *http.Client
}

func NewClient(endpoint, token string) *Client {
	return &Client{
		endpoint: endpoint,
		token:    token,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) Send(ctx context.Context, d Delivery) error {
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(d); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/messages", c.endpoint), &body)
	if err != nil {
		return err
	}
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Add("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		dumpBytes, _ := httputil.DumpResponse(resp, true)
		log.WithField("prefix", "courier").WithField("resp", string(dumpBytes)).Error("error response from mail service")
		return fmt.Errorf("fail to deliver request %s", d.RequestID)
	}

	log.WithField("prefix", "courier").WithField("request_id", d.RequestID).Debug("request delivered")
	return nil
}
