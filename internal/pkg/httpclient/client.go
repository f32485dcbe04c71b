// internal/pkg/httpclient/client.go
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Resolver turns a logical service name into a reachable host:port. The nacos
// client satisfies this.
type Resolver interface {
	DiscoverServiceInstance(serviceName string) (string, int, error)
}

// Client is a traced, connection-pooled HTTP client for calling sibling
// services by their registered name.
type Client struct {
	tracer     trace.Tracer
	resolver   Resolver
	httpClient *http.Client
}

// NewClient creates a client. No client-level timeout is set; every call is
// bounded by the context the caller passes in.
func NewClient(tracer trace.Tracer, resolver Resolver) *Client {
	return &Client{
		tracer:   tracer,
		resolver: resolver,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
			},
		},
	}
}

// PostJSON resolves service, POSTs reqBody as JSON to path and decodes the
// reply into respBody (skipped when respBody is nil). A non-2xx reply is an
// error.
func (c *Client) PostJSON(ctx context.Context, service, path string, reqBody, respBody any) error {
	ctx, span := c.tracer.Start(ctx, fmt.Sprintf("call-%s", service), trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	ip, port, err := c.resolver.DiscoverServiceInstance(service)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return errors.Wrapf(err, "resolve service %s", service)
	}
	url := fmt.Sprintf("http://%s:%d%s", ip, port, path)

	payload, err := json.Marshal(reqBody)
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "marshal request body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		span.RecordError(err)
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	span.SetAttributes(
		attribute.String("http.url", url),
		attribute.String("http.method", http.MethodPost),
		attribute.String("peer.service", service),
	)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return errors.Wrapf(err, "call %s", service)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		err := errors.Errorf("service %s returned %s: %s", service, resp.Status, bytes.TrimSpace(body))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if respBody == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		span.RecordError(err)
		return errors.Wrapf(err, "decode reply from %s", service)
	}
	return nil
}
