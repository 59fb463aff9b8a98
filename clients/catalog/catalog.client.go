// Package catalog is the enrollment service's client for the catalog
// service's course API.
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"courseledger/apperrors"
	"courseledger/config"
	"courseledger/discovery"

	"github.com/go-resty/resty/v2"
)

// CourseSnapshot is the part of a catalog course the enrollment workflow reads.
type CourseSnapshot struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Title    string `json:"title"`
	Capacity int    `json:"capacity"`
	Enrolled int    `json:"enrolled"`
}

type courseEnvelope struct {
	Success bool            `json:"success"`
	Data    *CourseSnapshot `json:"data"`
	Message string          `json:"message"`
}

// Client calls whichever catalog instance the locator picks.
type Client struct {
	http    *resty.Client
	locator discovery.Locator
	service string
}

// NewClient creates a Client. Every call is bounded by timeout.
func NewClient(locator discovery.Locator, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
		locator: locator,
		service: config.CatalogServiceName,
	}
}

func (c *Client) baseURL(ctx context.Context) (string, error) {
	base, err := c.locator.Resolve(ctx, c.service)
	if err != nil {
		return "", apperrors.Unavailable("Catalog service is not available", err)
	}
	return base, nil
}

// GetCourse fetches a course snapshot. It fails with NotFound when the catalog
// has no such course and with Unavailable when the call cannot complete.
func (c *Client) GetCourse(ctx context.Context, id string) (*CourseSnapshot, error) {
	base, err := c.baseURL(ctx)
	if err != nil {
		return nil, err
	}

	var env courseEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetResult(&env).
		Get(base + "/api/courses/{id}")
	if err != nil {
		return nil, apperrors.Unavailable("Catalog service is not available", err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, apperrors.NotFound("Course", id)
	case resp.IsError():
		return nil, apperrors.Unavailable(fmt.Sprintf("Catalog service answered %d", resp.StatusCode()), nil)
	case env.Data == nil:
		return nil, apperrors.Business("invalid course response")
	}
	return env.Data, nil
}

// UpdateEnrolledCount overwrites the course's cached enrolled counter.
func (c *Client) UpdateEnrolledCount(ctx context.Context, id string, count int) error {
	base, err := c.baseURL(ctx)
	if err != nil {
		return err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetBody(map[string]int{"enrolled": count}).
		Put(base + "/api/courses/{id}")
	if err != nil {
		return fmt.Errorf("update enrolled count for %s: %w", id, err)
	}
	if resp.IsError() {
		return fmt.Errorf("update enrolled count for %s: catalog answered %d: %s", id, resp.StatusCode(), resp.String())
	}
	return nil
}

// Instance reports which catalog instance answered, for diagnostics.
func (c *Client) Instance(ctx context.Context) (map[string]any, error) {
	base, err := c.baseURL(ctx)
	if err != nil {
		return nil, err
	}

	var info map[string]any
	resp, err := c.http.R().SetContext(ctx).SetResult(&info).Get(base + "/api/test/instance")
	if err != nil {
		return nil, apperrors.Unavailable("Catalog service is not available", err)
	}
	if resp.IsError() {
		return nil, apperrors.Unavailable(fmt.Sprintf("Catalog service answered %d", resp.StatusCode()), nil)
	}
	return info, nil
}
