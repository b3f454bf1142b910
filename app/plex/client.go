package plex

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	productName      = "plex-letterboxd"
	clientIdentifier = "plex-letterboxd-exporter"
)

// ErrSectionNotFound is returned when no library section has the requested title.
var ErrSectionNotFound = errors.New("plex library section not found")

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

type Client struct {
	baseURL string
	token   string
	client  HTTPDoer
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return NewClientWithDoer(baseURL, token, &http.Client{Timeout: timeout})
}

func NewClientWithDoer(baseURL, token string, doer HTTPDoer) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		client:  doer,
	}
}

// Ping checks that the server is reachable and accepts the token.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.get(ctx, "/identity", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Sections lists all library sections.
func (c *Client) Sections(ctx context.Context) ([]Section, error) {
	var container mediaContainer
	if err := c.getXML(ctx, "/library/sections", nil, &container); err != nil {
		return nil, fmt.Errorf("fetch plex sections: %w", err)
	}

	sections := make([]Section, 0, len(container.Directories))
	for _, dir := range container.Directories {
		if dir.Key == "" || dir.Title == "" {
			continue
		}
		sections = append(sections, Section{Key: dir.Key, Title: dir.Title, Type: dir.Type})
	}
	return sections, nil
}

// Section looks up a library section by title, ignoring case.
func (c *Client) Section(ctx context.Context, name string) (Section, error) {
	sections, err := c.Sections(ctx)
	if err != nil {
		return Section{}, err
	}

	for _, section := range sections {
		if strings.EqualFold(section.Title, name) {
			return section, nil
		}
	}
	return Section{}, fmt.Errorf("%w: %q", ErrSectionNotFound, name)
}

// AllItems returns every item in the section.
func (c *Client) AllItems(ctx context.Context, section Section) ([]Item, error) {
	query := url.Values{}
	query.Set("includeGuids", "1")

	var container mediaContainer
	path := fmt.Sprintf("/library/sections/%s/all", url.PathEscape(section.Key))
	if err := c.getXML(ctx, path, query, &container); err != nil {
		return nil, fmt.Errorf("fetch items for section %q: %w", section.Title, err)
	}

	items := make([]Item, 0, len(container.Videos)+len(container.Directories))
	for _, md := range container.Videos {
		items = append(items, md.toItem())
	}
	for _, md := range container.Directories {
		items = append(items, md.toItem())
	}

	slog.Debug("Fetched section items", "section", section.Title, "count", len(items))
	return items, nil
}

func (c *Client) getXML(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.get(ctx, path, query)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := xml.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("X-Plex-Product", productName)
	req.Header.Set("X-Plex-Client-Identifier", clientIdentifier)
	req.Header.Set("Accept", "application/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("plex request failed: %w", err)
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("plex GET %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return resp, nil
}

func (md xmlMetadata) toItem() Item {
	item := Item{
		RatingKey: md.RatingKey,
		Title:     md.Title,
		Year:      md.Year,
		ViewCount: md.ViewCount,
		GUID:      md.GUID,
		Studio:    strings.TrimSpace(md.Studio),
		Genres:    tags(md.Genres),
		Directors: tags(md.Directors),
	}

	if md.LastViewedAt > 0 {
		viewed := time.Unix(md.LastViewedAt, 0).UTC()
		item.LastViewedAt = &viewed
	}

	if rating, err := strconv.ParseFloat(strings.TrimSpace(md.UserRating), 64); err == nil {
		item.UserRating = &rating
	}

	for _, g := range md.GUIDs {
		if id := strings.TrimSpace(g.ID); id != "" {
			item.ExternalGUIDs = append(item.ExternalGUIDs, id)
		}
	}

	return item
}

func tags(values []xmlTag) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if tag := strings.TrimSpace(v.Tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
