package githost

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultAPIURL = "https://api.github.com"

// contentCacheSize bounds the in-memory file-content cache. Contents are
// fetched per wizard step and re-requested on back/forward navigation.
const contentCacheSize = 512

// RepoNotFoundError reports a repository the host does not know.
type RepoNotFoundError struct {
	Ref RepoRef
}

func (e *RepoNotFoundError) Error() string {
	return fmt.Sprintf("githost: repository %s not found", e.Ref)
}

// FileFetchError reports a failure to retrieve one file's content.
type FileFetchError struct {
	Path string
	Err  error
}

func (e *FileFetchError) Error() string {
	return fmt.Sprintf("githost: fetch %s: %v", e.Path, e.Err)
}
func (e *FileFetchError) Unwrap() error { return e.Err }

// TreeEntry is one path in the repository tree, in the order the host
// returns it.
type TreeEntry struct {
	Path string `json:"path"`
	Size int64  `json:"size,omitempty"`
}

// Client talks to the GitHub REST v3 API for public repositories.
type Client struct {
	baseURL string
	token   string
	hc      *http.Client
	cache   *lru.Cache[string, string]
}

// NewClient builds a client. baseURL and token may be empty; the public API
// endpoint and anonymous access are the defaults.
func NewClient(baseURL, token string) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultAPIURL
	}
	cache, err := lru.New[string, string](contentCacheSize)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   strings.TrimSpace(token),
		hc:      &http.Client{Timeout: 30 * time.Second},
		cache:   cache,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, fmt.Errorf("githost: %s: status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, err
	}
	return resp.StatusCode, nil
}

// Tree lists the repository's file paths (blobs only), preserving the
// host's order.
func (c *Client) Tree(ctx context.Context, ref RepoRef) ([]TreeEntry, error) {
	var body struct {
		Tree []struct {
			Path string `json:"path"`
			Type string `json:"type"`
			Size int64  `json:"size"`
		} `json:"tree"`
		Truncated bool `json:"truncated"`
	}
	path := fmt.Sprintf("/repos/%s/%s/git/trees/HEAD?recursive=1",
		url.PathEscape(ref.Owner), url.PathEscape(ref.Name))
	status, err := c.get(ctx, path, &body)
	if err != nil {
		if status == http.StatusNotFound {
			return nil, &RepoNotFoundError{Ref: ref}
		}
		return nil, err
	}
	entries := make([]TreeEntry, 0, len(body.Tree))
	for _, t := range body.Tree {
		if t.Type != "blob" {
			continue
		}
		entries = append(entries, TreeEntry{Path: t.Path, Size: t.Size})
	}
	return entries, nil
}

// FileContent fetches one file's decoded text content. Results are cached;
// the wizard re-requests the same paths when the user steps back and forth.
func (c *Client) FileContent(ctx context.Context, ref RepoRef, filePath string) (string, error) {
	key := ref.String() + "/" + filePath
	if text, ok := c.cache.Get(key); ok {
		return text, nil
	}
	var body struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}
	apiPath := fmt.Sprintf("/repos/%s/%s/contents/%s",
		url.PathEscape(ref.Owner), url.PathEscape(ref.Name), escapePath(filePath))
	if _, err := c.get(ctx, apiPath, &body); err != nil {
		return "", &FileFetchError{Path: filePath, Err: err}
	}
	if body.Encoding != "base64" {
		return "", &FileFetchError{Path: filePath, Err: fmt.Errorf("unexpected encoding %q", body.Encoding)}
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(body.Content, "\n", ""))
	if err != nil {
		return "", &FileFetchError{Path: filePath, Err: err}
	}
	text := string(decoded)
	c.cache.Add(key, text)
	return text, nil
}

// escapePath escapes each path segment but keeps the separators.
func escapePath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
