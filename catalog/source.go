package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// IndexFile is the document name under both the site origin and the remote base.
	IndexFile = "index.json"

	// LocalBasePath is the image base used when the index came from the site origin.
	LocalBasePath = "./"

	maxErrorBody = 512
)

// NetworkError is a transport-level failure: nothing usable came back.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error fetching %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a response with a non-2xx status.
type HTTPError struct {
	URL        string
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("fetching %s: %s", e.URL, status)
}

// ParseError is a body that is not JSON or lacks the blueprints array.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid index at %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var (
	errMissingBlueprints = errors.New(`document has no "blueprints" array`)
	errNullEntry         = errors.New("entry is null")
)

// Attempt describes one request made by Source.Load.
type Attempt struct {
	Tier       Tier
	URL        string
	StatusCode int
	Records    int
	Err        string
	Duration   time.Duration
	At         time.Time
}

// AttemptRecorder receives every Attempt. Implementations must not block for long:
// they run inline with the load.
type AttemptRecorder interface {
	RecordAttempt(Attempt)
}

// Loader fetches the index. Source is the production implementation.
type Loader interface {
	Load(ctx context.Context) (LoadResult, error)
}

// Source fetches index.json from the site origin, falling back to a remote mirror.
type Source struct {
	LocalURL   string
	RemoteBase string
	UserAgent  string
	HTTPClient *http.Client
	Recorder   AttemptRecorder

	log *zap.SugaredLogger
}

// SourceOptions configures NewSource.
type SourceOptions struct {
	// Origin is an http(s) URL or a filesystem directory holding index.json.
	Origin     string
	RemoteBase string
	UserAgent  string
	Timeout    time.Duration
	Recorder   AttemptRecorder
}

// NewSource builds a Source. A directory origin is served through a file transport,
// so a missing index.json surfaces as a 404 exactly like a web server would answer.
func NewSource(opts SourceOptions, log *zap.SugaredLogger) (*Source, error) {
	if opts.RemoteBase == "" {
		return nil, fmt.Errorf("remote base URL is not configured")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	localURL, err := resolveLocalURL(opts.Origin, transport)
	if err != nil {
		return nil, err
	}

	remoteBase := opts.RemoteBase
	if !strings.HasSuffix(remoteBase, "/") {
		remoteBase += "/"
	}

	return &Source{
		LocalURL:   localURL,
		RemoteBase: remoteBase,
		UserAgent:  opts.UserAgent,
		HTTPClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		Recorder: opts.Recorder,
		log:      log,
	}, nil
}

func resolveLocalURL(origin string, transport *http.Transport) (string, error) {
	if origin == "" {
		origin = "."
	}
	if strings.HasPrefix(origin, "http://") || strings.HasPrefix(origin, "https://") {
		base, err := url.Parse(origin)
		if err != nil {
			return "", fmt.Errorf("invalid site origin %q: %w", origin, err)
		}
		if !strings.HasSuffix(base.Path, "/") {
			base.Path += "/"
		}
		return base.ResolveReference(&url.URL{Path: IndexFile}).String(), nil
	}

	root, err := filepath.Abs(origin)
	if err != nil {
		return "", fmt.Errorf("invalid site origin %q: %w", origin, err)
	}
	transport.RegisterProtocol("file", http.NewFileTransport(http.Dir(root)))
	return "file:///" + IndexFile, nil
}

// Load tries the site origin first and the remote mirror second. The returned
// base path always belongs to the tier that actually served the index.
func (s *Source) Load(ctx context.Context) (LoadResult, error) {
	index, err := s.fetchIndex(ctx, TierLocal, s.LocalURL, true)
	if err == nil {
		return LoadResult{Index: index, BasePath: LocalBasePath, Tier: TierLocal}, nil
	}
	if ctx.Err() != nil {
		return LoadResult{}, ctx.Err()
	}
	s.log.Warnw("Local data load failed, switching to remote fallback",
		zap.String("url", s.LocalURL),
		zap.Error(err),
	)

	remoteURL := s.RemoteBase + IndexFile
	index, err = s.fetchIndex(ctx, TierRemote, remoteURL, false)
	if err != nil {
		s.log.Errorw("Remote data load failed", zap.String("url", remoteURL), zap.Error(err))
		return LoadResult{}, fmt.Errorf("remote fetch failed: %w", err)
	}
	return LoadResult{Index: index, BasePath: s.RemoteBase, Tier: TierRemote}, nil
}

func (s *Source) fetchIndex(ctx context.Context, tier Tier, target string, acceptJSON bool) (Index, error) {
	started := time.Now()
	attempt := Attempt{Tier: tier, URL: target, At: started}

	index, status, err := s.doFetch(ctx, target, acceptJSON)
	attempt.StatusCode = status
	attempt.Duration = time.Since(started)
	if err != nil {
		attempt.Err = err.Error()
	} else {
		attempt.Records = len(index.Blueprints)
		s.log.Infow("Index loaded",
			zap.String("tier", string(tier)),
			zap.String("url", target),
			zap.Int("records", attempt.Records),
			zap.String("mode", index.Mode),
			zap.String("generated_at", index.GeneratedAt),
		)
	}
	if s.Recorder != nil {
		s.Recorder.RecordAttempt(attempt)
	}
	return index, err
}

func (s *Source) doFetch(ctx context.Context, target string, acceptJSON bool) (Index, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Index{}, 0, &NetworkError{URL: target, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}
	if acceptJSON {
		req.Header.Set("Accept", "application/json")
	}
	req.Header.Set("Cache-Control", "no-cache, no-store")
	req.Header.Set("Pragma", "no-cache")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return Index{}, 0, &NetworkError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return Index{}, resp.StatusCode, &HTTPError{
			URL:        target,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	index, err := s.decodeIndex(resp.Body, target)
	if err != nil {
		return Index{}, resp.StatusCode, &ParseError{URL: target, Err: err}
	}
	return index, resp.StatusCode, nil
}

// wireIndex defers decoding of the entries so one bad entry cannot fail the document.
type wireIndex struct {
	Version     string          `json:"version"`
	GeneratedAt string          `json:"generated_at"`
	Mode        string          `json:"mode"`
	Count       int             `json:"count"`
	Blueprints  json.RawMessage `json:"blueprints"`
}

func (s *Source) decodeIndex(r io.Reader, target string) (Index, error) {
	var doc wireIndex
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Index{}, err
	}
	if len(doc.Blueprints) == 0 || string(doc.Blueprints) == "null" {
		return Index{}, errMissingBlueprints
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(doc.Blueprints, &entries); err != nil {
		return Index{}, fmt.Errorf("blueprints is not an array: %w", err)
	}

	index := Index{
		Version:     doc.Version,
		GeneratedAt: doc.GeneratedAt,
		Mode:        doc.Mode,
		Count:       doc.Count,
		Blueprints:  make([]Blueprint, 0, len(entries)),
	}
	for i, raw := range entries {
		bp, dropped, err := decodeBlueprint(raw)
		if err != nil {
			s.log.Warnw("Skipping unreadable index entry",
				zap.String("url", target),
				zap.Int("position", i),
				zap.Error(err),
			)
			continue
		}
		if len(dropped) > 0 {
			s.log.Warnw("Ignoring malformed fields of index entry",
				zap.String("url", target),
				zap.String("id", bp.ID),
				zap.Strings("fields", dropped),
			)
		}
		index.Blueprints = append(index.Blueprints, bp)
	}
	return index, nil
}

// decodeBlueprint decodes one entry. Fields with the wrong JSON type are left at
// their zero value and reported in dropped; only an entry that is not an object
// is an error.
func decodeBlueprint(raw json.RawMessage) (Blueprint, []string, error) {
	var bp Blueprint
	if err := json.Unmarshal(raw, &bp); err == nil {
		if string(raw) == "null" {
			return Blueprint{}, nil, errNullEntry
		}
		return bp, nil, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Blueprint{}, nil, err
	}
	bp = Blueprint{}
	var dropped []string
	for key, value := range fields {
		single, err := json.Marshal(map[string]json.RawMessage{key: value})
		if err != nil {
			dropped = append(dropped, key)
			continue
		}
		var field Blueprint
		if err := json.Unmarshal(single, &field); err != nil {
			dropped = append(dropped, key)
			continue
		}
		_ = json.Unmarshal(single, &bp)
	}
	sort.Strings(dropped)
	return bp, dropped, nil
}
