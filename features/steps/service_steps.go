//go:build integration

package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	"video-cutter/internal/cli"
	"video-cutter/internal/clipper"
	"video-cutter/internal/fetcher"
	"video-cutter/internal/handlers"
	"video-cutter/internal/source"
	"video-cutter/internal/startup"

	"github.com/cucumber/godog"
)

// fakeTranscoder copies the input behind a marker instead of running ffmpeg.
type fakeTranscoder struct {
	calls    int
	start    float64
	duration float64
	err      error
}

func (f *fakeTranscoder) Clip(_ context.Context, input, output string, start, duration float64) error {
	f.calls++
	f.start = start
	f.duration = duration
	if f.err != nil {
		return f.err
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	return os.WriteFile(output, append([]byte("clip:"), data...), 0o600)
}

// fakeFetcher stands in for a yt-dlp download.
type fakeFetcher struct {
	title string
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string, dir string) (*fetcher.Result, error) {
	path := filepath.Join(dir, "download.mp4")
	if err := os.WriteFile(path, []byte("remote video"), 0o600); err != nil {
		return nil, err
	}
	return &fetcher.Result{Path: path, Title: f.title, Strategy: "fake"}, nil
}

// botCheckRunner fails every yt-dlp invocation like a bot check.
type botCheckRunner struct {
	calls int
}

func (r *botCheckRunner) Run(context.Context, string, ...string) ([]byte, []byte, error) {
	r.calls++
	return nil, []byte("ERROR: [youtube] abc: Sign in to confirm you're not a bot"), fmt.Errorf("exit status 1")
}

// serviceContext holds test state for one scenario
type serviceContext struct {
	scratchRoot string
	transcoder  *fakeTranscoder
	fetcher     source.Fetcher
	runner      *botCheckRunner
	tools       []startup.ToolStatus
	response    *httptest.ResponseRecorder
}

// SharedServiceContext is reset before each scenario via Before hook
var SharedServiceContext *serviceContext

func getServiceContext() *serviceContext {
	return SharedServiceContext
}

// handler builds the full middleware chain from the current scenario state.
func (s *serviceContext) handler() http.Handler {
	config := &startup.Config{
		ScratchDir:      s.scratchRoot,
		MaxUploadSize:   1 << 20,
		CORSOrigins:     startup.DefaultCORSOrigins,
		MetricsEnabled:  true,
		LogHealthChecks: true,
	}
	svc := clipper.New(s.transcoder, s.fetcher, s.scratchRoot)
	h, _ := cli.NewHTTPHandler(handlers.New(svc, config, s.tools), config)
	return h
}

func (s *serviceContext) do(req *http.Request) {
	s.response = httptest.NewRecorder()
	s.handler().ServeHTTP(s.response, req)
}

func InitializeServiceScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		root, err := os.MkdirTemp("", "video-cutter-features-")
		if err != nil {
			return c, err
		}
		SharedServiceContext = &serviceContext{
			scratchRoot: root,
			transcoder:  &fakeTranscoder{},
			fetcher:     &fakeFetcher{title: "video"},
			tools: []startup.ToolStatus{
				{Name: "ffmpeg", Available: true},
				{Name: "ffprobe", Available: true},
				{Name: "yt-dlp", Available: true},
			},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if s := getServiceContext(); s != nil {
			os.RemoveAll(s.scratchRoot)
		}
		SharedServiceContext = nil
		return c, nil
	})

	ctx.Step(`^the video cutter service is running$`, theVideoCutterServiceIsRunning)
	ctx.Step(`^the tool "([^"]*)" is missing$`, theToolIsMissing)
	ctx.Step(`^I send a GET request to "([^"]*)"$`, iSendAGETRequestTo)
	ctx.Step(`^I send a GET request to "([^"]*)" from "([^"]*)"$`, iSendAGETRequestToFrom)
	ctx.Step(`^I send a preflight request for "([^"]*)" from "([^"]*)"$`, iSendAPreflightRequestForFrom)
	ctx.Step(`^the response status should be (\d+)$`, theResponseStatusShouldBe)
	ctx.Step(`^the response header "([^"]*)" should be "([^"]*)"$`, theResponseHeaderShouldBe)
	ctx.Step(`^the JSON field "([^"]*)" should be "([^"]*)"$`, theJSONFieldShouldBe)
}

func theVideoCutterServiceIsRunning() error {
	if getServiceContext() == nil {
		return fmt.Errorf("scenario state not initialized")
	}
	return nil
}

func theToolIsMissing(name string) error {
	s := getServiceContext()
	for i := range s.tools {
		if s.tools[i].Name == name {
			s.tools[i].Available = false
			return nil
		}
	}
	return fmt.Errorf("unknown tool %q", name)
}

func iSendAGETRequestTo(path string) error {
	getServiceContext().do(httptest.NewRequest(http.MethodGet, path, nil))
	return nil
}

func iSendAGETRequestToFrom(path, origin string) error {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Origin", origin)
	getServiceContext().do(req)
	return nil
}

func iSendAPreflightRequestForFrom(path, origin string) error {
	req := httptest.NewRequest(http.MethodOptions, path, nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	getServiceContext().do(req)
	return nil
}

func theResponseStatusShouldBe(status int) error {
	s := getServiceContext()
	if s.response == nil {
		return fmt.Errorf("no request was sent")
	}
	if s.response.Code != status {
		return fmt.Errorf("expected status %d, got %d (body: %.200s)", status, s.response.Code, s.response.Body.String())
	}
	return nil
}

func theResponseHeaderShouldBe(name, want string) error {
	if got := getServiceContext().response.Header().Get(name); got != want {
		return fmt.Errorf("expected header %s=%q, got %q", name, want, got)
	}
	return nil
}

func theJSONFieldShouldBe(field, want string) error {
	var body map[string]interface{}
	if err := json.Unmarshal(getServiceContext().response.Body.Bytes(), &body); err != nil {
		return fmt.Errorf("response is not JSON: %w", err)
	}
	got, ok := body[field].(string)
	if !ok {
		return fmt.Errorf("JSON field %q missing or not a string in %v", field, body)
	}
	if got != want {
		return fmt.Errorf("expected %s=%q, got %q", field, want, got)
	}
	return nil
}
