//go:build integration

package steps

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"

	"video-cutter/internal/fetcher"
	"video-cutter/internal/handlers"
	"video-cutter/internal/mediatypes"
	"video-cutter/internal/transcoder"

	"github.com/cucumber/godog"
)

func InitializeCutVideoScenario(ctx *godog.ScenarioContext) {
	ctx.Step(`^the remote host serves a video titled "([^"]*)"$`, theRemoteHostServesAVideoTitled)
	ctx.Step(`^every fetch strategy is rejected by a bot check$`, everyFetchStrategyIsRejectedByABotCheck)
	ctx.Step(`^ffmpeg fails$`, ffmpegFails)
	ctx.Step(`^I request a clip of "([^"]*)" from "([^"]*)" to "([^"]*)"$`, iRequestAClipOfFromTo)
	ctx.Step(`^I upload "([^"]*)" and ask for "([^"]*)"$`, iUploadAndAskFor)
	ctx.Step(`^I upload "([^"]*)" with url "([^"]*)" and ask for "([^"]*)"$`, iUploadWithURLAndAskFor)
	ctx.Step(`^the response content type should be "([^"]*)"$`, theResponseContentTypeShouldBe)
	ctx.Step(`^the response should be an attachment named "([^"]*)"$`, theResponseShouldBeAnAttachmentNamed)
	ctx.Step(`^the error kind should be "([^"]*)"$`, theErrorKindShouldBe)
	ctx.Step(`^ffmpeg should have been asked for ([\d.]+) seconds starting at ([\d.]+)$`, ffmpegShouldHaveBeenAskedFor)
	ctx.Step(`^ffmpeg should not have been called$`, ffmpegShouldNotHaveBeenCalled)
	ctx.Step(`^yt-dlp should have been tried once per strategy$`, ytdlpShouldHaveBeenTriedOncePerStrategy)
	ctx.Step(`^no scratch directories should remain$`, noScratchDirectoriesShouldRemain)
}

func theRemoteHostServesAVideoTitled(title string) error {
	getServiceContext().fetcher = &fakeFetcher{title: title}
	return nil
}

func everyFetchStrategyIsRejectedByABotCheck() error {
	s := getServiceContext()
	s.runner = &botCheckRunner{}
	s.fetcher = fetcher.New(fetcher.WithCommandRunner(s.runner))
	return nil
}

func ffmpegFails() error {
	getServiceContext().transcoder.err = fmt.Errorf("%w: exit status 1", transcoder.ErrTranscode)
	return nil
}

func iRequestAClipOfFromTo(url, start, end string) error {
	body, err := json.Marshal(map[string]interface{}{
		"youtube_url": url,
		"timeCode":    []string{start, end},
	})
	if err != nil {
		return err
	}
	req := httptest.NewRequest(http.MethodPost, "/cut-video", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	getServiceContext().do(req)
	return nil
}

func iUploadAndAskFor(filename, timeCode string) error {
	return upload(filename, "", timeCode)
}

func iUploadWithURLAndAskFor(filename, url, timeCode string) error {
	return upload(filename, url, timeCode)
}

func upload(filename, url, timeCode string) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="video_file"; filename="%s"`, filename))
	header.Set("Content-Type", mediatypes.GetMimeType(mediatypes.Ext(filename)))
	part, err := mw.CreatePart(header)
	if err != nil {
		return err
	}
	if _, err := part.Write([]byte("uploaded video bytes")); err != nil {
		return err
	}

	if err := mw.WriteField("timeCode", timeCode); err != nil {
		return err
	}
	if url != "" {
		if err := mw.WriteField("youtubeVideoUrl", url); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req := httptest.NewRequest(http.MethodPost, "/cut-video", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	getServiceContext().do(req)
	return nil
}

func theResponseContentTypeShouldBe(want string) error {
	if got := getServiceContext().response.Header().Get("Content-Type"); got != want {
		return fmt.Errorf("expected content type %q, got %q", want, got)
	}
	return nil
}

func theResponseShouldBeAnAttachmentNamed(want string) error {
	resp := getServiceContext().response
	disposition, params, err := mime.ParseMediaType(resp.Header().Get("Content-Disposition"))
	if err != nil {
		return fmt.Errorf("invalid Content-Disposition: %w", err)
	}
	if disposition != "attachment" {
		return fmt.Errorf("expected attachment, got %q", disposition)
	}
	if params["filename"] != want {
		return fmt.Errorf("expected filename %q, got %q", want, params["filename"])
	}
	if resp.Body.Len() == 0 {
		return errors.New("attachment body is empty")
	}
	return nil
}

func theErrorKindShouldBe(kind string) error {
	resp := getServiceContext().response
	var body handlers.ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		return fmt.Errorf("error response is not JSON: %w", err)
	}
	if body.Error != kind {
		return fmt.Errorf("expected error kind %q, got %q (detail: %s)", kind, body.Error, body.Detail)
	}
	if body.Detail == "" {
		return errors.New("error response has no detail")
	}
	return nil
}

func ffmpegShouldHaveBeenAskedFor(duration, start float64) error {
	tr := getServiceContext().transcoder
	if tr.calls != 1 {
		return fmt.Errorf("expected 1 ffmpeg call, got %d", tr.calls)
	}
	if math.Abs(tr.start-start) > 1e-9 || math.Abs(tr.duration-duration) > 1e-9 {
		return fmt.Errorf("expected start=%v duration=%v, got start=%v duration=%v", start, duration, tr.start, tr.duration)
	}
	return nil
}

func ffmpegShouldNotHaveBeenCalled() error {
	if calls := getServiceContext().transcoder.calls; calls != 0 {
		return fmt.Errorf("expected no ffmpeg calls, got %d", calls)
	}
	return nil
}

func ytdlpShouldHaveBeenTriedOncePerStrategy() error {
	s := getServiceContext()
	if s.runner == nil {
		return errors.New("no yt-dlp runner configured")
	}
	if want := len(fetcher.DefaultStrategies()); s.runner.calls != want {
		return fmt.Errorf("expected %d yt-dlp invocations, got %d", want, s.runner.calls)
	}
	return nil
}

func noScratchDirectoriesShouldRemain() error {
	entries, err := os.ReadDir(getServiceContext().scratchRoot)
	if err != nil {
		return err
	}
	if len(entries) != 0 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		return fmt.Errorf("scratch root not empty: %v", names)
	}
	return nil
}
