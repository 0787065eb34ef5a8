package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/AdwaithAnandSR/MediaCloudSync/config"
	"github.com/AdwaithAnandSR/MediaCloudSync/util"
)

// runner executes the tool with the given arguments and returns captured
// stdout and stderr. Swapped out in tests.
type runner func(ctx context.Context, execPath string, args []string) (stdout, stderr []byte, err error)

// YTDLP invokes yt-dlp as a subprocess.
type YTDLP struct {
	cfg config.ExtractorConfig
	run runner
}

var _ Extractor = (*YTDLP)(nil)

func NewYTDLP(cfg config.ExtractorConfig) *YTDLP {
	return &YTDLP{cfg: cfg, run: execRun}
}

func execRun(ctx context.Context, execPath string, args []string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, execPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// baseArgs are the flags every invocation carries: auth cookies, the fixed
// user agent, site bypass arguments and the tool-side retry policy.
// Transient network stalls are the tool's problem; the adapter never
// retries on its own.
func (y *YTDLP) baseArgs() []string {
	args := []string{
		"--retries", "10",
		"--fragment-retries", "infinite",
	}
	if y.cfg.CookiesPath != "" {
		args = append(args, "--cookies", y.cfg.CookiesPath)
	}
	if y.cfg.UserAgent != "" {
		args = append(args, "--user-agent", y.cfg.UserAgent)
	}
	args = append(args, y.cfg.ExtraArgs...)
	return args
}

func (y *YTDLP) invoke(ctx context.Context, args []string) ([]byte, error) {
	lg := util.GetLogger(ctx)
	lg.Debugf("running %s %v\n", y.cfg.ExecPath, args)

	stdout, stderr, err := y.run(ctx, y.cfg.ExecPath, args)
	if err != nil {
		return nil, &ToolError{Stderr: string(stderr), Err: err}
	}
	return stdout, nil
}

func (y *YTDLP) FetchListingPage(ctx context.Context, sourceURL string, playlistEnd int) ([]ListingEntry, error) {
	args := append(y.baseArgs(),
		"--skip-download",
		"--flat-playlist",
		"--print-json",
		"--playlist-end", strconv.Itoa(playlistEnd),
		sourceURL,
	)

	out, err := y.invoke(ctx, args)
	if err != nil {
		return nil, err
	}

	// The listing is newline-delimited JSON, one record per entry.
	var entries []ListingEntry
	dec := json.NewDecoder(bytes.NewReader(out))
	for {
		var entry ListingEntry
		if err := dec.Decode(&entry); err == io.EOF {
			break
		} else if err != nil {
			return nil, &MetadataParseError{Err: err}
		}
		if entry.ID == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (y *YTDLP) FetchMetadata(ctx context.Context, videoURL string) (*VideoMetadata, error) {
	args := append(y.baseArgs(),
		"-j",
		"--no-playlist",
		videoURL,
	)

	out, err := y.invoke(ctx, args)
	if err != nil {
		return nil, err
	}

	var meta VideoMetadata
	if err := json.Unmarshal(out, &meta); err != nil {
		return nil, &MetadataParseError{Err: err}
	}
	return &meta, nil
}

func (y *YTDLP) ExtractAudio(ctx context.Context, videoID, videoURL, destDir string) error {
	args := append(y.baseArgs(),
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", "0",
		"--no-playlist",
		"-o", filepath.Join(destDir, videoID+".%(ext)s"),
		videoURL,
	)

	_, err := y.invoke(ctx, args)
	return err
}
