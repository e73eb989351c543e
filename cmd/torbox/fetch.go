package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/cheggaaa/pb/v3"
)

const progressTemplate = `{{string . "prefix"}}{{counters . }} {{bar . }} {{percent . }} {{speed . }} {{rtime . "ETA %s"}}`

// fetchLink downloads link into dest. When dest is a directory the file name
// is taken from the link path. Progress is drawn on progress unless it is nil.
func fetchLink(ctx context.Context, client *http.Client, link, dest string, progress io.Writer) (string, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", 0, fmt.Errorf("build download request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", 0, fmt.Errorf("download: unexpected status %s", resp.Status)
	}

	target := dest
	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		target = filepath.Join(dest, linkFileName(link))
	}

	f, err := os.Create(target)
	if err != nil {
		return "", 0, fmt.Errorf("create %s: %w", target, err)
	}

	var body io.Reader = resp.Body
	if progress != nil {
		bar := pb.New64(max(resp.ContentLength, 0)).SetTemplate(pb.ProgressBarTemplate(progressTemplate))
		bar.SetWriter(progress)
		bar.Set(pb.Bytes, true)
		bar.Set("prefix", "Downloading: ")
		bar.Start()
		defer bar.Finish()
		body = bar.NewProxyReader(resp.Body)
	}

	n, err := io.Copy(f, body)
	if err != nil {
		f.Close()
		os.Remove(target)
		return "", n, fmt.Errorf("write %s: %w", target, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(target)
		return "", n, fmt.Errorf("close %s: %w", target, err)
	}
	return target, n, nil
}

func linkFileName(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return "download"
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "download"
	}
	return name
}
