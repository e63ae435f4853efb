package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
	"github.com/sirupsen/logrus"
)

// UpdateRepo is the GitHub slug releases are fetched from.
const UpdateRepo = "luli45/photo-filter"

var semverRe = regexp.MustCompile(`v?\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?`)

// githubRelease is the subset of the releases API payload we read.
type githubRelease struct {
	TagName    string `json:"tag_name"`
	Name       string `json:"name"`
	HTMLURL    string `json:"html_url"`
	Draft      bool   `json:"draft"`
	Prerelease bool   `json:"prerelease"`
	Assets     []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

// pickAsset prefers an asset built for this OS and architecture, then any
// platform-looking asset, then the first one.
func pickAsset(r githubRelease, goos, goarch string) string {
	best, first := "", ""
	for _, a := range r.Assets {
		n := strings.ToLower(a.Name)
		if strings.Contains(n, goos) && strings.Contains(n, goarch) {
			return a.BrowserDownloadURL
		}
		if best == "" && (strings.Contains(n, "darwin") || strings.Contains(n, "linux") || strings.Contains(n, "windows")) {
			best = a.BrowserDownloadURL
		}
		if first == "" {
			first = a.BrowserDownloadURL
		}
	}
	if best != "" {
		return best
	}
	return first
}

// pickLatestRelease returns the highest semver among published, non
// prerelease entries. Tags are searched for a version substring, falling back
// to the release name.
func pickLatestRelease(releases []githubRelease, goos, goarch string) (*selfupdate.Release, bool) {
	type candidate struct {
		ver semver.Version
		rel githubRelease
	}
	var candidates []candidate
	for _, r := range releases {
		if r.Draft || r.Prerelease {
			continue
		}
		match := semverRe.FindString(r.TagName)
		if match == "" {
			match = semverRe.FindString(r.Name)
		}
		if match == "" {
			continue
		}
		v, err := semver.Parse(strings.TrimPrefix(match, "v"))
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{ver: v, rel: r})
	}
	if len(candidates) == 0 {
		return nil, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ver.GT(candidates[j].ver)
	})
	best := candidates[0]
	return &selfupdate.Release{
		Version:  best.ver,
		AssetURL: pickAsset(best.rel, goos, goarch),
		URL:      best.rel.HTMLURL,
		Name:     best.rel.Name,
	}, true
}

// detectLatestFallback queries the GitHub Releases API directly. It tolerates
// tag names selfupdate.DetectLatest would skip.
func detectLatestFallback(ctx context.Context, client *http.Client, repo string) (*selfupdate.Release, bool, error) {
	apiURL := fmt.Sprintf("https://api.github.com/repos/%s/releases", repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("github API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, false, fmt.Errorf("github API returned status %d: %s", resp.StatusCode, string(body))
	}
	var releases []githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&releases); err != nil {
		return nil, false, fmt.Errorf("failed to decode github releases: %w", err)
	}
	rel, ok := pickLatestRelease(releases, runtime.GOOS, runtime.GOARCH)
	return rel, ok, nil
}

// Updater checks GitHub for a newer release and installs it on confirmation.
type Updater struct {
	Repo    string
	Current string
	In      *bufio.Reader
	Out     io.Writer
	Log     *logrus.Logger
	Client  *http.Client
}

// NewUpdater returns an Updater for UpdateRepo and the running Version.
func NewUpdater(in io.Reader, out io.Writer, log *logrus.Logger) *Updater {
	return &Updater{
		Repo:    UpdateRepo,
		Current: Version,
		In:      bufio.NewReader(in),
		Out:     out,
		Log:     log,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (u *Updater) detect(ctx context.Context) (*selfupdate.Release, bool, error) {
	latest, found, err := selfupdate.DetectLatest(u.Repo)
	if err == nil && found {
		return latest, true, nil
	}
	if err != nil {
		u.Log.WithError(err).Debug("selfupdate detection failed, querying releases API")
	}
	return detectLatestFallback(ctx, u.Client, u.Repo)
}

// CheckForUpdates reports the latest release and, when the user agrees,
// replaces the running binary and restarts it.
func (u *Updater) CheckForUpdates(ctx context.Context) error {
	fmt.Fprintf(u.Out, "Current version: %s\n", u.Current)
	latest, found, err := u.detect(ctx)
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}
	if !found || latest == nil {
		fmt.Fprintf(u.Out, "No releases found for %s.\n", u.Repo)
		return nil
	}
	fmt.Fprintf(u.Out, "Latest version: %s\n", latest.Version)

	currentVer, parseErr := semver.ParseTolerant(u.Current)
	if parseErr != nil {
		u.Log.Warnf("could not parse current version %q: %v", u.Current, parseErr)
	} else if latest.Version.LTE(currentVer) {
		fmt.Fprintf(u.Out, "You are already running the latest version: %s.\n", currentVer)
		return nil
	}

	if latest.AssetURL == "" {
		fmt.Fprintf(u.Out, "A new version (%s) is available but there is no downloadable asset.\n", latest.Version)
		if latest.URL != "" {
			fmt.Fprintf(u.Out, "Download it from %s\n", latest.URL)
		}
		return nil
	}

	fmt.Fprintf(u.Out, "A new version (%s) is available. Update now? (y/N): ", latest.Version)
	answer, err := u.In.ReadString('\n')
	if err != nil && answer == "" {
		return fmt.Errorf("failed reading input: %w", err)
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer != "y" && answer != "yes" {
		fmt.Fprintln(u.Out, "Update cancelled.")
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("could not locate executable: %w", err)
	}
	u.Log.Infof("updating %s to %s", exe, latest.Version)
	if err := selfupdate.UpdateTo(latest.AssetURL, exe); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	fmt.Fprintf(u.Out, "Updated to version %s.\n", latest.Version)

	argv := append([]string{exe}, os.Args[1:]...)
	if err := syscall.Exec(exe, argv, os.Environ()); err != nil {
		u.Log.WithError(err).Warn("restart failed; please restart manually")
	}
	return nil
}
