package pixiv

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
)

// DefaultBaseURL is the Pixiv web front end
const DefaultBaseURL = "https://www.pixiv.net"

// Opener builds Pixiv page URLs and opens them in the system browser
type Opener struct {
	baseURL string
	run     func(name string, args ...string) error
}

// NewOpener creates an opener for baseURL; empty means DefaultBaseURL
func NewOpener(baseURL string) *Opener {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Opener{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// ArtworkURL returns the page of a picture
func (o *Opener) ArtworkURL(pid int64) string {
	return o.baseURL + "/artworks/" + strconv.FormatInt(pid, 10)
}

// TagURL returns Pixiv's own artwork search for a tag. The local tag
// marker is not part of Pixiv tag names and is stripped.
func (o *Opener) TagURL(tag string) (string, error) {
	name := strings.TrimPrefix(tag, "#")
	if name == "" {
		return "", fmt.Errorf("empty tag name")
	}
	return o.baseURL + "/tags/" + url.PathEscape(name) + "/artworks", nil
}

// OpenArtwork opens a picture page
func (o *Opener) OpenArtwork(pid int64) error {
	return o.openURL(o.ArtworkURL(pid))
}

// OpenTag opens Pixiv's search page for a tag
func (o *Opener) OpenTag(tag string) error {
	u, err := o.TagURL(tag)
	if err != nil {
		return err
	}
	return o.openURL(u)
}

func (o *Opener) openURL(u string) error {
	switch runtime.GOOS {
	case "darwin":
		return o.run("open", u)
	case "linux":
		return o.run("xdg-open", u)
	case "windows":
		return o.run("cmd", "/c", "start", "", u)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}
