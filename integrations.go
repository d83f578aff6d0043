package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/atotto/clipboard"
)

const (
	defaultPasteBase         = "https://hastebin.com"
	defaultStackExchangeBase = "https://api.stackexchange.com/2.3"
	netTimeout               = 15 * time.Second
)

// ErrNoResults is returned when a Stack Overflow search finds nothing.
var ErrNoResults = errors.New("no related posts found")

// Integrations talks to the paste service and the Stack Exchange API and
// hands links to the desktop.
// Integrations работает с hastebin и Stack Exchange API.
type Integrations struct {
	Client            *http.Client
	PasteBase         string
	StackExchangeBase string
	OpenURL           func(string) error
	CopyText          func(string) error
}

// NewIntegrations returns integrations bound to the public services, the
// system browser and the system clipboard.
func NewIntegrations() *Integrations {
	return &Integrations{
		Client:            &http.Client{Timeout: netTimeout},
		PasteBase:         defaultPasteBase,
		StackExchangeBase: defaultStackExchangeBase,
		OpenURL:           openInBrowser,
		CopyText:          clipboard.WriteAll,
	}
}

// PostPaste uploads text and returns the link to the new document.
// PostPaste публикует текст и возвращает ссылку.
func (in *Integrations) PostPaste(ctx context.Context, text string) (string, error) {
	base := strings.TrimRight(in.PasteBase, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/documents", strings.NewReader(text))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	var data struct {
		Key string `json:"key"`
	}
	if err := in.doJSON(req, &data); err != nil {
		return "", fmt.Errorf("post paste: %w", err)
	}
	if data.Key == "" {
		return "", errors.New("post paste: empty key in response")
	}
	return base + "/" + data.Key, nil
}

// SearchStackOverflow returns the link of the top-voted question whose
// title matches query, or ErrNoResults.
// SearchStackOverflow ищет вопрос на Stack Overflow.
func (in *Integrations) SearchStackOverflow(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("site", "stackoverflow.com")
	params.Set("intitle", query)
	params.Set("sort", "votes")
	endpoint := strings.TrimRight(in.StackExchangeBase, "/") + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json;charset=UTF-8")

	var data struct {
		Items []struct {
			Link  string `json:"link"`
			Title string `json:"title"`
		} `json:"items"`
	}
	if err := in.doJSON(req, &data); err != nil {
		return "", fmt.Errorf("search stack overflow: %w", err)
	}
	if len(data.Items) == 0 || data.Items[0].Link == "" {
		return "", ErrNoResults
	}
	return data.Items[0].Link, nil
}

func (in *Integrations) doJSON(req *http.Request, out interface{}) error {
	client := in.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// openInBrowser opens link with the desktop's default handler.
func openInBrowser(link string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", link)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", link)
	default:
		cmd = exec.Command("xdg-open", link)
	}
	return cmd.Start()
}

// postToPaste uploads the buffer, copies the link and opens it.
// postToPaste публикует буфер на hastebin.
func (e *Editor) postToPaste() {
	ctx, cancel := context.WithTimeout(context.Background(), netTimeout)
	defer cancel()
	link, err := e.integrations.PostPaste(ctx, e.Text())
	if err != nil {
		logError(catNet, "paste failed", err)
		e.showError("Paste error: " + err.Error())
		return
	}
	logInfo(catNet, "paste posted", "link", link)
	e.clipboard = link
	if err := e.integrations.CopyText(link); err != nil {
		logWarn(catNet, "copy link failed", "err", err)
	}
	if err := e.integrations.OpenURL(link); err != nil {
		logWarn(catNet, "open link failed", "err", err)
	}
	e.statusMessage("Link copied: " + link)
}

// askStackOverflow prompts for a problem and opens the best matching post.
func (e *Editor) askStackOverflow() {
	e.promptShow("What problem do you need help with?", func(input string) {
		query := strings.TrimSpace(input)
		if query == "" {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), netTimeout)
		defer cancel()
		link, err := e.integrations.SearchStackOverflow(ctx, query)
		switch {
		case errors.Is(err, ErrNoResults):
			e.showError("I couldn't find any related posts to your problem.")
			return
		case err != nil:
			logError(catNet, "stack overflow search failed", err, "query", query)
			e.showError("Search error: " + err.Error())
			return
		}
		logInfo(catNet, "stack overflow hit", "query", query, "link", link)
		if err := e.integrations.OpenURL(link); err != nil {
			e.showError("Unable to open browser: " + err.Error())
			return
		}
		e.statusMessage("Opened " + link)
	})
}
