package limiter

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gofrs/uuid"
)

type ExternalLimiter struct {
	host *url.URL
}

func NewExternalLimiter(host *url.URL) *ExternalLimiter {
	return &ExternalLimiter{host: host}
}

func (c ExternalLimiter) CanCreateDoc() bool {
	return c.doRequest("/can/create/doc")
}

func (c ExternalLimiter) CanCreateSnapshot(docId uuid.UUID) bool {
	return c.doRequest("/can/create/doc/" + docId.String() + "/snapshot")
}

func (c ExternalLimiter) GetRemainingDocs() int {
	return c.doRemainRequest("/remain/docs")
}

func (c ExternalLimiter) GetRemainingSnapshots(docId uuid.UUID) int {
	return c.doRemainRequest("/remain/doc/" + docId.String() + "/snapshots")
}

func (c ExternalLimiter) doRemainRequest(path string) int {
	resp, err := http.Get(c.host.ResolveReference(&url.URL{Path: path}).String())
	if err != nil {
		slog.Error("Request remains", "err", err)
		return -1
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return -1
	}

	remain, err := strconv.Atoi(resp.Header.Get("X-Entity-Remain"))
	if err != nil {
		slog.Error("Parse remain answer", "raw", resp.Header.Get("X-Entity-Remain"), "err", err)
		return -1
	}
	return remain
}

func (c ExternalLimiter) doRequest(path string) bool {
	resp, err := http.Get(c.host.ResolveReference(&url.URL{Path: path}).String())
	if err != nil {
		slog.Error("Request access rule", "err", err)
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
