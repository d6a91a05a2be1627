package engine

import (
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/vikiman365/scraper/internal/observability"
	"github.com/vikiman365/scraper/internal/types"
)

// EnqueueContext carries the discovering page's context into Enqueue.
type EnqueueContext struct {
	// Base is the discovering page's URL; relative hrefs resolve
	// against it.
	Base *url.URL

	// Referrer is recorded on the task for provenance.
	Referrer string

	// Category is the listing page's category name, threaded into
	// detail tasks.
	Category string
}

// Frontier owns the set of discovered URLs. It deduplicates by
// normalized URL, filters offsite hosts, and hands out tasks in FIFO
// order. It is the sole authority on whether a URL has been scheduled;
// handlers never bypass it.
//
// All operations are serialized behind one mutex so that two handlers
// discovering the same URL concurrently cannot both enqueue it.
type Frontier struct {
	mu          sync.Mutex
	queue       []*types.CrawlTask
	seen        map[string]struct{}
	allowedHost string
	maxDepth    int
	closed      bool
	metrics     *observability.Metrics
}

// NewFrontier creates a Frontier restricted to allowedHost (and its
// subdomains). An empty allowedHost accepts any host. maxDepth of 0
// disables depth limiting.
func NewFrontier(allowedHost string, maxDepth int, metrics *observability.Metrics) *Frontier {
	return &Frontier{
		queue:       make([]*types.CrawlTask, 0, 256),
		seen:        make(map[string]struct{}, 4096),
		allowedHost: strings.ToLower(allowedHost),
		maxDepth:    maxDepth,
		metrics:     metrics,
	}
}

// Enqueue resolves href against the context base, validates it, and
// schedules it if its normalized form has not been seen. It reports
// whether the URL was accepted; rejection is never an error.
func (f *Frontier) Enqueue(href string, label types.PageLabel, depth int, ectx EnqueueContext) bool {
	u, ok := f.resolve(href, ectx.Base)
	if !ok {
		f.metrics.IncFrontierRejection("invalid")
		return false
	}
	if !f.hostAllowed(u.Hostname()) {
		f.metrics.IncFrontierRejection("offsite")
		return false
	}
	if f.maxDepth > 0 && depth > f.maxDepth {
		f.metrics.IncFrontierRejection("depth")
		return false
	}

	key := hashURL(CanonicalizeURL(u.String()))

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return false
	}
	if _, dup := f.seen[key]; dup {
		f.metrics.IncFrontierRejection("duplicate")
		return false
	}
	f.seen[key] = struct{}{}

	f.queue = append(f.queue, &types.CrawlTask{
		URL:          u,
		Label:        label,
		Depth:        depth,
		Referrer:     ectx.Referrer,
		CategoryHint: ectx.Category,
		CreatedAt:    time.Now(),
	})
	f.metrics.IncEnqueued()
	return true
}

// Requeue puts a task back without consulting the seen-set. Used only
// for fetch retries; the task was already accepted once.
func (f *Frontier) Requeue(task *types.CrawlTask) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.queue = append(f.queue, task)
}

// Dequeue removes and returns the oldest task, or nil when empty.
func (f *Frontier) Dequeue() *types.CrawlTask {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return nil
	}
	task := f.queue[0]
	f.queue[0] = nil // GC
	f.queue = f.queue[1:]
	return task
}

// Size returns the number of queued tasks.
func (f *Frontier) Size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// IsDrained reports whether the queue is empty.
func (f *Frontier) IsDrained() bool {
	return f.Size() == 0
}

// SeenCount returns the number of unique URLs ever accepted.
func (f *Frontier) SeenCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.seen)
}

// Close stops the frontier from accepting new tasks.
func (f *Frontier) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

// IsClosed reports whether the frontier has been closed.
func (f *Frontier) IsClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// resolve turns href into an absolute http(s) URL, using base for
// relative references. Fragment-only, javascript:, mailto:, tel: and
// data: links are rejected outright.
func (f *Frontier) resolve(href string, base *url.URL) (*url.URL, bool) {
	href = strings.TrimSpace(href)
	if href == "" ||
		strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") {
		return nil, false
	}

	u, err := url.Parse(href)
	if err != nil {
		return nil, false
	}
	if !u.IsAbs() {
		if base == nil {
			return nil, false
		}
		u = base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	u.Fragment = ""
	return u, true
}

// hostAllowed checks the site allow-list.
func (f *Frontier) hostAllowed(host string) bool {
	if f.allowedHost == "" {
		return true
	}
	host = strings.ToLower(host)
	return host == f.allowedHost || strings.HasSuffix(host, "."+f.allowedHost)
}
