package ping

import (
	"context"
	"slices"
	"sync"
	"time"

	probing "github.com/prometheus-community/pro-bing"

	"flood-watch/internal/logger"
)

// Result is the reachability of one upstream host.
type Result struct {
	Target    string        `json:"target"`
	Reachable bool          `json:"reachable"`
	AvgRTT    time.Duration `json:"avg_rtt"`
}

// PingHost sends ICMP pings to the target and reports reachability.
func PingHost(target string) Result {
	res := Result{Target: target}
	pinger, err := probing.NewPinger(target)
	if err != nil {
		logger.Warnf(context.Background(), "ping: failed to create pinger for %s: %v", target, err)
		return res
	}
	pinger.Count = 3
	pinger.Timeout = 5 * time.Second
	pinger.SetPrivileged(true)
	if err := pinger.Run(); err != nil {
		return res
	}
	stats := pinger.Statistics()
	res.Reachable = stats.PacketsRecv > 0
	res.AvgRTT = stats.AvgRtt
	return res
}

// DefaultTTL is how long a Checker reuses its last results.
const DefaultTTL = 30 * time.Second

// Checker pings a fixed set of hosts in parallel. Results are reused for ttl so
// that frequent health requests do not each wait on ICMP timeouts.
type Checker struct {
	targets []string
	ttl     time.Duration
	ping    func(string) Result
	now     func() time.Time

	mu   sync.Mutex
	last []Result
	at   time.Time
}

// NewChecker returns a Checker for targets. A non-positive ttl means DefaultTTL.
func NewChecker(targets []string, ttl time.Duration) *Checker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Checker{targets: targets, ttl: ttl, ping: PingHost, now: time.Now}
}

// CheckAll returns results in target order. Concurrent callers share one
// round of pings; later callers get the cached copy until it expires.
func (c *Checker) CheckAll() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	if c.last != nil && now.Sub(c.at) < c.ttl {
		return slices.Clone(c.last)
	}

	out := make([]Result, len(c.targets))
	var wg sync.WaitGroup
	for i, t := range c.targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out[i] = c.ping(t)
		}()
	}
	wg.Wait()

	c.last, c.at = out, now
	return slices.Clone(out)
}

func (c *Checker) clock() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}
