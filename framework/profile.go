package framework

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldlog"
)

const (
	profileTimestampFormat = "20060102_150405"
	profileReportRows      = 30
	profileCallerRows      = 10
)

// profiler appends a CPU profile summary per test to a shared output file. The Go runtime supports
// a single CPU profile per process, so tests that overlap an active profile run unprofiled.
type profiler struct {
	path    string
	loggers ldlog.Loggers
	now     func() time.Time
	active  bool
	lock    sync.Mutex
}

type profileSession struct {
	owner   *profiler
	name    string
	started time.Time
	buf     bytes.Buffer
}

func newProfiler(path string, truncate bool, loggers ldlog.Loggers) (*profiler, error) {
	if truncate {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return nil, err
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
	}
	return &profiler{path: path, loggers: loggers, now: time.Now}, nil
}

func (p *profiler) start(name string) *profileSession {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.active {
		p.loggers.Warnf("Not profiling %s: another test is being profiled", name)
		return nil
	}
	s := &profileSession{owner: p, name: name, started: p.now()}
	if err := pprof.StartCPUProfile(&s.buf); err != nil {
		p.loggers.Warnf("Not profiling %s: %s", name, err)
		return nil
	}
	p.active = true
	return s
}

func (s *profileSession) stop() {
	pprof.StopCPUProfile()
	p := s.owner
	p.lock.Lock()
	p.active = false
	p.lock.Unlock()

	// build the whole report before writing so that one append carries it
	var report bytes.Buffer
	fmt.Fprintf(&report, "\n%s %s\n", s.started.Format(profileTimestampFormat), s.name)
	if prof, err := profile.Parse(&s.buf); err != nil {
		fmt.Fprintf(&report, "unreadable profile: %s\n", err)
	} else {
		writeProfileReport(&report, prof, p.now().Sub(s.started))
	}
	if err := p.append(report.Bytes()); err != nil {
		p.loggers.Errorf("Could not write profile for %s to %s: %s", s.name, p.path, err)
	}
}

func (p *profiler) append(data []byte) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	f, err := os.OpenFile(p.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

type functionStats struct {
	name    string
	flat    int64
	cum     int64
	callers map[string]int64
	callees map[string]int64
}

// summarizeProfile computes flat and cumulative values per function, sorted by cumulative and then
// flat value. It also returns the total and the unit of the value used.
func summarizeProfile(p *profile.Profile) ([]*functionStats, int64, string) {
	index := len(p.SampleType) - 1
	for i, st := range p.SampleType {
		if st.Type == "cpu" {
			index = i
		}
	}
	unit := ""
	if index >= 0 {
		unit = p.SampleType[index].Unit
	}

	stats := make(map[string]*functionStats)
	get := func(name string) *functionStats {
		fs := stats[name]
		if fs == nil {
			fs = &functionStats{name: name, callers: map[string]int64{}, callees: map[string]int64{}}
			stats[name] = fs
		}
		return fs
	}

	var total int64
	for _, sample := range p.Sample {
		if index < 0 || index >= len(sample.Value) {
			continue
		}
		v := sample.Value[index]
		total += v

		var frames []string // leaf first
		for _, loc := range sample.Location {
			if len(loc.Line) == 0 {
				frames = append(frames, fmt.Sprintf("0x%x", loc.Address))
				continue
			}
			for _, line := range loc.Line {
				name := "?"
				if line.Function != nil {
					name = line.Function.Name
				}
				frames = append(frames, name)
			}
		}
		if len(frames) == 0 {
			continue
		}

		get(frames[0]).flat += v
		seen := make(map[string]bool, len(frames))
		for i, name := range frames {
			fs := get(name)
			if !seen[name] {
				fs.cum += v
				seen[name] = true
			}
			if i+1 < len(frames) {
				fs.callers[frames[i+1]] += v
				get(frames[i+1]).callees[name] += v
			}
		}
	}

	ret := make([]*functionStats, 0, len(stats))
	for _, fs := range stats {
		ret = append(ret, fs)
	}
	sort.Slice(ret, func(i, j int) bool {
		if ret[i].cum != ret[j].cum {
			return ret[i].cum > ret[j].cum
		}
		if ret[i].flat != ret[j].flat {
			return ret[i].flat > ret[j].flat
		}
		return ret[i].name < ret[j].name
	})
	return ret, total, unit
}

func formatProfileValue(v int64, unit string) string {
	if unit == "nanoseconds" {
		return time.Duration(v).String()
	}
	return fmt.Sprintf("%d", v)
}

func percent(v, total int64) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(v) / float64(total)
}

func writeProfileReport(w io.Writer, p *profile.Profile, elapsed time.Duration) {
	stats, total, unit := summarizeProfile(p)
	fmt.Fprintf(w, "%d samples, %s total, %s elapsed\n", len(p.Sample), formatProfileValue(total, unit), elapsed)
	if len(stats) == 0 {
		return
	}
	fmt.Fprintf(w, "%12s %7s %12s %7s  %s\n", "flat", "flat%", "cum", "cum%", "function")
	for i, fs := range stats {
		if i == profileReportRows {
			break
		}
		fmt.Fprintf(w, "%12s %6.2f%% %12s %6.2f%%  %s\n",
			formatProfileValue(fs.flat, unit), percent(fs.flat, total),
			formatProfileValue(fs.cum, unit), percent(fs.cum, total),
			fs.name)
	}

	fmt.Fprint(w, "\n\tfunction callers\n")
	writeEdges(w, stats, func(fs *functionStats) map[string]int64 { return fs.callers }, "<-", unit)
	fmt.Fprint(w, "\n\tfunction callees\n")
	writeEdges(w, stats, func(fs *functionStats) map[string]int64 { return fs.callees }, "->", unit)
}

func writeEdges(w io.Writer, stats []*functionStats, edges func(*functionStats) map[string]int64, arrow, unit string) {
	for i, fs := range stats {
		if i == profileCallerRows {
			break
		}
		m := edges(fs)
		if len(m) == 0 {
			continue
		}
		names := make([]string, 0, len(m))
		for name := range m {
			names = append(names, name)
		}
		sort.Slice(names, func(a, b int) bool {
			if m[names[a]] != m[names[b]] {
				return m[names[a]] > m[names[b]]
			}
			return names[a] < names[b]
		})
		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s(%s)", name, formatProfileValue(m[name], unit)))
		}
		fmt.Fprintf(w, "%s %s %s\n", fs.name, arrow, strings.Join(parts, ", "))
	}
}
