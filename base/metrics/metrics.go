// Package metrics wraps datadog-go to facilitate metric recording.
// Naming convention:
//   - internal process time: *.time
//   - external latency: *.latency
//   - error: *.err
package metrics

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/spf13/viper"

	"github.com/musicnft/goapi/base/log"
)

const (
	// ddRate is the rate to pass metrics to the datadog agent. 1 means always.
	ddRate = 1
	// buffer this many counters before flushing to the statsd agent
	bufferMetrics = 10

	ddClientsSize    = 4 // needs to be 2^n
	ddClientsIdxMask = ddClientsSize - 1
)

var (
	initOnce = sync.Once{}

	ddClientsIdx = int32(0)
	ddClients    []statsCli
)

type statsCli interface {
	Count(name string, value int64, tags []string, rate float64) error
	Histogram(name string, value float64, tags []string, rate float64) error
	TimeInMilliseconds(name string, value float64, tags []string, rate float64) error
}

func initDDClients() {
	host := viper.GetString("datadog_host")
	port := viper.GetInt("datadog_port")
	if port == 0 {
		port = 8125
	}
	addr := fmt.Sprintf("%s:%d", host, port)
	ddClients = make([]statsCli, ddClientsSize)
	for i := 0; i < ddClientsSize; i++ {
		cli, err := statsd.NewBuffered(addr, bufferMetrics)
		if err != nil {
			log.Log().WithFields(log.Fields{"addr": addr, "err": err}).Warn("can't talk to datadog agent, metrics are logged only")
			ddClients[i] = &logClient{}
			continue
		}
		ddClients[i] = cli
	}
}

func nextClient() statsCli {
	initOnce.Do(initDDClients)
	i := atomic.AddInt32(&ddClientsIdx, 1) & ddClientsIdxMask
	return ddClients[i]
}

// Ender finishes a timer started by BumpTime
type Ender interface {
	End()
}

// Service provides interface for metrics
type Service interface {
	BumpSum(key string, val float64, tags ...string)
	BumpHistogram(key string, val float64, tags ...string)
	BumpTime(key string, tags ...string) Ender
}

// New creates a metric client with package name as prefix
func New(pkgName string) Service {
	return &Metrics{
		pkgName: pkgName,
		ddTags: []string{
			"env:" + viper.GetString("env_name"),
			"app:" + viper.GetString("app_name"),
		},
	}
}

type Metrics struct {
	pkgName string
	ddTags  []string
}

func (mt *Metrics) key(key string) string {
	return mt.pkgName + "." + key
}

// BumpSum bumps the sum for the given key.
func (mt *Metrics) BumpSum(key string, val float64, tags ...string) {
	if err := nextClient().Count(mt.key(key), int64(val), append(mt.ddTags, parseTags(tags)...), ddRate); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": key}).Error("BumpSum failed")
	}
}

// BumpHistogram bumps the histogram for the given key.
func (mt *Metrics) BumpHistogram(key string, val float64, tags ...string) {
	if err := nextClient().Histogram(mt.key(key), val, append(mt.ddTags, parseTags(tags)...), ddRate); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": key}).Error("BumpHistogram failed")
	}
}

// BumpTime starts a timer for the given key. Call End() on the returned
// value to record the duration:
//
//	defer met.BumpTime("my.function.time").End()
func (mt *Metrics) BumpTime(key string, tags ...string) Ender {
	return &timeTracker{
		start: time.Now(),
		key:   mt.key(key),
		tags:  append(mt.ddTags, parseTags(tags)...),
	}
}

// parseTags converts key/value pairs to datadog "k:v" tags
func parseTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	if len(tags)%2 != 0 {
		log.Log().WithField("tags", tags).Panic("tag length needs to be multiple of 2")
	}
	arr := make([]string, len(tags)/2)
	for i := 0; i < len(tags); i += 2 {
		arr[i/2] = tags[i] + ":" + tags[i+1]
	}
	return arr
}

type timeTracker struct {
	start time.Time
	key   string
	tags  []string
}

func (t *timeTracker) End() {
	d := time.Since(t.start)
	dur := float64(d/time.Millisecond) + float64(d%time.Millisecond)*1e-6
	if err := nextClient().TimeInMilliseconds(t.key, dur, t.tags, ddRate); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": t.key}).Error("BumpTime failed")
	}
}
