package domain

import "time"

// Bucket is a latency class for one leg of a probe.
type Bucket string

const (
	BucketFast Bucket = "fast"
	BucketSlow Bucket = "slow"
	BucketFail Bucket = "fail"
)

const (
	// FastLimit is the exclusive upper bound of the fast bucket.
	FastLimit = 1000 * time.Millisecond
	// SlowLimit is the exclusive upper bound of the slow bucket; anything at
	// or above it counts as a failure.
	SlowLimit = 5000 * time.Millisecond
)

func classify(d time.Duration, failed bool) Bucket {
	switch {
	case failed || d >= SlowLimit:
		return BucketFail
	case d < FastLimit:
		return BucketFast
	default:
		return BucketSlow
	}
}

// DNSBucket classifies the DNS leg of o.
func DNSBucket(o ProbeOutcome) Bucket {
	return classify(o.DNS, o.DNSFailed)
}

// ConnectBucket classifies the connect leg of o. A DNS failure also counts as
// a connect failure since no connection was possible. This overlaps with
// DNSFail in the report and is kept for compatibility with existing logs.
func ConnectBucket(o ProbeOutcome) Bucket {
	if o.DNSFailed {
		return BucketFail
	}
	return classify(o.Connect, o.ConnectFailed)
}

// Buckets is the per-service histogram for one report window. DNS and connect
// are independent dimensions over the same attempts, so
// ConnFast+ConnSlow+ConnFail == Total and DNSFast+DNSSlow+DNSFail == Total.
type Buckets struct {
	ConnFast int64 `json:"conn_fast"`
	ConnSlow int64 `json:"conn_slow"`
	DNSFast  int64 `json:"dns_fast"`
	DNSSlow  int64 `json:"dns_slow"`
	DNSFail  int64 `json:"dns_fail"`
	ConnFail int64 `json:"conn_fail"`
	Total    int64 `json:"total"`
}

// Add applies the bucket policy for one outcome.
func (b *Buckets) Add(o ProbeOutcome) {
	switch DNSBucket(o) {
	case BucketFast:
		b.DNSFast++
	case BucketSlow:
		b.DNSSlow++
	default:
		b.DNSFail++
	}
	switch ConnectBucket(o) {
	case BucketFast:
		b.ConnFast++
	case BucketSlow:
		b.ConnSlow++
	default:
		b.ConnFail++
	}
	b.Total++
}

// Consistent reports whether both dimensions sum to Total.
func (b Buckets) Consistent() bool {
	return b.ConnFast+b.ConnSlow+b.ConnFail == b.Total &&
		b.DNSFast+b.DNSSlow+b.DNSFail == b.Total
}

// ReportRecord is one row of a report tick.
type ReportRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Counts    Buckets   `json:"counts"`
}
