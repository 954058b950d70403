// Package doctags reads and upserts the inline HTML-comment status metadata
// embedded in narrative documents. The tags are part of the wire contract
// with the external persistence layer.
package doctags

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Status values carried by the STATUS tag.
const (
	StatusPending = "PENDING"
	StatusPaid    = "PAID"
)

var (
	statusTag     = regexp.MustCompile(`<!--\s*STATUS:\s*(\w+)\s*-->`)
	dupAuditTag   = regexp.MustCompile(`\n?<!--\s*DUPLICATE_AUDIT:[^>]*-->`)
	dupAuditParts = regexp.MustCompile(`<!--\s*DUPLICATE_AUDIT:\s*signal=([^;]*);\s*lookback_days=([^;]*);\s*reason=([^;]*);\s*detail=([^;]*);\s*checked_at=([^;>]*?)\s*-->`)
	followedUpTag = regexp.MustCompile(`<!--\s*PENDING_FOLLOWED_UP_AT:\s*([^>]*?)\s*-->`)
)

// UpsertStatus replaces an existing STATUS tag or appends one when absent.
// Applying it twice with the same status is a no-op beyond the first.
func UpsertStatus(doc, status string) string {
	tag := fmt.Sprintf("<!-- STATUS: %s -->", status)
	if statusTag.MatchString(doc) {
		return statusTag.ReplaceAllString(doc, tag)
	}
	return appendTag(doc, tag)
}

// Status returns the current STATUS tag value.
func Status(doc string) (string, bool) {
	if m := statusTag.FindStringSubmatch(doc); m != nil {
		return m[1], true
	}
	return "", false
}

// DuplicateAudit is the audit-trail snapshot embedded after each duplicate
// evaluation.
type DuplicateAudit struct {
	Signal       string
	LookbackDays int
	Reason       string
	Detail       string
	CheckedAt    time.Time
}

// UpsertDuplicateAudit removes any prior DUPLICATE_AUDIT tag and appends
// the new one at the end of the document.
func UpsertDuplicateAudit(doc string, a DuplicateAudit) string {
	doc = dupAuditTag.ReplaceAllString(doc, "")
	tag := fmt.Sprintf("<!-- DUPLICATE_AUDIT: signal=%s; lookback_days=%d; reason=%s; detail=%s; checked_at=%s -->",
		a.Signal, a.LookbackDays, sanitize(a.Reason), sanitize(a.Detail), a.CheckedAt.UTC().Format(time.RFC3339))
	return appendTag(doc, tag)
}

// ParseDuplicateAudit reads the embedded DUPLICATE_AUDIT tag back.
func ParseDuplicateAudit(doc string) (DuplicateAudit, bool) {
	m := dupAuditParts.FindStringSubmatch(doc)
	if m == nil {
		return DuplicateAudit{}, false
	}
	days, _ := strconv.Atoi(strings.TrimSpace(m[2]))
	checkedAt, _ := time.Parse(time.RFC3339, strings.TrimSpace(m[5]))
	return DuplicateAudit{
		Signal:       strings.TrimSpace(m[1]),
		LookbackDays: days,
		Reason:       strings.TrimSpace(m[3]),
		Detail:       strings.TrimSpace(m[4]),
		CheckedAt:    checkedAt,
	}, true
}

// UpsertFollowedUp records when a pending submission was chased. Once
// present, this timestamp replaces created_at as the aging baseline.
func UpsertFollowedUp(doc string, ts time.Time) string {
	tag := fmt.Sprintf("<!-- PENDING_FOLLOWED_UP_AT: %s -->", ts.UTC().Format(time.RFC3339))
	if followedUpTag.MatchString(doc) {
		return followedUpTag.ReplaceAllString(doc, tag)
	}
	return appendTag(doc, tag)
}

// FollowedUpAt reads the follow-up timestamp back.
func FollowedUpAt(doc string) (time.Time, bool) {
	m := followedUpTag.FindStringSubmatch(doc)
	if m == nil {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(m[1]))
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func appendTag(doc, tag string) string {
	if doc == "" {
		return tag
	}
	return strings.TrimRight(doc, "\n") + "\n" + tag
}

// sanitize keeps tag payloads parseable by stripping the delimiters the
// tag grammar reserves.
func sanitize(v string) string {
	v = strings.ReplaceAll(v, ";", ",")
	v = strings.ReplaceAll(v, "-->", "")
	return strings.TrimSpace(v)
}
