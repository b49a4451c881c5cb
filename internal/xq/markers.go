package xq

import (
	"fmt"
	"strings"
	"time"
)

// Claim and destination state is projected onto the task description as
// single marker lines, since the remote service has no native claim
// field. All encoding and decoding lives here; the state machine in
// queue.go never touches description text directly, so the encoding can
// move to labels or a custom field without changing it.
const (
	claimPrefix = "claimed:by="
	claimAtSep  = ";at="
	filedPrefix = "filed:to="
)

// Claim identifies which session took ownership of an item, and when.
type Claim struct {
	By string
	At time.Time
}

func (c Claim) marker() string {
	return claimPrefix + c.By + claimAtSep + c.At.UTC().Format(time.RFC3339)
}

// parseClaim extracts the claim marker from a task description. Returns
// nil when the description carries no marker.
func parseClaim(description string) *Claim {
	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, claimPrefix) {
			continue
		}
		by, at, _ := strings.Cut(strings.TrimPrefix(line, claimPrefix), claimAtSep)
		claim := &Claim{By: by}
		if ts, err := time.Parse(time.RFC3339, at); err == nil {
			claim.At = ts
		}
		return claim
	}
	return nil
}

// setClaim returns the description with the claim marker set, replacing
// any existing marker.
func setClaim(description string, c Claim) string {
	return appendLine(clearClaim(description), c.marker())
}

// clearClaim returns the description with any claim marker removed.
func clearClaim(description string) string {
	return stripMarker(description, claimPrefix)
}

// parseFiled extracts the destination marker from a task description.
// Returns "" when none is present.
func parseFiled(description string) string {
	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, filedPrefix) {
			return strings.TrimPrefix(line, filedPrefix)
		}
	}
	return ""
}

// setFiled returns the description with the destination marker set,
// replacing any existing one.
func setFiled(description, destination string) string {
	return appendLine(stripMarker(description, filedPrefix), filedPrefix+destination)
}

// filingFooter renders the human-readable completion record appended
// below the markers.
func filingFooter(destination string, at time.Time) string {
	return fmt.Sprintf("\n\n---\n**Filed to:** %s\n**Filed at:** %s", destination, at.UTC().Format(time.RFC3339))
}

func appendLine(description, line string) string {
	if description == "" {
		return line
	}
	return strings.TrimRight(description, "\n") + "\n" + line
}

func stripMarker(description, prefix string) string {
	lines := strings.Split(description, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), prefix) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimRight(strings.Join(kept, "\n"), "\n")
}
