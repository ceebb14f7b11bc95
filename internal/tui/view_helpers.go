package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/sticky-chain/models"
)

// fitText cuts v to at most max runes, marking the cut with "…".
func fitText(v string, max int) string {
	r := []rune(v)
	if max <= 0 {
		return ""
	}
	if len(r) <= max {
		return v
	}
	if max == 1 {
		return string(r[:1])
	}
	return string(r[:max-1]) + "…"
}

// singleLine flattens whitespace so a note fits on one canvas row.
func singleLine(v string) string {
	return strings.Join(strings.Fields(v), " ")
}

func sourceSummary(st models.SourceStatus) string {
	switch st.State {
	case models.SourceIdle:
		return "connecting"
	case models.SourceFetching:
		if st.Stale {
			return "loading (cached)"
		}
		return "loading"
	case models.SourceReady:
		if st.Stale {
			return "cached"
		}
		if st.FetchedAt.IsZero() {
			return "ready"
		}
		return "synced " + st.FetchedAt.Local().Format(time.TimeOnly)
	case models.SourceFailed:
		if st.Exhausted {
			return fmt.Sprintf("offline after %d attempts, r to retry", st.Attempt)
		}
		return fmt.Sprintf("fetch failed, retry %d in %s", st.Attempt+1, st.NextDelay)
	case models.SourceStopped:
		return "stopped"
	}
	return st.State.String()
}

func workflowSummary(wf models.WorkflowStatus) string {
	switch wf.State {
	case models.WorkflowComposing:
		return "composing"
	case models.WorkflowAwaitingPlacement:
		return "click or enter to place"
	case models.WorkflowAwaitingWrite:
		return "writing note"
	case models.WorkflowCommitted:
		return "note submitted"
	case models.WorkflowWriteFailed:
		msg := "write failed, p to place again"
		if wf.LastErr != nil {
			msg = fmt.Sprintf("write failed (%v), p to place again", wf.LastErr)
		}
		return msg
	}
	return ""
}
