package history

import (
	"fmt"
	"strings"

	"github.com/bnema/cashier-cli/internal/application"
	"github.com/bnema/cashier-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const timeLayout = "2006-01-02 15:04:05"

// Log lists history entries, newest last.
type Log struct {
	Owner   string
	Target  string
	Entries []domain.HistoryEntry
}

// Targets lists the distinct counterparties of a log.
type Targets struct {
	Owner   string
	Targets []string
}

// Outcome summarizes a finished session and, for completions, the running
// totals of the current streak.
type Outcome struct {
	Outcome application.Outcome
}

func (l Log) view(s styles) string {
	header := fmt.Sprintf("entries: %d", len(l.Entries))
	if l.Target != "" {
		header += fmt.Sprintf(" (target %s)", l.Target)
	}
	lines := []string{
		s.title.Render(titleFor("Trade History", l.Owner)),
		s.header.Render(header),
	}

	if len(l.Entries) == 0 {
		lines = append(lines, s.empty.Render("No trades recorded."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	var net int64
	for _, entry := range l.Entries {
		lines = append(lines, s.section.Render(renderEntry(entry, s)))
		if entry.Completed {
			net += entry.NetGil()
		}
	}
	lines = append(lines, s.section.Render(s.label.Render("net gil:")+" "+signed(net, s)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (t Targets) view(s styles) string {
	lines := []string{
		s.title.Render(titleFor("Trade Partners", t.Owner)),
		s.header.Render(fmt.Sprintf("partners: %d", len(t.Targets))),
	}
	if len(t.Targets) == 0 {
		lines = append(lines, s.empty.Render("No trades recorded."))
	}
	for _, target := range t.Targets {
		lines = append(lines, s.party.Render(target))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (o Outcome) view(s styles) string {
	entry := o.Outcome.Entry
	lines := []string{renderEntry(entry, s)}

	if o.Outcome.Completed && o.Outcome.Streak.Sessions > 1 {
		lines = append(lines, s.section.Render(renderStreak(o.Outcome.Streak, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderEntry(entry domain.HistoryEntry, s styles) string {
	title := s.party.Render(entry.Counterparty) + " " + s.meta.Render(entry.Timestamp.Format(timeLayout))
	if !entry.Completed {
		title += " " + s.cancelled.Render("[cancelled]")
	}
	if !entry.Retained {
		title += " " + s.meta.Render("[dismissed]")
	}

	parts := []string{
		title,
		s.meta.Render("id: " + entry.ID),
		itemLine("given", entry.ItemsGiven, entry.GilGiven, s),
		itemLine("received", entry.ItemsReceived, entry.GilReceived, s),
	}
	if entry.Completed {
		parts = append(parts, s.label.Render("net:")+" "+signed(entry.NetGil(), s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func itemLine(label string, items []domain.ItemRecord, gil uint32, s styles) string {
	parts := make([]string, 0, len(items)+1)
	for _, item := range items {
		name := item.Name
		if item.HighQuality {
			name += s.hq.Render("(HQ)")
		}
		parts = append(parts, fmt.Sprintf("%s x%s", name, domain.FormatGil(uint64(item.Quantity))))
	}
	if gil > 0 {
		parts = append(parts, domain.FormatGil(uint64(gil))+" gil")
	}
	if len(parts) == 0 {
		parts = append(parts, s.empty.Render("nothing"))
	}

	return s.label.Render(label+":") + " " + s.detail.Render(strings.Join(parts, ", "))
}

func renderStreak(bucket domain.AggregationBucket, s styles) string {
	lines := []string{
		s.title.Render(fmt.Sprintf("Streak with %s (%d trades)", bucket.Counterparty.Key(), bucket.Sessions)),
	}

	for _, side := range []domain.Side{domain.SideSelf, domain.SidePeer} {
		label := "given"
		if side == domain.SidePeer {
			label = "received"
		}
		lines = append(lines, s.label.Render(label+":"))

		sideBucket := bucket.Side(side)
		if sideBucket.Empty() {
			lines = append(lines, "  "+s.empty.Render("nothing"))
			continue
		}
		for _, record := range sideBucket.List() {
			if record.NormalQty > 0 {
				lines = append(lines, "  "+s.detail.Render(fmt.Sprintf("%s: %s", record.DisplayName, domain.FormatStackQuantity(record.NormalQty, record.StackLimit))))
			}
			if record.HighQty > 0 {
				lines = append(lines, "  "+s.detail.Render(fmt.Sprintf("%s%s: %s", record.DisplayName, s.hq.Render("(HQ)"), domain.FormatStackQuantity(record.HighQty, record.StackLimit))))
			}
		}
		if sideBucket.Gil > 0 {
			lines = append(lines, "  "+s.detail.Render(domain.FormatGil(sideBucket.Gil)+" gil"))
		}
	}

	net := int64(bucket.Side(domain.SidePeer).Gil) - int64(bucket.Side(domain.SideSelf).Gil)
	lines = append(lines, s.label.Render("net:")+" "+signed(net, s))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func signed(amount int64, s styles) string {
	text := domain.FormatSignedGil(amount) + " gil"
	switch {
	case amount > 0:
		return s.gain.Render(text)
	case amount < 0:
		return s.loss.Render(text)
	default:
		return s.detail.Render(text)
	}
}

func titleFor(title, owner string) string {
	if owner == "" {
		return title
	}
	return title + " - " + owner
}
