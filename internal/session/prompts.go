package session

import (
	"fmt"
	"strings"

	"frontier/internal/models"
	"frontier/internal/util"
)

const summaryInstructions = `You are a research curator helping people understand cutting-edge developments. Create a clear, digestible summary:

- **What this study tackled**: Explain the problem they were solving, using everyday analogies when helpful. If there are complex terms, explain them immediately in parentheses.

- **How they did it**: Describe their approach in simple terms. Think "they tested this by..." rather than technical jargon.

- **Key discoveries**: Present findings with specific numbers, but explain what those numbers actually mean practically. Highlight anything surprising or counterintuitive.

- **Why this matters**: Connect to real-world applications or implications a general audience would care about.

Writing Guidelines:
- Assume intelligent readers who aren't experts in this field
- Immediately explain technical terms: "ptychography (an advanced imaging technique that...)"
- Use analogies to familiar concepts for complex ideas
- Keep sentences short and clear
- Call out surprising findings as interesting
- Focus on insights that make people think "oh, that's clever!"
- Adjust complexity for %s level

Keep each bullet point concise but informative.`

const chatGuidelines = `Guidelines:
- Reference specific papers by title when relevant
- Maintain conversation context from previous messages
- Use analogies for complex concepts at %s level
- Keep responses concise but informative (max 250 words)
- If comparing papers, highlight key differences or connections
- Remember what was discussed previously in this conversation`

const (
	noCorpusMessage    = "No papers loaded yet. Please search for and view some papers first before asking questions."
	chatErrorMessage   = "Sorry, there was an error: %s"
	paperContextFormat = "\nPaper: %s\nSummary: %s\n---"
)

func BuildSummaryPrompt(p models.PaperRecord, level models.Expertise) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", p.Title)
	fmt.Fprintf(&b, "Abstract: %s\n", p.Abstract)
	fmt.Fprintf(&b, "Authors: %s\n", util.JoinAuthors(p.Authors))
	if !p.Published.IsZero() {
		fmt.Fprintf(&b, "Published: %s\n", p.Published.Format("2006-01-02 15:04:05-07:00"))
	}
	fmt.Fprintf(&b, "User Expertise: %s\n\n", level)
	fmt.Fprintf(&b, summaryInstructions, level.Lower())
	return b.String()
}

// BuildChatSystemPrompt embeds every stored summary, in insertion order.
func BuildChatSystemPrompt(entries []models.SummaryEntry, level models.Expertise) string {
	var papers strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&papers, paperContextFormat, e.Title, e.Summary)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "You are a research assistant helping a %s-level user understand academic papers.\n\n", level.Lower())
	fmt.Fprintf(&b, "Available Papers (%d papers):\n%s\n\n", len(entries), papers.String())
	fmt.Fprintf(&b, chatGuidelines, level.Lower())
	return b.String()
}
