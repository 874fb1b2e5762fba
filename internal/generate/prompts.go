package generate

import (
	"fmt"
	"strings"

	feynman "github.com/ericmagro/feynman-bot"
)

// answerMarker separates a puzzle from its answer in the model's response.
const answerMarker = "ANSWER:"

// fallbackAnswer is stored when a puzzle response carries no marked answer.
const fallbackAnswer = "(Answer coming tomorrow)"

// BuildPrompt renders the user prompt for a directive.
func BuildPrompt(d feynman.Directive) string {
	switch d.Mode {
	case feynman.ModeWhatIf:
		return whatIfPrompt(d)
	case feynman.ModePuzzle:
		return puzzlePrompt(d)
	case feynman.ModeConnections:
		return connectionsPrompt(d)
	default:
		return factPrompt(d)
	}
}

// recentBlock renders the recent-posts context so the model can avoid
// repeating itself. Empty when there is no history to avoid.
func recentBlock(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("<recent_posts>\n")
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("</recent_posts>\n\n")
	return b.String()
}

func callbackBlock(callback *feynman.Post, ageDays int) string {
	if callback == nil {
		return ""
	}
	return fmt.Sprintf(`
CALLBACK OPPORTUNITY: About %d days ago, you shared this: %q
Consider briefly connecting today's fact to this earlier one if there's a natural link.
If no natural link, ignore this and just share a fresh fact.
`, ageDays, callback.Summary)
}

func factPrompt(d feynman.Directive) string {
	var callback string
	if d.Callback != nil {
		callback = callbackBlock(d.Callback, d.CallbackAgeDays)
	}
	return fmt.Sprintf(`%sTASK: Share a genuinely surprising fact about %s.
TYPE OF WONDER: %s
%s
Requirements:
- Lead with the surprise - the thing that breaks intuition, that seems wrong but isn't
- Include a vivid, unexpected analogy ("It's like..." or "Imagine...")
- Connect it to something people encounter in daily life when possible
- Use concrete scale comparisons for large/small numbers
- End with a question, mini-challenge, or "next time you see X, notice..."
- 3-5 sentences total
- Do NOT repeat or closely echo anything from <recent_posts>
- No preamble - start directly with the surprising content
- Close with one relevant emoji`,
		recentBlock(d.RecentContext), d.Topic, d.WonderType, callback)
}

func whatIfPrompt(d feynman.Directive) string {
	return fmt.Sprintf(`%sTASK: Ask an absurd hypothetical question and answer it with real physics or math.

Silly premise, rigorous analysis. Examples of good premises:
- "What if you stirred your coffee at the speed of sound?"
- "What if Earth's gravity doubled for just one second?"
- "What if every human jumped at the same time?"

Related topic to draw from (but get creative): %s

Requirements:
- Pose the absurd question, then walk through what would actually happen
- Use specific numbers and consequences - be concrete
- The physics/math should be real even though the premise is silly
- Maintain a playful but genuinely curious tone
- 4-6 sentences total
- Do NOT repeat premises from <recent_posts>
- No preamble - start with the hypothetical question directly
- Close with one relevant emoji`,
		recentBlock(d.RecentContext), d.Topic)
}

func puzzlePrompt(d feynman.Directive) string {
	return fmt.Sprintf(`%sTASK: Pose an intriguing puzzle or paradox from physics or mathematics.

Requirements:
- The puzzle should be accessible but not trivial
- It should have a real, satisfying answer (you'll provide it separately)
- Classic brain-teasers and famous paradoxes are fine if not recently used
- State the puzzle clearly
- Do NOT give the answer - end with "Think about it..." or similar
- 2-4 sentences for the puzzle
- Do NOT repeat puzzles from <recent_posts>
- No preamble - start with the puzzle directly

After the puzzle, provide the answer in a SEPARATE section marked %s that will be posted tomorrow.`,
		recentBlock(d.RecentContext), answerMarker)
}

func connectionsPrompt(d feynman.Directive) string {
	var summaries strings.Builder
	for _, line := range d.WeekSummaries {
		summaries.WriteString("- ")
		summaries.WriteString(line)
		summaries.WriteString("\n")
	}
	return fmt.Sprintf(`This week's posts:
%s
TASK: Write a brief "connections" post that ties together themes from this week.

Requirements:
- Find a thread or theme that connects 2-3 of these posts
- Zoom out to show where these fit in the bigger picture of physics/math/the universe
- Evoke a sense of wonder at how things connect
- 3-5 sentences
- Don't just list what was covered - find the hidden links
- Close with one relevant emoji`, summaries.String())
}

// splitAnswer separates a puzzle response into the puzzle text and the
// marked answer. A response with no marker yields the whole text as the
// puzzle and a placeholder answer.
func splitAnswer(response string) (puzzle, answer string) {
	if idx := strings.Index(response, answerMarker); idx >= 0 {
		puzzle = strings.TrimSpace(response[:idx])
		answer = strings.TrimSpace(response[idx+len(answerMarker):])
		if answer == "" {
			answer = fallbackAnswer
		}
		return puzzle, answer
	}
	return strings.TrimSpace(response), fallbackAnswer
}
