// Package agent turns untrusted LLM text into validated moves. It holds the
// prompt builder, the single-agent retry resolver, and the two-agent
// thinking-mode negotiator.
package agent

import (
	"fmt"
	"regexp"
	"strings"
)

// answerRe extracts the committed move token from free-form model output.
// Extraction is best-effort: models do not always honor the format, so the
// absence of a match is an expected outcome, not an error.
var answerRe = regexp.MustCompile(`(?i)ANSWER:\s*([a-h][1-8][a-h][1-8])`)

// ExtractAnswer scans text for an "ANSWER: <token>" commitment and returns
// the token when present.
func ExtractAnswer(text string) (string, bool) {
	m := answerRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.ToLower(m[1]), true
}

// initialPrompt asks for a single best move in strict token format.
func initialPrompt(fen string, history []string) string {
	return fmt.Sprintf(`Analyze the chess position given in the FEN string: %q.
Move History: %s
Suggest a valid chess move in Universal Chess Interface (UCI) format (e.g. 'e2e4', 'g8f6').
Do not use algebraic notation.
Output should be exactly: ANSWER: <4-character move>
`, fen, strings.Join(history, ", "))
}

// feedbackPrompt is the initial prompt plus a rejection notice for the
// previous proposal. The rejected token must not be repeated verbatim.
func feedbackPrompt(fen string, history []string, rejected string) string {
	return initialPrompt(fen, history) + fmt.Sprintf(`
The previous move %q was invalid and must not be proposed again.
Ensure that the suggested move follows all chess rules and is legal.
`, rejected)
}

// negotiationPrompt drives one turn of the two-agent conversation. The
// strict answer format is withheld on the very first exchange so both
// agents produce open reasoning before either commits to a token.
func negotiationPrompt(fen string, history []string, transcript string, includeFormat bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `You are engaged in a collaborative conversation with another advanced chess analysis AI.
FEN: %s

Move History:
%s

Conversation so far:
%s
`, fen, strings.Join(history, ", "), transcript)

	if includeFormat {
		sb.WriteString(`
ONLY when you are completely aligned with your partner, output your final agreed move in the exact format:
ANSWER: <4-character move>
Do not include any additional text after it; the answer must be in strict UCI format.
If the answer is e5, the output should be: ANSWER: e7e5. Do not use algebraic notation.
`)
	}

	sb.WriteString("\nProvide your detailed reasoning, analysis, and (when appropriate) your final move suggestion.\n")
	return sb.String()
}
